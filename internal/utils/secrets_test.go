package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSecret(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)

	writeSecret := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	t.Run("reads and trims the secret value", func(t *testing.T) {
		writeSecret("jwt_secret", "  super-secret-value\n")

		value, err := ReadSecret("jwt_secret")
		require.NoError(t, err)
		assert.Equal(t, "super-secret-value", value)
	})

	t.Run("missing secret file", func(t *testing.T) {
		_, err := ReadSecret("no_such_secret")
		assert.Error(t, err)
	})

	t.Run("empty secret file", func(t *testing.T) {
		// Файл из одних пробелов эквивалентен пустому
		writeSecret("empty_secret", "   \n")

		_, err := ReadSecret("empty_secret")
		assert.ErrorContains(t, err, "is empty")
	})
}
