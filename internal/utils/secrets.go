package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultSecretsDir is the standard mount point for Docker Secrets.
const defaultSecretsDir = "/run/secrets"

// secretsDir возвращает каталог с секретами. SECRETS_DIR позволяет
// переопределить его вне Swarm/Compose (например, в тестах).
func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return defaultSecretsDir
}

// ReadSecret reads a named secret file from the secrets directory. The value
// is trimmed of surrounding whitespace; a missing or empty file is an error.
// There is deliberately no env-var fallback for secret values.
func ReadSecret(secretName string) (string, error) {
	filePath := filepath.Join(secretsDir(), secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
