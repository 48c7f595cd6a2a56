package mocks

import (
	"context"

	"repair-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock TokenRepository
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	args := m.Called(ctx, userID, td)
	return args.Error(0)
}
func (m *TokenRepository) GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, accessUUID)
	userID, _ := args.Get(0).(uuid.UUID)
	return userID, args.Error(1)
}
func (m *TokenRepository) GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, refreshUUID)
	userID, _ := args.Get(0).(uuid.UUID)
	return userID, args.Error(1)
}
func (m *TokenRepository) DeleteTokens(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) (int64, error) {
	args := m.Called(ctx, userID, accessUUID, refreshUUID)
	return args.Get(0).(int64), args.Error(1)
}
