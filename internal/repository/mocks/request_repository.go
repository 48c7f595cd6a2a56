package mocks

import (
	"context"

	"repair-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock RequestRepository
type RequestRepository struct {
	mock.Mock
}

func (m *RequestRepository) Create(ctx context.Context, req *models.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	args := m.Called(ctx, id)
	req, _ := args.Get(0).(*models.Request)
	return req, args.Error(1)
}
func (m *RequestRepository) List(ctx context.Context, filters models.RequestFilters) ([]models.Request, error) {
	args := m.Called(ctx, filters)
	requests, _ := args.Get(0).([]models.Request)
	return requests, args.Error(1)
}
func (m *RequestRepository) Update(ctx context.Context, req *models.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *RequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
