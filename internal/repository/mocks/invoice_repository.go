package mocks

import (
	"context"

	"repair-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock InvoiceRepository
type InvoiceRepository struct {
	mock.Mock
}

func (m *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*models.Invoice)
	return inv, args.Error(1)
}
func (m *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	args := m.Called(ctx)
	invoices, _ := args.Get(0).([]models.Invoice)
	return invoices, args.Error(1)
}
func (m *InvoiceRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Invoice, error) {
	args := m.Called(ctx, customerID)
	invoices, _ := args.Get(0).([]models.Invoice)
	return invoices, args.Error(1)
}
func (m *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
