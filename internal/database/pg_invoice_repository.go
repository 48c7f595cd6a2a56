package database

import (
	"context"
	"errors"
	"fmt"

	"repair-server/internal/models"
	"repair-server/internal/repository"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgInvoiceRepository implements InvoiceRepository
var _ repository.InvoiceRepository = (*pgInvoiceRepository)(nil)

type pgInvoiceRepository struct {
	db     repository.DBTX
	logger *zap.Logger
}

// NewPgInvoiceRepository creates a new PostgreSQL-backed InvoiceRepository.
func NewPgInvoiceRepository(db repository.DBTX, logger *zap.Logger) repository.InvoiceRepository {
	return &pgInvoiceRepository{
		db:     db,
		logger: logger.Named("PgInvoiceRepo"),
	}
}

const invoiceColumns = `id, price, status, request_id, created_at, updated_at`

// Create inserts a new invoice for a finished request.
func (r *pgInvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	query := `INSERT INTO invoices (price, status, request_id)
	          VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("requestID", inv.RequestID.String()))
	err := r.db.QueryRow(ctx, query, inv.Price, inv.Status, inv.RequestID).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 is foreign_key_violation (request does not exist)
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			r.logger.Warn("Attempted to create invoice for non-existent request", zap.String("requestID", inv.RequestID.String()))
			return models.ErrRequestNotFound
		}
		r.logger.Error("Failed to create invoice in postgres", zap.Error(err))
		return fmt.Errorf("failed to create invoice in postgres: %w", err)
	}
	r.logger.Info("Invoice created successfully", zap.String("invoiceID", inv.ID.String()), zap.String("requestID", inv.RequestID.String()))
	return nil
}

// GetByID retrieves an invoice by its ID.
func (r *pgInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv := &models.Invoice{}
	err := r.db.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.Price, &inv.Status,
		&inv.RequestID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Invoice not found by ID", zap.String("id", id.String()))
			return nil, models.ErrInvoiceNotFound
		}
		r.logger.Error("Failed to get invoice by id from postgres", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get invoice by id from postgres: %w", err)
	}
	return inv, nil
}

// List returns all invoices in insertion order.
func (r *pgInvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at ASC`
	r.logger.Debug("Executing query", zap.String("query", query))
	invoices := make([]models.Invoice, 0)
	if err := pgxscan.Select(ctx, r.db, &invoices, query); err != nil {
		r.logger.Error("Failed to query invoices from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	return invoices, nil
}

// ListByCustomerID returns the invoices of all requests owned by a customer.
func (r *pgInvoiceRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Invoice, error) {
	query := `SELECT i.id, i.price, i.status, i.request_id, i.created_at, i.updated_at
	          FROM invoices i
	          JOIN requests r ON r.id = i.request_id
	          WHERE r.customer_id = $1
	          ORDER BY i.created_at ASC`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("customerID", customerID.String()))
	invoices := make([]models.Invoice, 0)
	if err := pgxscan.Select(ctx, r.db, &invoices, query, customerID); err != nil {
		r.logger.Error("Failed to query customer invoices from postgres", zap.Error(err), zap.String("customerID", customerID.String()))
		return nil, fmt.Errorf("failed to query customer invoices: %w", err)
	}
	return invoices, nil
}

// Update persists price and status of the invoice.
func (r *pgInvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	query := `UPDATE invoices SET price = $1, status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("invoiceID", inv.ID.String()))
	cmdTag, err := r.db.Exec(ctx, query, inv.Price, inv.Status, inv.ID)
	if err != nil {
		r.logger.Error("Failed to update invoice in postgres", zap.Error(err), zap.String("invoiceID", inv.ID.String()))
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent invoice", zap.String("invoiceID", inv.ID.String()))
		return models.ErrInvoiceNotFound
	}
	r.logger.Info("Invoice updated successfully", zap.String("invoiceID", inv.ID.String()), zap.String("status", string(inv.Status)))
	return nil
}

// Delete removes the invoice.
func (r *pgInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("invoiceID", id.String()))
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete invoice from postgres", zap.Error(err), zap.String("invoiceID", id.String()))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent invoice", zap.String("invoiceID", id.String()))
		return models.ErrInvoiceNotFound
	}
	r.logger.Info("Invoice deleted successfully", zap.String("invoiceID", id.String()))
	return nil
}
