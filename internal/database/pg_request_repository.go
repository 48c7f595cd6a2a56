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

// Compile-time check to ensure pgRequestRepository implements RequestRepository
var _ repository.RequestRepository = (*pgRequestRepository)(nil)

type pgRequestRepository struct {
	db     repository.DBTX
	logger *zap.Logger
}

// NewPgRequestRepository creates a new PostgreSQL-backed RequestRepository.
func NewPgRequestRepository(db repository.DBTX, logger *zap.Logger) repository.RequestRepository {
	return &pgRequestRepository{
		db:     db,
		logger: logger.Named("PgRequestRepo"),
	}
}

const requestColumns = `id, status, phone_model, problem_description, customer_id, created_at, updated_at`

// Create inserts a new repair request. The status column defaults to PROCESS.
func (r *pgRequestRepository) Create(ctx context.Context, req *models.Request) error {
	query := `INSERT INTO requests (phone_model, problem_description, customer_id)
	          VALUES ($1, $2, $3) RETURNING id, status, created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("customerID", req.CustomerID.String()))
	err := r.db.QueryRow(ctx, query, req.PhoneModel, req.ProblemDescription, req.CustomerID).
		Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 is foreign_key_violation (customer does not exist)
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			r.logger.Warn("Attempted to create request for non-existent customer", zap.String("customerID", req.CustomerID.String()))
			return models.ErrUserNotFound
		}
		r.logger.Error("Failed to create request in postgres", zap.Error(err))
		return fmt.Errorf("failed to create request in postgres: %w", err)
	}
	r.logger.Info("Request created successfully", zap.String("requestID", req.ID.String()), zap.String("customerID", req.CustomerID.String()))
	return nil
}

// GetByID retrieves a request by its ID.
func (r *pgRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req := &models.Request{}
	err := r.db.QueryRow(ctx, query, id).Scan(&req.ID, &req.Status, &req.PhoneModel,
		&req.ProblemDescription, &req.CustomerID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Request not found by ID", zap.String("id", id.String()))
			return nil, models.ErrRequestNotFound
		}
		r.logger.Error("Failed to get request by id from postgres", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get request by id from postgres: %w", err)
	}
	return req, nil
}

// List returns requests matching the given filters in insertion order.
// Conditions are appended only for filters that were actually supplied.
func (r *pgRequestRepository) List(ctx context.Context, filters models.RequestFilters) ([]models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests`
	args := []interface{}{}
	argID := 1
	where := ""

	addCond := func(cond string, arg interface{}) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, argID)
		args = append(args, arg)
		argID++
	}

	if filters.CustomerID != nil {
		addCond("customer_id = $%d", *filters.CustomerID)
	}
	if filters.Status != "" {
		addCond("status = $%d", filters.Status)
	}
	if filters.PhoneModel != "" {
		addCond("phone_model = $%d", filters.PhoneModel)
	}
	if filters.Problem != "" {
		// Подстрочный поиск по описанию проблемы
		addCond("problem_description LIKE '%%' || $%d || '%%'", filters.Problem)
	}

	query += where + " ORDER BY created_at ASC"
	r.logger.Debug("Executing query", zap.String("query", query), zap.Any("args", args))

	requests := make([]models.Request, 0)
	if err := pgxscan.Select(ctx, r.db, &requests, query, args...); err != nil {
		r.logger.Error("Failed to query requests from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	return requests, nil
}

// Update persists all mutable fields of the request.
func (r *pgRequestRepository) Update(ctx context.Context, req *models.Request) error {
	query := `UPDATE requests SET status = $1, phone_model = $2, problem_description = $3,
	          customer_id = $4, updated_at = CURRENT_TIMESTAMP WHERE id = $5`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("requestID", req.ID.String()))
	cmdTag, err := r.db.Exec(ctx, query, req.Status, req.PhoneModel, req.ProblemDescription, req.CustomerID, req.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			r.logger.Warn("Attempted to move request to non-existent customer", zap.String("customerID", req.CustomerID.String()))
			return models.ErrUserNotFound
		}
		r.logger.Error("Failed to update request in postgres", zap.Error(err), zap.String("requestID", req.ID.String()))
		return fmt.Errorf("failed to update request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent request", zap.String("requestID", req.ID.String()))
		return models.ErrRequestNotFound
	}
	r.logger.Info("Request updated successfully", zap.String("requestID", req.ID.String()), zap.String("status", string(req.Status)))
	return nil
}

// Delete removes the request. Dependent invoices are removed by the FK cascade.
func (r *pgRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM requests WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("requestID", id.String()))
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete request from postgres", zap.Error(err), zap.String("requestID", id.String()))
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent request", zap.String("requestID", id.String()))
		return models.ErrRequestNotFound
	}
	r.logger.Info("Request deleted successfully", zap.String("requestID", id.String()))
	return nil
}
