// Package repository defines the persistence interfaces. Every store handle is
// passed in explicitly; there is no ambient global connection.
package repository

import (
	"context"

	"repair-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts a pgx pool or transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository persists identities.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByUsernameAndPhone(ctx context.Context, username, phoneNumber string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// RequestRepository persists repair tickets.
type RequestRepository interface {
	Create(ctx context.Context, req *models.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	List(ctx context.Context, filters models.RequestFilters) ([]models.Request, error)
	Update(ctx context.Context, req *models.Request) error
	// Delete removes the request; dependent invoices go with it (FK cascade).
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceRepository persists billing records.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context) ([]models.Invoice, error)
	ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenRepository tracks issued token UUIDs. A token absent from the store is
// treated as revoked even when its signature is still valid.
type TokenRepository interface {
	SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error
	GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error)
	GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error)
	DeleteTokens(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) (int64, error)
}
