package database

import (
	"context"
	"errors"
	"fmt"

	"repair-server/internal/models"
	"repair-server/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ repository.UserRepository = (*pgUserRepository)(nil)

type pgUserRepository struct {
	db     repository.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db repository.DBTX, logger *zap.Logger) repository.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

const userColumns = `id, username, phone_number, password_hash, role, is_active, is_staff, is_superuser, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PhoneNumber, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.IsStaff, &user.IsSuperuser,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user. Duplicate usernames surface as ErrUserAlreadyExists.
func (r *pgUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, phone_number, password_hash, role, is_active, is_staff, is_superuser)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, last_login, created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("username", user.Username))
	err := r.db.QueryRow(ctx, query,
		user.Username, user.PhoneNumber, user.PasswordHash, user.Role,
		user.IsActive, user.IsStaff, user.IsSuperuser,
	).Scan(&user.ID, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation (username already taken)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Attempted to create duplicate user", zap.String("username", user.Username), zap.String("constraint", pgErr.ConstraintName))
			return models.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("username", user.Username))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}
	r.logger.Info("User created successfully", zap.String("userID", user.ID.String()), zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return nil
}

// GetByID retrieves a user by their ID.
func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("id", id.String()))
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by ID", zap.String("id", id.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by id from postgres", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user by id from postgres: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by their username.
func (r *pgUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("username", username))
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by username", zap.String("username", username))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by username from postgres", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username from postgres: %w", err)
	}
	return user, nil
}

// GetByPhoneNumber resolves a customer by the phone number used at login.
func (r *pgUserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("phoneNumber", phoneNumber))
	user, err := scanUser(r.db.QueryRow(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by phone number", zap.String("phoneNumber", phoneNumber))
			// Возвращаем ErrUserNotFound, чтобы вызывающий код обрабатывал
			// отсутствие пользователя унифицированно.
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by phone number from postgres", zap.Error(err), zap.String("phoneNumber", phoneNumber))
		return nil, fmt.Errorf("failed to get user by phone number from postgres: %w", err)
	}
	return user, nil
}

// ExistsByUsername reports whether a username is already registered.
func (r *pgUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		r.logger.Error("Failed to check user existence by username", zap.Error(err), zap.String("username", username))
		return false, fmt.Errorf("failed to check user existence by username: %w", err)
	}
	return exists, nil
}

// ExistsByUsernameAndPhone reports whether the exact username/phone pair is
// already registered.
func (r *pgUserRepository) ExistsByUsernameAndPhone(ctx context.Context, username, phoneNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND phone_number = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username, phoneNumber).Scan(&exists); err != nil {
		r.logger.Error("Failed to check user existence by username and phone", zap.Error(err), zap.String("username", username))
		return false, fmt.Errorf("failed to check user existence by username and phone: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin stamps a successful login.
func (r *pgUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to update last login in postgres", zap.Error(err), zap.String("userID", id.String()))
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update last login for non-existent user", zap.String("userID", id.String()))
		return models.ErrUserNotFound
	}
	return nil
}
