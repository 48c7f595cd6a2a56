package service

import (
	"context"

	"repair-server/internal/domain"
	"repair-server/internal/models"
)

// Credential is a tagged login credential. Customers authenticate with a phone
// number, masters with a username; the two variants never mix.
type Credential interface {
	credential()
}

// UsernamePassword authenticates a master (staff) account.
type UsernamePassword struct {
	Username string
	Password string
}

// PhonePassword authenticates a customer account by phone number.
type PhonePassword struct {
	PhoneNumber string
	Password    string
}

func (UsernamePassword) credential() {}
func (PhonePassword) credential()    {}

// RegisterInput carries registration data. A present PhoneNumber selects the
// customer path, an absent one the master path.
type RegisterInput struct {
	Username    string
	PhoneNumber *string
	Password    string
}

// AuthService handles registration, login, logout and token verification.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, cred Credential) (*models.TokenDetails, error)
	// Logout revokes the given refresh token together with the access token
	// the caller presented (identified by its UUID from the auth middleware).
	Logout(ctx context.Context, accessUUID, refreshToken string) error
	VerifyAccessToken(ctx context.Context, tokenString string) (*domain.Claims, error)
}
