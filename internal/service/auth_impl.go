package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"repair-server/internal/config"
	"repair-server/internal/domain"
	"repair-server/internal/models"
	"repair-server/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

// Ukrainian mobile numbers only: +38 followed by exactly ten digits.
var phoneNumberRegex = regexp.MustCompile(`^\+38\d{10}$`)

type authServiceImpl struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	cfg       *config.Config
	logger    *zap.Logger
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		logger:    logger.Named("AuthService"),
	}
}

// Register creates a new user. A phone number selects the customer path (phone
// format and pair-uniqueness checks), its absence the master path.
func (s *authServiceImpl) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	logFields := []zap.Field{zap.String("username", username)}
	s.logger.Info("Registering new user", logFields...)

	if username == "" || input.Password == "" {
		if input.PhoneNumber == nil {
			s.logger.Warn("Registration attempt without credentials")
			return nil, models.ErrMissingCredentials
		}
		s.logger.Warn("Registration attempt with phone number but no username", logFields...)
		return nil, models.ErrMissingCredentials
	}

	if input.PhoneNumber != nil {
		return s.registerCustomer(ctx, username, strings.TrimSpace(*input.PhoneNumber), input.Password)
	}
	return s.registerMaster(ctx, username, input.Password)
}

func (s *authServiceImpl) registerCustomer(ctx context.Context, username, phoneNumber, password string) (*models.User, error) {
	logFields := []zap.Field{zap.String("username", username), zap.String("phoneNumber", phoneNumber)}

	if !phoneNumberRegex.MatchString(phoneNumber) {
		s.logger.Warn("Registration attempt with invalid phone number", logFields...)
		return nil, models.ErrInvalidPhoneNumber
	}

	// Сначала проверяем пару (username, phone), затем один username —
	// порядок проверок сохраняет исходные сообщения об ошибках.
	pairExists, err := s.userRepo.ExistsByUsernameAndPhone(ctx, username, phoneNumber)
	if err != nil {
		s.logger.Error("Error checking existing customer during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing customer: %w", err)
	}
	if pairExists {
		s.logger.Warn("Registration attempt for existing customer", logFields...)
		return nil, models.ErrCustomerAlreadyExists
	}

	usernameExists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Error checking existing username during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing username: %w", err)
	}
	if usernameExists {
		s.logger.Warn("Registration attempt for existing username", logFields...)
		return nil, models.ErrUserAlreadyExists
	}

	hashedPassword, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PhoneNumber:  &phoneNumber,
		PasswordHash: hashedPassword,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Ошибка уникальности уже преобразована репозиторием
		return nil, err
	}

	s.logger.Info("Customer registered successfully", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return user, nil
}

func (s *authServiceImpl) registerMaster(ctx context.Context, username, password string) (*models.User, error) {
	logFields := []zap.Field{zap.String("username", username)}

	usernameExists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Error checking existing username during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing username: %w", err)
	}
	if usernameExists {
		s.logger.Warn("Registration attempt for existing username", logFields...)
		return nil, models.ErrUserAlreadyExists
	}

	hashedPassword, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         models.RoleMaster,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Master registered successfully", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates a user and returns token details.
func (s *authServiceImpl) Login(ctx context.Context, cred Credential) (*models.TokenDetails, error) {
	var (
		user     *models.User
		err      error
		password string
	)

	switch c := cred.(type) {
	case PhonePassword:
		s.logger.Info("Login attempt by phone number", zap.String("phoneNumber", c.PhoneNumber))
		user, err = s.userRepo.GetByPhoneNumber(ctx, c.PhoneNumber)
		password = c.Password
	case UsernamePassword:
		s.logger.Info("Login attempt by username", zap.String("username", c.Username))
		user, err = s.userRepo.GetByUsername(ctx, c.Username)
		password = c.Password
	default:
		return nil, models.ErrMissingCredentials
	}

	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found")
			return nil, models.ErrUserNotFound
		}
		s.logger.Error("Login failed: error getting user from repository", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Login failed: invalid password", zap.String("userID", user.ID.String()))
		return nil, models.ErrInvalidCredentials
	}

	if !user.IsActive {
		// Не раскрываем причину отказа
		s.logger.Warn("Login failed: user is inactive", zap.String("userID", user.ID.String()))
		return nil, models.ErrInvalidCredentials
	}

	td, err := s.createTokens(user)
	if err != nil {
		s.logger.Error("Failed to create tokens during login", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to create tokens: %w", err)
	}

	if err := s.tokenRepo.SetToken(ctx, user.ID, td); err != nil {
		s.logger.Error("Failed to save token details during login", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to save token details: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Некритично для логина, только логируем
		s.logger.Error("Failed to update last login timestamp", zap.Error(err), zap.String("userID", user.ID.String()))
	}

	s.logger.Info("User logged in successfully", zap.String("userID", user.ID.String()), zap.String("role", string(user.Role)))
	return td, nil
}

// Logout revokes the refresh token and the caller's access token. The refresh
// token must be well-formed, unexpired and still present in the store.
func (s *authServiceImpl) Logout(ctx context.Context, accessUUID, refreshToken string) error {
	s.logger.Debug("Logout attempt") // Не логируем сам токен

	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return err
	}

	refreshUUID := claims.ID
	userID, err := s.tokenRepo.GetUserIDByRefreshUUID(ctx, refreshUUID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Warn("Logout attempt with revoked or unknown refresh token", zap.String("refreshUUID", refreshUUID))
			return models.ErrTokenNotFound
		}
		s.logger.Error("Error checking refresh token existence during logout", zap.Error(err))
		return fmt.Errorf("error checking refresh token existence: %w", err)
	}

	if userID != claims.UserID {
		s.logger.Error("Refresh token user ID mismatch during logout",
			zap.String("tokenUserID", claims.UserID.String()), zap.String("repoUserID", userID.String()))
		return models.ErrTokenInvalid
	}

	deletedCount, err := s.tokenRepo.DeleteTokens(ctx, userID, accessUUID, refreshUUID)
	if err != nil {
		s.logger.Error("Failed to delete tokens during logout", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to delete tokens: %w", err)
	}

	s.logger.Info("User logged out", zap.String("userID", userID.String()), zap.Int64("deletedCount", deletedCount))
	return nil
}

// VerifyAccessToken parses and validates an access token string. A token that
// is valid but no longer in the store counts as revoked.
func (s *authServiceImpl) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	s.logger.Debug("Verifying access token")

	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if _, err := s.tokenRepo.GetUserIDByAccessUUID(ctx, claims.ID); err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Access token not found in store (revoked or logged out)", zap.String("accessUUID", claims.ID))
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("Error checking access token existence", zap.Error(err))
		return nil, fmt.Errorf("error checking access token existence: %w", err)
	}

	return claims, nil
}

// parseToken validates signature and expiry and returns the claims.
func (s *authServiceImpl) parseToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Warn("Token verification failed: expired")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Token verification failed: malformed")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Error("Failed to parse token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		s.logger.Warn("Token verification failed (invalid claims type or signature)")
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// createTokens generates a new access and refresh token pair for a user.
func (s *authServiceImpl) createTokens(user *models.User) (*models.TokenDetails, error) {
	td := &models.TokenDetails{}
	td.AtExpires = time.Now().Add(s.cfg.AccessTokenTTL).Unix()
	td.AccessUUID = uuid.New().String()
	td.RtExpires = time.Now().Add(s.cfg.RefreshTokenTTL).Unix()
	td.RefreshUUID = uuid.New().String()

	var err error
	td.AccessToken, err = s.signToken(user, td.AccessUUID, td.AtExpires)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	td.RefreshToken, err = s.signToken(user, td.RefreshUUID, td.RtExpires)
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return td, nil
}

func (s *authServiceImpl) signToken(user *models.User, tokenUUID string, expiresAt int64) (string, error) {
	claims := &domain.Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID,
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiresAt, 0)),
			Subject:   user.ID.String(),
			Issuer:    "repair-server",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// --- Helper Functions ---

// applyPepper applies HMAC-SHA256 using the pepper as the key.
func applyPepper(password, pepper string) []byte {
	h := hmac.New(sha256.New, []byte(pepper))
	h.Write([]byte(password))
	return h.Sum(nil)
}

// hashPassword generates a bcrypt hash of the password after applying the pepper.
func hashPassword(password, pepper string) (string, error) {
	pepperedPassword := applyPepper(password, pepper)
	bytes, err := bcrypt.GenerateFromPassword(pepperedPassword, bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPasswordHash compares a plain text password (after applying the pepper)
// with a stored hash.
func checkPasswordHash(password, hash, pepper string) bool {
	pepperedPassword := applyPepper(password, pepper)
	err := bcrypt.CompareHashAndPassword([]byte(hash), pepperedPassword)
	return err == nil
}
