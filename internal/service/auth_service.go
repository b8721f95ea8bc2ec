package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT standard claims with the account id and role.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string     `json:"id"`
	Role      model.Role `json:"role"`
}

// Identity is the authenticated caller extracted from a valid token.
type Identity struct {
	AccountID uuid.UUID
	Role      model.Role
}

// AuthService handles registration, login and token validation.
type AuthService struct {
	accounts AccountRepository
	cfg      *config.Config
	metrics  *MetricsService
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService. metrics may be nil.
func NewAuthService(accounts AccountRepository, cfg *config.Config, metrics *MetricsService, log zerolog.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		cfg:      cfg,
		metrics:  metrics,
		log:      log.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Register creates an account for role. The email must not already be
// registered for that role.
func (s *AuthService) Register(ctx context.Context, role model.Role, profile model.Profile, password string) (*model.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("register: unknown role %q", role)
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	email := normalizeEmail(profile.Email)

	_, err := s.accounts.GetByEmail(ctx, role, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateAccount
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := s.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.New(),
		Role:         role,
		Name:         strings.TrimSpace(profile.Name),
		Email:        email,
		PasswordHash: hash,
		Department:   profile.Department,
		RollNumber:   profile.RollNumber,
		Class:        profile.Class,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.metrics.RecordRegistration(role)
	s.log.Info().Str("account_id", account.ID.String()).Str("role", string(role)).Msg("Account registered")
	return account, nil
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, role model.Role, email, password string) (string, error) {
	account, err := s.accounts.GetByEmail(ctx, role, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordLogin(role, false)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get account: %w", err)
	}

	if err := s.CheckPassword(account.PasswordHash, password); err != nil {
		s.metrics.RecordLogin(role, false)
		return "", err
	}

	token, err := s.GenerateToken(account.ID, role)
	if err != nil {
		return "", err
	}
	s.metrics.RecordLogin(role, true)
	return token, nil
}

// GenerateToken signs an HS256 token for an account.
func (s *AuthService) GenerateToken(accountID uuid.UUID, role model.Role) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		AccountID: accountID.String(),
		Role:      role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate validates a token and returns the caller identity.
// A missing or structurally malformed token yields ErrUnauthenticated; a
// token that parses but fails verification yields ErrInvalidToken.
func (s *AuthService) Authenticate(tokenStr string) (*Identity, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	id, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad account id", ErrInvalidToken)
	}

	return &Identity{AccountID: id, Role: claims.Role}, nil
}

// RequireRole returns ErrForbidden unless the identity holds role.
func (s *AuthService) RequireRole(identity *Identity, role model.Role) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if identity.Role != role {
		return ErrForbidden
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
