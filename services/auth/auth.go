package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "chalethaven/database/repository/user"
	"chalethaven/models"
	"chalethaven/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("invalid or expired token")
	ErrNotConfigured      = errors.New("authentication is not configured")
)

// TokenRevoker remembers logged-out tokens until they would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Service struct {
	users   userRepo.UserRepository
	revoker TokenRevoker
	secret  string
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(users userRepo.UserRepository, revoker TokenRevoker, secret string, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{users: users, revoker: revoker, secret: secret, ttl: ttl, logger: logger, now: time.Now}
}

// Login checks the password and issues a bearer token carrying the role.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if s.secret == "" {
		return nil, ErrNotConfigured
	}
	login := strings.TrimSpace(req.Login())
	if login == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.secret, user.ID.Hex(), user.Email, user.Role, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	s.logger.Info("user signed in", zap.String("userID", user.ID.Hex()), zap.String("role", user.Role))
	return &models.LoginResponse{Success: true, Token: token, User: user.Public()}, nil
}

// Verify resolves a bearer token to its current account.
func (s *Service) Verify(ctx context.Context, token string) (*models.PublicUser, *utils.Claims, error) {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}
	pub := user.Public()
	return &pub, claims, nil
}

// Authenticate validates the token signature, expiry and revocation without a
// database round trip.
func (s *Service) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	if s.secret == "" {
		return nil, ErrNotConfigured
	}
	claims, err := utils.ValidateToken(s.secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, token)
		if err != nil {
			// Fail open when the deny-list is unreachable.
			s.logger.Warn("revocation check failed", zap.Error(err))
		} else if revoked {
			return nil, ErrUnauthorized
		}
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if s.revoker == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoker.Revoke(ctx, token, ttl)
}

// HashPassword is used when provisioning console accounts.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}
