package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/accessdesk/user-portal/internal/core/access"
	"github.com/accessdesk/user-portal/internal/core/domain"
	"github.com/accessdesk/user-portal/internal/core/ports"
)

// LoginThrottle bounds repeated login failures per principal. A nil
// throttle disables the limit.
type LoginThrottle interface {
	// Allow reports whether another attempt for email is permitted.
	Allow(ctx context.Context, email string) (bool, error)
	// RecordFailure counts a failed attempt for email.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, email string) error
}

// AuthService implements login, registration and session-token issuance on
// top of the resolver/codec seam.
type AuthService struct {
	resolver  ports.PrincipalResolver
	codec     ports.Codec
	directory ports.Directory
	router    *access.PostAuthRouter
	throttle  LoginThrottle
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	resolver ports.PrincipalResolver,
	codec ports.Codec,
	directory ports.Directory,
	router *access.PostAuthRouter,
	throttle LoginThrottle,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		resolver:  resolver,
		codec:     codec,
		directory: directory,
		router:    router,
		throttle:  throttle,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Login verifies the supplied credentials and returns a signed session
// token, the authenticated view, and the post-login destination. An
// unknown email and a wrong password are indistinguishable to the caller:
// both surface as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.AccountView, string, error) {
	if email == "" || password == "" {
		return "", domain.AccountView{}, "", domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, email)
		if err != nil {
			return "", domain.AccountView{}, "", fmt.Errorf("login throttle: %w", err)
		}
		if !ok {
			return "", domain.AccountView{}, "", domain.ErrTooManyAttempts
		}
	}

	view, err := s.resolver.LoadPrincipal(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			s.recordFailure(ctx, email)
			return "", domain.AccountView{}, "", domain.ErrInvalidCredentials
		}
		return "", domain.AccountView{}, "", err
	}

	if !view.Enabled || !s.codec.Verify(password, view.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", domain.AccountView{}, "", domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
		}
	}

	token, err := s.issueToken(view)
	if err != nil {
		return "", domain.AccountView{}, "", fmt.Errorf("issue session token: %w", err)
	}

	destination := s.router.RouteAfterLogin(view.Roles)
	return token, view, destination, nil
}

// Register creates a standard-role account from self-service signup. The
// raw password is always hashed before it reaches the directory.
func (s *AuthService) Register(ctx context.Context, firstName, lastName string, age int, email, password string) (*domain.Account, error) {
	if !domain.ValidEmail(email) || password == "" {
		return nil, domain.ErrInvalidInput
	}

	role, err := s.directory.FindRoleByName(ctx, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("lookup default role: %w", err)
	}
	if role == nil {
		return nil, fmt.Errorf("lookup default role: %w", domain.ErrRoleNotFound)
	}

	hashed, err := s.codec.Hash(password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		FirstName:    firstName,
		LastName:     lastName,
		Age:          age,
		Email:        email,
		PasswordHash: hashed,
		Roles:        []domain.Role{*role},
	}

	created, err := s.directory.Save(ctx, account)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("email", email).Msg("registered account")
	return created, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
	}
}

// SessionClaims is the JWT payload carried by the session token.
type SessionClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(view domain.AccountView) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		Roles: view.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   view.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseSessionToken validates a session token and returns its claims.
// Only HS256 signatures are accepted.
func ParseSessionToken(secret, tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
