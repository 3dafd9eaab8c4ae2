package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"blog-api/internal/domain"
	"blog-api/internal/repository"
)

var (
	// ErrAccessDenied means no bearer token was presented.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidToken means the token failed verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound means the token subject no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized means the identity lacks the required role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoIdentity is a wiring bug: a role check ran before authentication.
	ErrNoIdentity = errors.New("role check without authenticated identity")
)

// UserLookup resolves the live user record behind a token subject.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Gate authenticates bearer tokens against the credential store.
type Gate struct {
	tokens *TokenIssuer
	users  UserLookup
	logger *logrus.Logger
}

func NewGate(tokens *TokenIssuer, users UserLookup, logger *logrus.Logger) *Gate {
	if logger == nil {
		logger = logrus.New()
	}
	return &Gate{tokens: tokens, users: users, logger: logger}
}

// Authenticate verifies the bearer token in authorizationHeader and returns
// the current user record for its subject, stripped of credentials.
func (g *Gate) Authenticate(ctx context.Context, authorizationHeader string) (*domain.User, error) {
	token := BearerToken(authorizationHeader)
	if token == "" {
		g.logger.Warn("access denied: no token provided")
		return nil, ErrAccessDenied
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, ErrTokenExpired) {
			reason = "expired"
		}
		g.logger.WithField("reason", reason).Errorf("invalid token: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	user, err := g.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			g.logger.Warnf("user not found with id: %s", claims.Subject)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", claims.Subject, err)
	}

	g.logger.WithField("user_id", user.ID).Infof("user %s authenticated successfully", user.Email)
	return user.Sanitized(), nil
}

// Authorize checks the authenticated user's current role against required.
func Authorize(user *domain.User, required domain.Role) error {
	if user == nil {
		return ErrNoIdentity
	}
	if user.Role != required {
		return ErrUnauthorized
	}
	return nil
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>" header.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
