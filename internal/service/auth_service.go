package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"blog-api/internal/auth"
	"blog-api/internal/domain"
	"blog-api/internal/mail"
	"blog-api/internal/repository"
)

// verifyPath is the route a verification link points at; the token is appended.
const verifyPath = "/api/user/auth/verify/"

// AuthService describes the account lifecycle: signup, email verification,
// signin and admin provisioning.
type AuthService interface {
	// Signup creates an unverified user and mails a verification link rooted at baseURL.
	Signup(ctx context.Context, in SignupInput, baseURL string) (*domain.User, error)
	Verify(ctx context.Context, token string) (*domain.User, error)
	SigninUser(ctx context.Context, in SigninInput) (string, error)
	SigninAdmin(ctx context.Context, in SigninInput) (string, error)
	CreateAdmin(ctx context.Context, caller *domain.User, in CreateAdminInput) (*domain.User, error)
	// SeedAdmin provisions an admin without a caller; deployment bootstrap only.
	SeedAdmin(ctx context.Context, in CreateAdminInput) (*domain.User, error)
}

type AuthOption func(*authService)

// WithVerificationTokens replaces the verification token generator.
func WithVerificationTokens(generate func() (string, error)) AuthOption {
	return func(s *authService) {
		s.newVerificationToken = generate
	}
}

type authService struct {
	users                repository.UserRepository
	hasher               *auth.PasswordHasher
	tokens               *auth.TokenIssuer
	mailer               mail.Mailer
	logger               *logrus.Logger
	newVerificationToken func() (string, error)
}

func NewAuthService(
	users repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenIssuer,
	mailer mail.Mailer,
	logger *logrus.Logger,
	opts ...AuthOption,
) AuthService {
	s := &authService{
		users:                users,
		hasher:               hasher,
		tokens:               tokens,
		mailer:               mailer,
		logger:               logger,
		newVerificationToken: auth.GenerateVerificationToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) Signup(ctx context.Context, in SignupInput, baseURL string) (*domain.User, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	verificationToken, err := s.newVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	user := &domain.User{
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              domain.RoleUser,
		IsVerified:        false,
		VerificationToken: verificationToken,
		Name:              in.Name,
		FirstName:         in.FirstName,
		Country:           in.Country,
	}
	if err := s.create(ctx, user); err != nil {
		return nil, err
	}

	link := strings.TrimRight(baseURL, "/") + verifyPath + verificationToken
	err = s.mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Email Verification",
		Text:    "Please verify your email by clicking on the following link: " + link,
	})
	if err != nil {
		// undo the insert; nobody holds the token for this account
		if delErr := s.users.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
			s.logger.WithField("user_id", user.ID).Errorf("failed to remove user after mail failure: %v", delErr)
		}
		return nil, fmt.Errorf("send verification email: %w", err)
	}

	s.logger.Infof("User signed up successfully: %s", user.Email)
	return user.Sanitized(), nil
}

func (s *authService) Verify(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("consume verification token: %w", err)
	}

	s.logger.Infof("Email verified for user %s", user.ID)
	return user.Sanitized(), nil
}

func (s *authService) SigninUser(ctx context.Context, in SigninInput) (string, error) {
	return s.signin(ctx, in, true)
}

func (s *authService) SigninAdmin(ctx context.Context, in SigninInput) (string, error) {
	return s.signin(ctx, in, false)
}

func (s *authService) signin(ctx context.Context, in SigninInput, requireVerified bool) (string, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warnf("Failed sign-in attempt: Invalid email %s", email)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if requireVerified && !user.IsVerified {
		s.logger.Warnf("Failed sign-in attempt: Unverified email %s", email)
		return "", ErrEmailNotVerified
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.logger.Warnf("Failed sign-in attempt: Invalid password for email %s", email)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return "", err
	}

	s.logger.WithField("role", user.Role).Infof("User signed in successfully: %s with email %s", user.ID, user.Email)
	return token, nil
}

func (s *authService) CreateAdmin(ctx context.Context, caller *domain.User, in CreateAdminInput) (*domain.User, error) {
	if err := auth.Authorize(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	admin, err := s.createAdmin(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("created_by", caller.ID).Infof("Admin created successfully: %s with email %s", admin.ID, admin.Email)
	return admin, nil
}

func (s *authService) SeedAdmin(ctx context.Context, in CreateAdminInput) (*domain.User, error) {
	admin, err := s.createAdmin(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Admin user created successfully: %s", admin.Email)
	return admin, nil
}

func (s *authService) createAdmin(ctx context.Context, in CreateAdminInput) (*domain.User, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	admin := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsVerified:   true,
		Name:         in.LastName,
		FirstName:    in.FirstName,
		Country:      in.Country,
	}
	if err := s.create(ctx, admin); err != nil {
		return nil, err
	}
	return admin.Sanitized(), nil
}

// ensureEmailFree is a fast path only; the store's unique constraint is authoritative.
func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.Warnf("Attempted to create account with existing email: %s", email)
		return ErrDuplicateEmail
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("lookup user: %w", err)
	}
}

func (s *authService) create(ctx context.Context, user *domain.User) error {
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.logger.Warnf("Attempted to create account with existing email: %s", user.Email)
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
