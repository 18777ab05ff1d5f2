package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/security"
)

const resetTokenTTL = time.Hour

type authService struct {
	accounts      repository.AccountRepository
	volunteers    repository.VolunteerRepository
	organizations repository.OrganizationRepository
	tokens        security.TokenManager
	email         EmailService
	clientURL     string
	now           Clock
}

func NewAuthService(
	accounts repository.AccountRepository,
	volunteers repository.VolunteerRepository,
	organizations repository.OrganizationRepository,
	tokens security.TokenManager,
	email EmailService,
	clientURL string,
	now Clock,
) AuthService {
	if now == nil {
		now = systemClock
	}
	return &authService{
		accounts:      accounts,
		volunteers:    volunteers,
		organizations: organizations,
		tokens:        tokens,
		email:         email,
		clientURL:     strings.TrimRight(clientURL, "/"),
		now:           now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)

	var fields []domain.FieldError
	if email == "" || !strings.Contains(email, "@") {
		fields = append(fields, domain.FieldError{Field: "email", Message: "A valid email is required"})
	}
	if !in.Kind.Valid() {
		fields = append(fields, domain.FieldError{Field: "userType", Message: "User type must be 'volunteer' or 'organization'"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}
	if !security.PasswordAcceptable(in.Password) {
		return nil, domain.ErrWeakPassword
	}

	_, err := s.accounts.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internalError(ctx, "get account by email", err)
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, internalError(ctx, "hash password", err)
	}
	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Kind:         in.Kind,
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, internalError(ctx, "create account", err)
	}

	logger.InfoContext(ctx, "Account registered", "account_id", account.ID, "kind", account.Kind)
	return s.issue(ctx, account)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, notFoundOr(ctx, "get account by email", err, domain.ErrInvalidCredentials)
	}
	if !account.IsActive {
		return nil, domain.ErrAccountInactive
	}
	if !security.CheckPassword(account.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(ctx, account)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, security.TokenTypeRefresh)
	if err != nil {
		return nil, domain.ErrInvalidToken.Wrap(err)
	}
	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, notFoundOr(ctx, "get account", err, domain.ErrInvalidToken)
	}
	if !account.IsActive {
		return nil, domain.ErrAccountInactive
	}
	return s.issue(ctx, account)
}

// Logout is a no-op server side; tokens are stateless and expire on their own.
func (s *authService) Logout(ctx context.Context, caller domain.Caller) error {
	logger.InfoContext(ctx, "Account logged out", "account_id", caller.AccountID)
	return nil
}

func (s *authService) Me(ctx context.Context, caller domain.Caller) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, caller.AccountID)
	if err != nil {
		return nil, notFoundOr(ctx, "get account", err, domain.ErrAccountNotFound)
	}
	return account, nil
}

func (s *authService) DeleteAccount(ctx context.Context, caller domain.Caller) error {
	account, err := s.accounts.GetByID(ctx, caller.AccountID)
	if err != nil {
		return notFoundOr(ctx, "get account", err, domain.ErrAccountNotFound)
	}

	switch account.Kind {
	case domain.AccountKindVolunteer:
		err = s.volunteers.DeleteByAccountID(ctx, account.ID)
	case domain.AccountKindOrganization:
		err = s.organizations.DeleteByAccountID(ctx, account.ID)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return internalError(ctx, "delete profile", err)
	}

	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return notFoundOr(ctx, "delete account", err, domain.ErrAccountNotFound)
	}
	logger.InfoContext(ctx, "Account deleted", "account_id", account.ID)
	return nil
}

// ForgotPassword succeeds for unknown addresses so callers cannot probe for accounts.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.InfoContext(ctx, "Password reset requested for unknown email")
			return nil
		}
		return internalError(ctx, "get account by email", err)
	}

	token, hash, err := security.NewResetToken()
	if err != nil {
		return internalError(ctx, "generate reset token", err)
	}
	expires := s.now().Add(resetTokenTTL)
	account.ResetTokenHash = hash
	account.ResetTokenExpiresOn = &expires
	if err := s.accounts.Update(ctx, account); err != nil {
		return internalError(ctx, "store reset token", err)
	}

	link := s.clientURL + "/reset-password?token=" + token
	if err := s.email.SendPasswordReset(ctx, account.Email, link); err != nil {
		return internalError(ctx, "send reset email", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return domain.ErrInvalidResetToken
	}
	if !security.PasswordAcceptable(password) {
		return domain.ErrWeakPassword
	}

	account, err := s.accounts.GetByResetToken(ctx, security.HashResetToken(token), s.now())
	if err != nil {
		return notFoundOr(ctx, "get account by reset token", err, domain.ErrInvalidResetToken)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return internalError(ctx, "hash password", err)
	}
	account.PasswordHash = hash
	account.ResetTokenHash = ""
	account.ResetTokenExpiresOn = nil
	if err := s.accounts.Update(ctx, account); err != nil {
		return internalError(ctx, "update password", err)
	}
	logger.InfoContext(ctx, "Password reset", "account_id", account.ID)
	return nil
}

func (s *authService) issue(ctx context.Context, account *domain.Account) (*AuthResult, error) {
	return issueTokens(ctx, s.tokens, account)
}

func issueTokens(ctx context.Context, tokens security.TokenManager, account *domain.Account) (*AuthResult, error) {
	access, err := tokens.GenerateAccessToken(account)
	if err != nil {
		return nil, internalError(ctx, "sign access token", err)
	}
	refresh, err := tokens.GenerateRefreshToken(account)
	if err != nil {
		return nil, internalError(ctx, "sign refresh token", err)
	}
	return &AuthResult{Account: account, AccessToken: access, RefreshToken: refresh}, nil
}
