package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/security"
)

// GoogleIdentity is the subset of the Google userinfo the service relies on.
type GoogleIdentity struct {
	ID            string
	Email         string
	VerifiedEmail bool
	Name          string
}

type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleIdentity, error)
}

type googleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) GoogleProvider {
	return &googleProvider{config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
		Endpoint:     google.Endpoint,
	}}
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	logger.ExternalServiceCall("google", "Exchange")
	token, err := p.config.Exchange(ctx, code)
	logger.ExternalServiceResult("google", "Exchange", err)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(p.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}

	logger.ExternalServiceCall("google", "Userinfo.Get")
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	logger.ExternalServiceResult("google", "Userinfo.Get", err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	identity := &GoogleIdentity{ID: info.Id, Email: info.Email, Name: info.Name}
	if info.VerifiedEmail != nil {
		identity.VerifiedEmail = *info.VerifiedEmail
	}
	return identity, nil
}

type oauthService struct {
	provider GoogleProvider
	accounts repository.AccountRepository
	tokens   security.TokenManager
}

func NewOAuthService(provider GoogleProvider, accounts repository.AccountRepository, tokens security.TokenManager) OAuthService {
	return &oauthService{provider: provider, accounts: accounts, tokens: tokens}
}

func (s *oauthService) AuthCodeURL(ctx context.Context, kind domain.AccountKind) (string, error) {
	if kind == "" {
		kind = domain.AccountKindVolunteer
	}
	if !kind.Valid() {
		return "", domain.NewValidationError([]domain.FieldError{{Field: "userType", Message: "User type must be 'volunteer' or 'organization'"}})
	}
	state, err := s.tokens.GenerateOAuthState(kind)
	if err != nil {
		return "", internalError(ctx, "sign oauth state", err)
	}
	return s.provider.AuthCodeURL(state), nil
}

// HandleCallback signs in the account linked to the Google identity. An
// existing account with the same email is linked; otherwise a new one is
// created with the kind chosen before the redirect.
func (s *oauthService) HandleCallback(ctx context.Context, state, code string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateToken(state, security.TokenTypeOAuthState)
	if err != nil {
		return nil, domain.ErrOAuthFailed.Wrap(err)
	}
	if code == "" {
		return nil, domain.ErrOAuthFailed
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		logger.WarnContext(ctx, "Google code exchange failed", "error", err)
		return nil, domain.ErrOAuthFailed.Wrap(err)
	}
	email := domain.NormalizeEmail(identity.Email)
	if identity.ID == "" || email == "" {
		return nil, domain.ErrOAuthFailed
	}

	account, err := s.accounts.GetByGoogleID(ctx, identity.ID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		account, err = s.linkOrCreate(ctx, identity.ID, email, claims.Kind)
		if err != nil {
			return nil, err
		}
	default:
		return nil, internalError(ctx, "get account by google id", err)
	}

	if !account.IsActive {
		return nil, domain.ErrAccountInactive
	}
	return issueTokens(ctx, s.tokens, account)
}

func (s *oauthService) linkOrCreate(ctx context.Context, googleID, email string, kind domain.AccountKind) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		if err := s.accounts.LinkGoogleID(ctx, account.ID, googleID); err != nil {
			return nil, internalError(ctx, "link google id", err)
		}
		account.GoogleID = googleID
		logger.InfoContext(ctx, "Google identity linked", "account_id", account.ID)
		return account, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError(ctx, "get account by email", err)
	}

	if !kind.Valid() {
		kind = domain.AccountKindVolunteer
	}
	account = &domain.Account{Email: email, GoogleID: googleID, Kind: kind, IsActive: true}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, internalError(ctx, "create account", err)
	}
	logger.InfoContext(ctx, "Account created from Google sign-in", "account_id", account.ID, "kind", kind)
	return account, nil
}
