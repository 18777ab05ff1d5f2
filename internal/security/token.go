package security

import (
	"errors"
	"time"

	"volunteer-hub-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess     TokenType = "access"
	TokenTypeRefresh    TokenType = "refresh"
	TokenTypeOAuthState TokenType = "oauth_state"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
	oauthStateTTL     = 10 * time.Minute
	issuer            = "volunteer-hub"
)

// AccountClaims are the claims carried by every token this service issues.
type AccountClaims struct {
	AccountID string             `json:"account_id,omitempty"`
	Email     string             `json:"email,omitempty"`
	Kind      domain.AccountKind `json:"user_type,omitempty"`
	Type      TokenType          `json:"type"`
	jwt.RegisteredClaims
}

// Caller converts verified claims into the identity services act upon.
func (c *AccountClaims) Caller() domain.Caller {
	return domain.Caller{AccountID: c.AccountID, Kind: c.Kind}
}

type TokenManager interface {
	GenerateAccessToken(account *domain.Account) (string, error)
	GenerateRefreshToken(account *domain.Account) (string, error)
	// GenerateOAuthState signs the account kind chosen before the Google redirect.
	GenerateOAuthState(kind domain.AccountKind) (string, error)
	ValidateToken(tokenString string, expected TokenType) (*AccountClaims, error)
}

type tokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) TokenManager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &tokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *tokenManager) sign(claims AccountClaims, ttl time.Duration, audience string) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.AccountID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) GenerateAccessToken(account *domain.Account) (string, error) {
	return m.sign(AccountClaims{
		AccountID: account.ID,
		Email:     account.Email,
		Kind:      account.Kind,
		Type:      TokenTypeAccess,
	}, m.accessTTL, "api-access")
}

func (m *tokenManager) GenerateRefreshToken(account *domain.Account) (string, error) {
	return m.sign(AccountClaims{
		AccountID: account.ID,
		Kind:      account.Kind,
		Type:      TokenTypeRefresh,
	}, m.refreshTTL, "token-refresh")
}

func (m *tokenManager) GenerateOAuthState(kind domain.AccountKind) (string, error) {
	return m.sign(AccountClaims{Kind: kind, Type: TokenTypeOAuthState}, oauthStateTTL, "oauth-state")
}

func (m *tokenManager) ValidateToken(tokenString string, expected TokenType) (*AccountClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccountClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccountClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}
	if claims.AccountID == "" && claims.Subject != "" {
		claims.AccountID = claims.Subject
	}
	return claims, nil
}
