package domain

import (
	"strings"
	"time"
)

type AccountKind string

const (
	AccountKindVolunteer    AccountKind = "volunteer"
	AccountKindOrganization AccountKind = "organization"
)

func (k AccountKind) Valid() bool {
	return k == AccountKindVolunteer || k == AccountKindOrganization
}

// Account is the identity record. A local account carries a password hash,
// a federated one a Google id; linking may give an account both.
type Account struct {
	ID                  string      `json:"id"`
	Email               string      `json:"email"`
	PasswordHash        string      `json:"-"`
	GoogleID            string      `json:"-"`
	Kind                AccountKind `json:"userType"`
	IsActive            bool        `json:"isActive"`
	ResetTokenHash      string      `json:"-"`
	ResetTokenExpiresOn *time.Time  `json:"-"`
	CreatedOn           time.Time   `json:"createdAt"`
	UpdatedOn           time.Time   `json:"updatedAt"`
}

func (a *Account) HasCredential() bool {
	return a.PasswordHash != "" || a.GoogleID != ""
}

// NormalizeEmail lowercases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Caller is the verified identity a service call acts on behalf of.
type Caller struct {
	AccountID string
	Kind      AccountKind
}

func (c Caller) IsVolunteer() bool    { return c.Kind == AccountKindVolunteer }
func (c Caller) IsOrganization() bool { return c.Kind == AccountKindOrganization }
