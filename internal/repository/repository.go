package repository

import (
	"context"
	"errors"
	"time"

	"volunteer-hub-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup or conditional update matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.Account, error)
	LinkGoogleID(ctx context.Context, id, googleID string) error
	Update(ctx context.Context, account *domain.Account) error
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

type VolunteerRepository interface {
	Create(ctx context.Context, profile *domain.VolunteerProfile) error
	GetByID(ctx context.Context, id string) (*domain.VolunteerProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*domain.VolunteerProfile, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.VolunteerProfile, error)
	Update(ctx context.Context, profile *domain.VolunteerProfile) error
	// AddHours atomically increments total hours and the completed counter,
	// returning the profile as it is after the increment.
	AddHours(ctx context.Context, id string, hours float64) (*domain.VolunteerProfile, error)
	DeleteByAccountID(ctx context.Context, accountID string) error
}

type OrganizationRepository interface {
	Create(ctx context.Context, profile *domain.OrganizationProfile) error
	GetByID(ctx context.Context, id string) (*domain.OrganizationProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*domain.OrganizationProfile, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.OrganizationProfile, error)
	Update(ctx context.Context, profile *domain.OrganizationProfile) error
	UpdateRating(ctx context.Context, id string, average float64, total int) error
	DeleteByAccountID(ctx context.Context, accountID string) error
}

type OpportunityRepository interface {
	Create(ctx context.Context, opp *domain.Opportunity) error
	GetByID(ctx context.Context, id string) (*domain.Opportunity, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Opportunity, error)
	Update(ctx context.Context, opp *domain.Opportunity) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, filter domain.OpportunityFilter) ([]domain.Opportunity, int64, error)
	// ListEndedBetween returns active opportunities whose event date falls in [from, to).
	ListEndedBetween(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error)
}

type SignupRepository interface {
	Create(ctx context.Context, signup *domain.Signup) error
	GetByID(ctx context.Context, id string) (*domain.Signup, error)
	FindOne(ctx context.Context, volunteerID, opportunityID string, statuses ...domain.SignupStatus) (*domain.Signup, error)
	CountByOpportunity(ctx context.Context, opportunityID string, statuses ...domain.SignupStatus) (int, error)
	ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.Signup, error)
	ListByVolunteer(ctx context.Context, volunteerID string, status domain.SignupStatus, limit, offset int) ([]domain.Signup, int64, error)
	// Transition applies patch to the signup only if it is currently in from.
	Transition(ctx context.Context, id string, from domain.SignupStatus, patch domain.SignupTransition) (*domain.Signup, error)
	TransitionByPair(ctx context.Context, opportunityID, volunteerID string, from domain.SignupStatus, patch domain.SignupTransition) (*domain.Signup, error)
	// TransitionAll applies patch to every signup of the opportunity in from.
	TransitionAll(ctx context.Context, opportunityID string, from domain.SignupStatus, patch domain.SignupTransition) ([]domain.Signup, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, accountID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error)
	CountUnread(ctx context.Context, accountID string) (int64, error)
	MarkAsRead(ctx context.Context, id, accountID string) error
	MarkAllAsRead(ctx context.Context, accountID string) (int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	GetByVolunteerAndOpportunity(ctx context.Context, volunteerID, opportunityID string) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
	ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Review, int64, error)
	ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.Review, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Review, error)
	RatingsByOrganization(ctx context.Context, organizationID string) ([]int, error)
}

// Store bundles every repository a backend provides.
type Store interface {
	Accounts() AccountRepository
	Volunteers() VolunteerRepository
	Organizations() OrganizationRepository
	Opportunities() OpportunityRepository
	Signups() SignupRepository
	Notifications() NotificationRepository
	Reviews() ReviewRepository
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}
