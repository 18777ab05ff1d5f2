package service

import (
	"context"
	"io"
	"time"

	"volunteer-hub-backend/internal/domain"
)

// AuthResult is returned by every call that signs an account in.
type AuthResult struct {
	Account      *domain.Account `json:"user"`
	AccessToken  string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
}

type RegisterInput struct {
	Email    string
	Password string
	Kind     domain.AccountKind
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, caller domain.Caller) error
	Me(ctx context.Context, caller domain.Caller) (*domain.Account, error)
	DeleteAccount(ctx context.Context, caller domain.Caller) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type OAuthService interface {
	// AuthCodeURL returns the Google consent URL; kind survives the redirect in the state.
	AuthCodeURL(ctx context.Context, kind domain.AccountKind) (string, error)
	HandleCallback(ctx context.Context, state, code string) (*AuthResult, error)
}

// ProfileView is the signed-in account with whichever profile its kind carries.
type ProfileView struct {
	Account *domain.Account `json:"user"`
	Profile any             `json:"profile"`
}

type VolunteerProfileUpdate struct {
	DisplayName       *string
	AboutMe           *string
	ProfilePictureURL *string
}

type OrganizationProfileUpdate struct {
	OrganizationName *string
	Mission          *string
	LogoURL          *string
	ContactEmail     *string
	ContactPhone     *string
	Website          *string
	Address          *string
}

type ProfileService interface {
	GetProfile(ctx context.Context, caller domain.Caller) (*ProfileView, error)
	UpdateVolunteerProfile(ctx context.Context, caller domain.Caller, in VolunteerProfileUpdate) (*domain.VolunteerProfile, error)
	UpdateOrganizationProfile(ctx context.Context, caller domain.Caller, in OrganizationProfileUpdate) (*domain.OrganizationProfile, error)
	// SetPicture stores the avatar for volunteers and the logo for organizations.
	SetPicture(ctx context.Context, caller domain.Caller, url string) (*ProfileView, error)
	GetOrganization(ctx context.Context, id string) (*domain.OrganizationProfile, error)
}

type OpportunityInput struct {
	Title         string
	Description   string
	Tasks         string
	Requirements  string
	EventDate     time.Time
	StartTime     string
	EndTime       string
	DurationHours float64
	Type          domain.OpportunityType
	Cause         domain.Cause
	Location      string
	MaxVolunteers *int
}

// OpportunityPatch is a partial update; nil fields are left untouched.
type OpportunityPatch struct {
	Title         *string
	Description   *string
	Tasks         *string
	Requirements  *string
	EventDate     *time.Time
	StartTime     *string
	EndTime       *string
	DurationHours *float64
	Type          *domain.OpportunityType
	Cause         *domain.Cause
	Location      *string
	MaxVolunteers *int
	// Unlimited removes the capacity limit and wins over MaxVolunteers.
	Unlimited bool
}

type OpportunityPage struct {
	Opportunities []domain.OpportunityWithOrganization `json:"opportunities"`
	Pagination    domain.Pagination                    `json:"pagination"`
}

type OpportunityService interface {
	Create(ctx context.Context, caller domain.Caller, in OpportunityInput) (*domain.Opportunity, error)
	Get(ctx context.Context, id string) (*domain.OpportunityWithOrganization, error)
	Update(ctx context.Context, caller domain.Caller, id string, patch OpportunityPatch) (*domain.Opportunity, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
	List(ctx context.Context, filter domain.OpportunityFilter) (*OpportunityPage, error)
	ListMine(ctx context.Context, caller domain.Caller, includeInactive bool, page, limit int) (*OpportunityPage, error)
}

type SignupPage struct {
	Signups    []domain.VolunteerSignup `json:"signups"`
	Pagination domain.Pagination        `json:"pagination"`
}

type SignupService interface {
	SignUp(ctx context.Context, caller domain.Caller, opportunityID string) (*domain.Signup, error)
	AcceptOne(ctx context.Context, caller domain.Caller, opportunityID, volunteerID string) (*domain.Signup, error)
	AcceptAll(ctx context.Context, caller domain.Caller, opportunityID string) (*domain.AcceptAllResult, error)
	RejectOne(ctx context.Context, caller domain.Caller, opportunityID, volunteerID string) (*domain.Signup, error)
	MarkAttendance(ctx context.Context, caller domain.Caller, opportunityID string, marks []domain.AttendanceMark) (*domain.AttendanceResult, error)
	Board(ctx context.Context, caller domain.Caller, opportunityID string) (*domain.SignupBoard, error)
	ListMine(ctx context.Context, caller domain.Caller, status domain.SignupStatus, page, limit int) (*SignupPage, error)
}

type ReviewPage struct {
	Reviews       []domain.ReviewWithAuthor `json:"reviews"`
	AverageRating float64                   `json:"averageRating"`
	TotalReviews  int                       `json:"totalReviews"`
	Pagination    domain.Pagination         `json:"pagination"`
}

type ReviewService interface {
	Create(ctx context.Context, caller domain.Caller, opportunityID string, rating int, comment string) (*domain.Review, error)
	Update(ctx context.Context, caller domain.Caller, reviewID string, rating *int, comment *string) (*domain.Review, error)
	Delete(ctx context.Context, caller domain.Caller, reviewID string) error
	ListMine(ctx context.Context, caller domain.Caller) ([]domain.ReviewWithAuthor, error)
	ListByOrganization(ctx context.Context, organizationID string, page, limit int) (*ReviewPage, error)
	ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.ReviewWithAuthor, error)
	RecomputeOrganizationRating(ctx context.Context, organizationID string) error
}

type NotificationPage struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	Pagination    domain.Pagination     `json:"pagination"`
}

type NotificationService interface {
	List(ctx context.Context, caller domain.Caller, unreadOnly bool, page, limit int) (*NotificationPage, error)
	UnreadCount(ctx context.Context, caller domain.Caller) (int64, error)
	MarkAsRead(ctx context.Context, caller domain.Caller, id string) error
	MarkAllAsRead(ctx context.Context, caller domain.Caller) (int64, error)
}

// Notifier appends entries to an account's feed. It never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, accountID string, kind domain.NotificationType, title, message string)
}

type EmailService interface {
	SendPasswordReset(ctx context.Context, email, resetLink string) error
	SendAttendanceReminder(ctx context.Context, email, organizationName, opportunityTitle string, unmarked int) error
}

type PushService interface {
	Push(ctx context.Context, n *domain.Notification) error
}

type MediaService interface {
	// Upload stores an image and returns its public URL.
	Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}
