package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/security"
	"volunteer-hub-backend/internal/service"
)

// MockAccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.Account, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) LinkGoogleID(ctx context.Context, id, googleID string) error {
	args := m.Called(ctx, id, googleID)
	return args.Error(0)
}
func (m *MockAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAccountRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVolunteerRepo
type MockVolunteerRepo struct {
	mock.Mock
}

func (m *MockVolunteerRepo) Create(ctx context.Context, p *domain.VolunteerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockVolunteerRepo) GetByID(ctx context.Context, id string) (*domain.VolunteerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VolunteerProfile), args.Error(1)
}
func (m *MockVolunteerRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.VolunteerProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VolunteerProfile), args.Error(1)
}
func (m *MockVolunteerRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.VolunteerProfile, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.VolunteerProfile), args.Error(1)
}
func (m *MockVolunteerRepo) Update(ctx context.Context, p *domain.VolunteerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockVolunteerRepo) AddHours(ctx context.Context, id string, hours float64) (*domain.VolunteerProfile, error) {
	args := m.Called(ctx, id, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VolunteerProfile), args.Error(1)
}
func (m *MockVolunteerRepo) DeleteByAccountID(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) Create(ctx context.Context, p *domain.OrganizationProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.OrganizationProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrganizationProfile), args.Error(1)
}
func (m *MockOrganizationRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.OrganizationProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrganizationProfile), args.Error(1)
}
func (m *MockOrganizationRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.OrganizationProfile, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.OrganizationProfile), args.Error(1)
}
func (m *MockOrganizationRepo) Update(ctx context.Context, p *domain.OrganizationProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockOrganizationRepo) UpdateRating(ctx context.Context, id string, average float64, total int) error {
	args := m.Called(ctx, id, average, total)
	return args.Error(0)
}
func (m *MockOrganizationRepo) DeleteByAccountID(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockOpportunityRepo
type MockOpportunityRepo struct {
	mock.Mock
}

func (m *MockOpportunityRepo) Create(ctx context.Context, opp *domain.Opportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}
func (m *MockOpportunityRepo) GetByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opportunity), args.Error(1)
}
func (m *MockOpportunityRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Opportunity, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Opportunity), args.Error(1)
}
func (m *MockOpportunityRepo) Update(ctx context.Context, opp *domain.Opportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}
func (m *MockOpportunityRepo) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}
func (m *MockOpportunityRepo) List(ctx context.Context, filter domain.OpportunityFilter) ([]domain.Opportunity, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Opportunity), args.Get(1).(int64), args.Error(2)
}
func (m *MockOpportunityRepo) ListEndedBetween(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Opportunity), args.Error(1)
}

// MockSignupRepo
type MockSignupRepo struct {
	mock.Mock
}

func (m *MockSignupRepo) Create(ctx context.Context, s *domain.Signup) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSignupRepo) GetByID(ctx context.Context, id string) (*domain.Signup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signup), args.Error(1)
}
func (m *MockSignupRepo) FindOne(ctx context.Context, volunteerID, opportunityID string, statuses ...domain.SignupStatus) (*domain.Signup, error) {
	args := m.Called(ctx, volunteerID, opportunityID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signup), args.Error(1)
}
func (m *MockSignupRepo) CountByOpportunity(ctx context.Context, opportunityID string, statuses ...domain.SignupStatus) (int, error) {
	args := m.Called(ctx, opportunityID, statuses)
	return args.Int(0), args.Error(1)
}
func (m *MockSignupRepo) ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.Signup, error) {
	args := m.Called(ctx, opportunityID)
	return args.Get(0).([]domain.Signup), args.Error(1)
}
func (m *MockSignupRepo) ListByVolunteer(ctx context.Context, volunteerID string, status domain.SignupStatus, limit, offset int) ([]domain.Signup, int64, error) {
	args := m.Called(ctx, volunteerID, status, limit, offset)
	return args.Get(0).([]domain.Signup), args.Get(1).(int64), args.Error(2)
}
func (m *MockSignupRepo) Transition(ctx context.Context, id string, from domain.SignupStatus, patch domain.SignupTransition) (*domain.Signup, error) {
	args := m.Called(ctx, id, from, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signup), args.Error(1)
}
func (m *MockSignupRepo) TransitionByPair(ctx context.Context, opportunityID, volunteerID string, from domain.SignupStatus, patch domain.SignupTransition) (*domain.Signup, error) {
	args := m.Called(ctx, opportunityID, volunteerID, from, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signup), args.Error(1)
}
func (m *MockSignupRepo) TransitionAll(ctx context.Context, opportunityID string, from domain.SignupStatus, patch domain.SignupTransition) ([]domain.Signup, error) {
	args := m.Called(ctx, opportunityID, from, patch)
	return args.Get(0).([]domain.Signup), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, accountID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, accountID, unreadOnly, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}
func (m *MockNotificationRepo) CountUnread(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, accountID string) error {
	args := m.Called(ctx, id, accountID)
	return args.Error(0)
}
func (m *MockNotificationRepo) MarkAllAsRead(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepo) GetByVolunteerAndOpportunity(ctx context.Context, volunteerID, opportunityID string) (*domain.Review, error) {
	args := m.Called(ctx, volunteerID, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepo) Update(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReviewRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockReviewRepo) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Review, int64, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	return args.Get(0).([]domain.Review), args.Get(1).(int64), args.Error(2)
}
func (m *MockReviewRepo) ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.Review, error) {
	args := m.Called(ctx, opportunityID)
	return args.Get(0).([]domain.Review), args.Error(1)
}
func (m *MockReviewRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Review, error) {
	args := m.Called(ctx, volunteerID)
	return args.Get(0).([]domain.Review), args.Error(1)
}
func (m *MockReviewRepo) RatingsByOrganization(ctx context.Context, organizationID string) ([]int, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).([]int), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, accountID string, kind domain.NotificationType, title, message string) {
	m.Called(ctx, accountID, kind, title, message)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	args := m.Called(ctx, email, resetLink)
	return args.Error(0)
}
func (m *MockEmailService) SendAttendanceReminder(ctx context.Context, email, organizationName, opportunityTitle string, unmarked int) error {
	args := m.Called(ctx, email, organizationName, opportunityTitle, unmarked)
	return args.Error(0)
}

// MockPushService
type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) Push(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(account *domain.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) GenerateRefreshToken(account *domain.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) GenerateOAuthState(kind domain.AccountKind) (string, error) {
	args := m.Called(kind)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(tokenString string, expected security.TokenType) (*security.AccountClaims, error) {
	args := m.Called(tokenString, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.AccountClaims), args.Error(1)
}

// MockGoogleProvider
type MockGoogleProvider struct {
	mock.Mock
}

func (m *MockGoogleProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}
func (m *MockGoogleProvider) Exchange(ctx context.Context, code string) (*service.GoogleIdentity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GoogleIdentity), args.Error(1)
}
