package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/security"
	"volunteer-hub-backend/internal/service"
)

// Mocks embed their service interface so a test only stubs what it exercises.

type MockAuthService struct {
	service.AuthService
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, caller domain.Caller) (*domain.Account, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockOAuthService struct {
	service.OAuthService
	mock.Mock
}

func (m *MockOAuthService) AuthCodeURL(ctx context.Context, kind domain.AccountKind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthService) HandleCallback(ctx context.Context, state, code string) (*service.AuthResult, error) {
	args := m.Called(ctx, state, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

type MockOpportunityService struct {
	service.OpportunityService
	mock.Mock
}

func (m *MockOpportunityService) Update(ctx context.Context, caller domain.Caller, id string, patch service.OpportunityPatch) (*domain.Opportunity, error) {
	args := m.Called(ctx, caller, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opportunity), args.Error(1)
}

func (m *MockOpportunityService) List(ctx context.Context, filter domain.OpportunityFilter) (*service.OpportunityPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OpportunityPage), args.Error(1)
}

func (m *MockOpportunityService) ListMine(ctx context.Context, caller domain.Caller, includeInactive bool, page, limit int) (*service.OpportunityPage, error) {
	args := m.Called(ctx, caller, includeInactive, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OpportunityPage), args.Error(1)
}

type MockSignupService struct {
	service.SignupService
	mock.Mock
}

func (m *MockSignupService) SignUp(ctx context.Context, caller domain.Caller, opportunityID string) (*domain.Signup, error) {
	args := m.Called(ctx, caller, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signup), args.Error(1)
}

func (m *MockSignupService) AcceptOne(ctx context.Context, caller domain.Caller, opportunityID, volunteerID string) (*domain.Signup, error) {
	args := m.Called(ctx, caller, opportunityID, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signup), args.Error(1)
}

func (m *MockSignupService) MarkAttendance(ctx context.Context, caller domain.Caller, opportunityID string, marks []domain.AttendanceMark) (*domain.AttendanceResult, error) {
	args := m.Called(ctx, caller, opportunityID, marks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttendanceResult), args.Error(1)
}

type MockReviewService struct {
	service.ReviewService
	mock.Mock
}

type MockNotificationService struct {
	service.NotificationService
	mock.Mock
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, caller domain.Caller) (int64, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(int64), args.Error(1)
}

type MockProfileService struct {
	service.ProfileService
	mock.Mock
}

type MockMediaService struct {
	service.MediaService
	mock.Mock
}

func (m *MockMediaService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

type testServer struct {
	handler       http.Handler
	tokens        security.TokenManager
	auth          *MockAuthService
	oauth         *MockOAuthService
	opportunities *MockOpportunityService
	signups       *MockSignupService
	reviews       *MockReviewService
	notifications *MockNotificationService
	profiles      *MockProfileService
	media         *MockMediaService
}

func newTestServer() *testServer {
	ts := &testServer{
		tokens:        security.NewTokenManager(strings.Repeat("s", 32), time.Hour, 24*time.Hour),
		auth:          new(MockAuthService),
		oauth:         new(MockOAuthService),
		opportunities: new(MockOpportunityService),
		signups:       new(MockSignupService),
		reviews:       new(MockReviewService),
		notifications: new(MockNotificationService),
		profiles:      new(MockProfileService),
		media:         new(MockMediaService),
	}
	ts.handler = NewRouter(Handlers{
		Auth:          NewAuthHandler(ts.auth, ts.oauth, "http://localhost:3000/"),
		Profile:       NewProfileHandler(ts.profiles, ts.media, 5<<20),
		Opportunity:   NewOpportunityHandler(ts.opportunities),
		Signup:        NewSignupHandler(ts.signups),
		Review:        NewReviewHandler(ts.reviews),
		Notification:  NewNotificationHandler(ts.notifications),
		Authenticator: NewAuthMiddleware(ts.tokens),
	}, []string{"http://localhost:3000"})
	return ts
}

func (ts *testServer) token(t *testing.T, id string, kind domain.AccountKind) string {
	t.Helper()
	tok, err := ts.tokens.GenerateAccessToken(&domain.Account{ID: id, Email: id + "@example.com", Kind: kind})
	require.NoError(t, err)
	return tok
}

var (
	volunteer    = domain.Caller{AccountID: "acc-v", Kind: domain.AccountKindVolunteer}
	organization = domain.Caller{AccountID: "acc-o", Kind: domain.AccountKindOrganization}
)
