package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/service"
)

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	rec := do(ts.handler, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer()

	t.Run("Missing Token", func(t *testing.T) {
		rec := do(ts.handler, http.MethodGet, "/api/notifications/unread-count", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", decodeEnvelope(t, rec)["code"])
	})

	t.Run("Garbage Token", func(t *testing.T) {
		rec := do(ts.handler, http.MethodGet, "/api/notifications/unread-count", "not-a-jwt", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_token", decodeEnvelope(t, rec)["code"])
	})

	t.Run("Refresh Token Rejected", func(t *testing.T) {
		refresh, err := ts.tokens.GenerateRefreshToken(&domain.Account{ID: "acc-v", Kind: domain.AccountKindVolunteer})
		require.NoError(t, err)
		rec := do(ts.handler, http.MethodGet, "/api/notifications/unread-count", refresh, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Any Kind On Access Route", func(t *testing.T) {
		ts.notifications.On("UnreadCount", mock.Anything, volunteer).Return(int64(4), nil)
		rec := do(ts.handler, http.MethodGet, "/api/notifications/unread-count", ts.token(t, "acc-v", domain.AccountKindVolunteer), "")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(4), data["unreadCount"])
	})

	t.Run("Wrong Kind", func(t *testing.T) {
		rec := do(ts.handler, http.MethodPost, "/api/signups", ts.token(t, "acc-o", domain.AccountKindOrganization), `{"opportunityId":"opp-1"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "wrong_account_kind", decodeEnvelope(t, rec)["code"])
		ts.signups.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Public Route", func(t *testing.T) {
		ts.opportunities.On("List", mock.Anything, mock.Anything).Return(&service.OpportunityPage{}, nil).Once()
		rec := do(ts.handler, http.MethodGet, "/api/opportunities", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrOpportunityFull, http.StatusConflict, "opportunity_full"},
		{domain.ErrNotOpportunityOwner, http.StatusForbidden, "not_opportunity_owner"},
		{domain.ErrPendingSignupNotFound, http.StatusNotFound, "pending_signup_not_found"},
		{domain.ErrEmptyAttendance, http.StatusBadRequest, "empty_attendance"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{errors.New("driver exploded"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestNotFoundRoute(t *testing.T) {
	ts := newTestServer()
	rec := do(ts.handler, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
