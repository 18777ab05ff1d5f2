package http

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"volunteer-hub-backend/internal/config"
	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/security"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags the request context logger with a request id, reusing the client's when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithContext(r.Context(), "request_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs method, path, status and duration of every request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// Recover turns a handler panic into a 500 envelope.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Handler panicked", "panic", rec, "stack", string(debug.Stack()))
				writeError(w, r, domain.ErrInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// CORS allows the configured browser origins. "*" allows any origin.
func CORS(allowedOrigins []string) mux.MiddlewareFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowed["*"] || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware enforces the security level configured for the matched route.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.SecurityAccess
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				level = config.SecurityLevelFor(r.Method, tpl)
			}
		}

		token := extractToken(r)
		if level == config.SecurityPublic {
			// optional identity on public routes
			if token != "" {
				if claims, err := m.tokenManager.ValidateToken(token, security.TokenTypeAccess); err == nil {
					r = r.WithContext(withCaller(r.Context(), claims.Caller()))
				}
			}
			next.ServeHTTP(w, r)
			return
		}

		if token == "" {
			writeError(w, r, domain.ErrUnauthorized)
			return
		}
		claims, err := m.tokenManager.ValidateToken(token, security.TokenTypeAccess)
		if err != nil {
			logger.DebugContext(r.Context(), "Rejected token", "error", err)
			writeError(w, r, domain.ErrInvalidToken)
			return
		}

		caller := claims.Caller()
		if err := checkSecurityLevel(level, caller); err != nil {
			writeError(w, r, err)
			return
		}

		ctx := logger.WithContext(r.Context(), "account_id", caller.AccountID)
		next.ServeHTTP(w, r.WithContext(withCaller(ctx, caller)))
	})
}

func extractToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return strings.TrimSpace(token)
}

func checkSecurityLevel(level config.SecurityLevel, caller domain.Caller) error {
	switch level {
	case config.SecurityVolunteer:
		if !caller.IsVolunteer() {
			return domain.ErrWrongAccountKind.WithMessage("Only volunteers can perform this action")
		}
	case config.SecurityOrganization:
		if !caller.IsOrganization() {
			return domain.ErrWrongAccountKind.WithMessage("Only organizations can perform this action")
		}
	}
	return nil
}
