package http

import (
	"net/http"
	"net/url"
	"strings"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/service"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType" validate:"required,oneof=volunteer organization"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type AuthHandler struct {
	authSvc   service.AuthService
	oauthSvc  service.OAuthService
	clientURL string
}

// NewAuthHandler builds the auth routes. oauthSvc may be nil when Google sign-in is not configured.
func NewAuthHandler(authSvc service.AuthService, oauthSvc service.OAuthService, clientURL string) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, oauthSvc: oauthSvc, clientURL: strings.TrimRight(clientURL, "/")}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Kind:     domain.AccountKind(req.UserType),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Registration successful", res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authSvc.Logout(r.Context(), caller); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	account, err := h.authSvc.Me(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"user": account})
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authSvc.DeleteAccount(r.Context(), caller); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Account deleted successfully")
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authSvc.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "If an account exists for this email, a reset link has been sent")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authSvc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Password has been reset")
}

// GoogleLogin redirects the browser to the Google consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauthSvc == nil {
		writeError(w, r, domain.ErrOAuthFailed.WithMessage("Google sign-in is not enabled"))
		return
	}
	target, err := h.oauthSvc.AuthCodeURL(r.Context(), domain.AccountKind(r.URL.Query().Get("userType")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// GoogleCallback finishes sign-in and hands the tokens to the web client.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthSvc == nil {
		http.Redirect(w, r, h.clientURL+"/login?error=auth_failed", http.StatusFound)
		return
	}
	q := r.URL.Query()
	res, err := h.oauthSvc.HandleCallback(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		logger.WarnContext(r.Context(), "Google callback failed", "error", err)
		http.Redirect(w, r, h.clientURL+"/login?error=auth_failed", http.StatusFound)
		return
	}

	params := url.Values{}
	params.Set("token", res.AccessToken)
	params.Set("refreshToken", res.RefreshToken)
	params.Set("userType", string(res.Account.Kind))
	http.Redirect(w, r, h.clientURL+"/auth/callback?"+params.Encode(), http.StatusFound)
}
