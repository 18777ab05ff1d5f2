package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Opportunity   *OpportunityHandler
	Signup        *SignupHandler
	Review        *ReviewHandler
	Notification  *NotificationHandler
	Authenticator *AuthMiddleware
}

// NewRouter mounts the REST API under /api and wraps it with the
// request-scoped middleware. CORS runs outside the router so preflight
// requests never reach route matching.
func NewRouter(h Handlers, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/health", health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(h.Authenticator.Handler)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", h.Auth.Refresh).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	auth.HandleFunc("/me", h.Auth.Me).Methods(http.MethodGet)
	auth.HandleFunc("/delete", h.Auth.DeleteAccount).Methods(http.MethodDelete)
	auth.HandleFunc("/forget-password", h.Auth.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", h.Auth.ResetPassword).Methods(http.MethodPost)
	auth.HandleFunc("/google", h.Auth.GoogleLogin).Methods(http.MethodGet)
	auth.HandleFunc("/google/callback", h.Auth.GoogleCallback).Methods(http.MethodGet)

	api.HandleFunc("/users/profile", h.Profile.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/users/profile/volunteer", h.Profile.UpdateVolunteer).Methods(http.MethodPut)
	api.HandleFunc("/users/profile/organization", h.Profile.UpdateOrganization).Methods(http.MethodPut)
	api.HandleFunc("/users/profile/picture", h.Profile.UploadPicture).Methods(http.MethodPost)
	api.HandleFunc("/organizations/{id}", h.Profile.GetOrganization).Methods(http.MethodGet)
	api.HandleFunc("/media/{key}", h.Profile.ServeMedia).Methods(http.MethodGet)

	// my/list before {id} so it is not captured as an id
	api.HandleFunc("/opportunities/my/list", h.Opportunity.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/opportunities", h.Opportunity.List).Methods(http.MethodGet)
	api.HandleFunc("/opportunities", h.Opportunity.Create).Methods(http.MethodPost)
	api.HandleFunc("/opportunities/{id}", h.Opportunity.Get).Methods(http.MethodGet)
	api.HandleFunc("/opportunities/{id}", h.Opportunity.Update).Methods(http.MethodPut)
	api.HandleFunc("/opportunities/{id}", h.Opportunity.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/opportunities/{id}/signups", h.Signup.Board).Methods(http.MethodGet)
	api.HandleFunc("/opportunities/{id}/signups/accept", h.Signup.Accept).Methods(http.MethodPost)
	api.HandleFunc("/opportunities/{id}/signups/accept-all", h.Signup.AcceptAll).Methods(http.MethodPost)
	api.HandleFunc("/opportunities/{id}/signups/reject", h.Signup.Reject).Methods(http.MethodPost)
	api.HandleFunc("/opportunities/{id}/attendance", h.Signup.MarkAttendance).Methods(http.MethodPost)
	api.HandleFunc("/signups", h.Signup.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/signups/my", h.Signup.ListMine).Methods(http.MethodGet)

	api.HandleFunc("/reviews", h.Review.Create).Methods(http.MethodPost)
	api.HandleFunc("/reviews/my-reviews", h.Review.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/reviews/organization/{organizationId}", h.Review.ListByOrganization).Methods(http.MethodGet)
	api.HandleFunc("/reviews/opportunity/{opportunityId}", h.Review.ListByOpportunity).Methods(http.MethodGet)
	api.HandleFunc("/reviews/{reviewId}", h.Review.Update).Methods(http.MethodPut)
	api.HandleFunc("/reviews/{reviewId}", h.Review.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", h.Notification.UnreadCount).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", h.Notification.MarkAllAsRead).Methods(http.MethodPatch)
	api.HandleFunc("/notifications/{id}/read", h.Notification.MarkAsRead).Methods(http.MethodPatch)

	return RequestID(AccessLog(Recover(CORS(allowedOrigins)(router))))
}

func health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]string{"status": "ok"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Route not found", Code: "route_not_found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: "Method not allowed", Code: "method_not_allowed"})
}
