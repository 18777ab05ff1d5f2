package config

type SecurityLevel int

const (
	SecurityPublic       SecurityLevel = iota // No authentication
	SecurityAccess                            // Any signed-in account
	SecurityVolunteer                         // Signed-in volunteer account
	SecurityOrganization                      // Signed-in organization account
)

// EndpointSecurityConfig maps "METHOD path-template" to the required security level.
// Routes missing from the map default to SecurityAccess.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health
	"GET /health": SecurityPublic,

	// Auth - Public
	"POST /api/auth/register":        SecurityPublic,
	"POST /api/auth/login":           SecurityPublic,
	"POST /api/auth/refresh":         SecurityPublic,
	"POST /api/auth/forget-password": SecurityPublic,
	"POST /api/auth/reset-password":  SecurityPublic,
	"GET /api/auth/google":           SecurityPublic,
	"GET /api/auth/google/callback":  SecurityPublic,

	// Auth - Access Protected
	"POST /api/auth/logout":   SecurityAccess,
	"GET /api/auth/me":        SecurityAccess,
	"DELETE /api/auth/delete": SecurityAccess,

	// Profiles
	"GET /api/users/profile":              SecurityAccess,
	"PUT /api/users/profile/volunteer":    SecurityVolunteer,
	"PUT /api/users/profile/organization": SecurityOrganization,
	"POST /api/users/profile/picture":     SecurityAccess,
	"GET /api/organizations/{id}":         SecurityPublic,
	"GET /api/media/{key}":                SecurityPublic,

	// Opportunities - Public catalog
	"GET /api/opportunities":      SecurityPublic,
	"GET /api/opportunities/{id}": SecurityPublic,

	// Opportunities - Organization owned
	"GET /api/opportunities/my/list":                  SecurityOrganization,
	"POST /api/opportunities":                         SecurityOrganization,
	"PUT /api/opportunities/{id}":                     SecurityOrganization,
	"DELETE /api/opportunities/{id}":                  SecurityOrganization,
	"GET /api/opportunities/{id}/signups":             SecurityOrganization,
	"POST /api/opportunities/{id}/signups/accept":     SecurityOrganization,
	"POST /api/opportunities/{id}/signups/accept-all": SecurityOrganization,
	"POST /api/opportunities/{id}/signups/reject":     SecurityOrganization,
	"POST /api/opportunities/{id}/attendance":         SecurityOrganization,

	// Signups - Volunteer
	"POST /api/signups":   SecurityVolunteer,
	"GET /api/signups/my": SecurityVolunteer,

	// Reviews
	"POST /api/reviews":                              SecurityVolunteer,
	"GET /api/reviews/my-reviews":                    SecurityVolunteer,
	"PUT /api/reviews/{reviewId}":                    SecurityVolunteer,
	"DELETE /api/reviews/{reviewId}":                 SecurityVolunteer,
	"GET /api/reviews/organization/{organizationId}": SecurityPublic,
	"GET /api/reviews/opportunity/{opportunityId}":   SecurityPublic,

	// Notifications - Access Protected
	"GET /api/notifications":              SecurityAccess,
	"GET /api/notifications/unread-count": SecurityAccess,
	"PATCH /api/notifications/{id}/read":  SecurityAccess,
	"PATCH /api/notifications/read-all":   SecurityAccess,
}

// SecurityLevelFor returns the configured level for a route, defaulting to SecurityAccess.
func SecurityLevelFor(method, pathTemplate string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+pathTemplate]; ok {
		return level
	}
	return SecurityAccess
}
