package domain

import "time"

type SignupStatus string

const (
	SignupPending   SignupStatus = "pending"
	SignupConfirmed SignupStatus = "confirmed"
	SignupRejected  SignupStatus = "rejected"
	SignupNoShow    SignupStatus = "no-show"
	SignupAttended  SignupStatus = "attended"
	// SignupCancelled is reserved; nothing transitions into it yet.
	SignupCancelled SignupStatus = "cancelled"
)

func (s SignupStatus) Valid() bool {
	switch s {
	case SignupPending, SignupConfirmed, SignupRejected, SignupNoShow, SignupAttended, SignupCancelled:
		return true
	}
	return false
}

// ActiveSignupStatuses count against an opportunity's capacity.
var ActiveSignupStatuses = []SignupStatus{SignupPending, SignupConfirmed}

// NonCancelledSignupStatuses block a second signup for the same pair.
var NonCancelledSignupStatuses = []SignupStatus{SignupPending, SignupConfirmed, SignupRejected, SignupNoShow, SignupAttended}

type Signup struct {
	ID            string       `json:"id"`
	VolunteerID   string       `json:"volunteerId"`
	OpportunityID string       `json:"opportunityId"`
	Status        SignupStatus `json:"status"`
	SignedUpAt    time.Time    `json:"signedUpAt"`
	ConfirmedAt   *time.Time   `json:"confirmedAt,omitempty"`
	RejectedAt    *time.Time   `json:"rejectedAt,omitempty"`
	Attended      *bool        `json:"attended,omitempty"`
	HoursAwarded  float64      `json:"hoursAwarded"`
	CreatedOn     time.Time    `json:"createdAt"`
	UpdatedOn     time.Time    `json:"updatedAt"`
}

// SignupTransition is the patch applied alongside a status change.
// Nil fields are left untouched. ClearAttended resets attended to unset.
type SignupTransition struct {
	Status        SignupStatus
	ConfirmedAt   *time.Time
	RejectedAt    *time.Time
	Attended      *bool
	ClearAttended bool
	HoursAwarded  *float64
}

func ConfirmTransition(now time.Time) SignupTransition {
	return SignupTransition{Status: SignupConfirmed, ConfirmedAt: &now}
}

func RejectTransition(now time.Time) SignupTransition {
	return SignupTransition{Status: SignupRejected, RejectedAt: &now}
}

func AttendedTransition(now time.Time, hours float64) SignupTransition {
	attended := true
	return SignupTransition{Status: SignupAttended, ConfirmedAt: &now, Attended: &attended, HoursAwarded: &hours}
}

func NoShowTransition() SignupTransition {
	attended := false
	zero := 0.0
	return SignupTransition{Status: SignupNoShow, Attended: &attended, HoursAwarded: &zero}
}

// RevertAttendedTransition undoes AttendedTransition when hours could not be
// credited, restoring the confirmation time the signup had before.
func RevertAttendedTransition(confirmedAt *time.Time) SignupTransition {
	zero := 0.0
	return SignupTransition{Status: SignupConfirmed, ConfirmedAt: confirmedAt, ClearAttended: true, HoursAwarded: &zero}
}

// Apply returns a copy of s with the transition applied.
func (t SignupTransition) Apply(s Signup) Signup {
	s.Status = t.Status
	if t.ConfirmedAt != nil {
		s.ConfirmedAt = t.ConfirmedAt
	}
	if t.RejectedAt != nil {
		s.RejectedAt = t.RejectedAt
	}
	if t.Attended != nil {
		s.Attended = t.Attended
	}
	if t.ClearAttended {
		s.Attended = nil
	}
	if t.HoursAwarded != nil {
		s.HoursAwarded = *t.HoursAwarded
	}
	return s
}

// AttendanceMark is one entry of a bulk attendance request.
type AttendanceMark struct {
	SignupID string `json:"signupId"`
	Attended bool   `json:"attended"`
}

type AttendanceResult struct {
	Confirmed int      `json:"confirmed"`
	NoShows   int      `json:"noShows"`
	Errors    []string `json:"errors,omitempty"`
}

type AcceptAllResult struct {
	ModifiedCount int `json:"modifiedCount"`
}

// BoardEntry is a signup as an organization sees it.
type BoardEntry struct {
	Signup
	Volunteer *VolunteerSummary `json:"volunteer,omitempty"`
}

type VolunteerSummary struct {
	ID                string  `json:"id"`
	DisplayName       string  `json:"displayName"`
	Email             string  `json:"email"`
	ProfilePictureURL string  `json:"profilePictureUrl,omitempty"`
	TotalHours        float64 `json:"totalHours"`
	Level             int     `json:"level"`
}

type SignupBoard struct {
	Pending        []BoardEntry `json:"pending"`
	Accepted       []BoardEntry `json:"accepted"`
	Declined       []BoardEntry `json:"declined"`
	PendingCount   int          `json:"pendingCount"`
	ConfirmedCount int          `json:"confirmedCount"`
	Remaining      *int         `json:"remaining"`
}

// VolunteerSignup is a signup as its volunteer sees it.
type VolunteerSignup struct {
	Signup
	Opportunity *OpportunityWithOrganization `json:"opportunity,omitempty"`
}
