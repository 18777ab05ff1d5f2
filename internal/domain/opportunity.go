package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type OpportunityType string

const (
	OpportunityTypeOnSite OpportunityType = "on-site"
	OpportunityTypeRemote OpportunityType = "remote"
)

func (t OpportunityType) Valid() bool {
	return t == OpportunityTypeOnSite || t == OpportunityTypeRemote
}

type Cause string

const (
	CauseAnimals        Cause = "Animals"
	CauseEducation      Cause = "Education"
	CauseEnvironment    Cause = "Environment"
	CauseHealth         Cause = "Health"
	CauseCommunity      Cause = "Community"
	CauseArtsAndCulture Cause = "Arts & Culture"
	CauseSocialServices Cause = "Social Services"
	CauseOther          Cause = "Other"
)

var Causes = []Cause{
	CauseAnimals,
	CauseEducation,
	CauseEnvironment,
	CauseHealth,
	CauseCommunity,
	CauseArtsAndCulture,
	CauseSocialServices,
	CauseOther,
}

func (c Cause) Valid() bool {
	for _, known := range Causes {
		if c == known {
			return true
		}
	}
	return false
}

type Opportunity struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organizationId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Tasks          string          `json:"tasks"`
	Requirements   string          `json:"requirements"`
	EventDate      time.Time       `json:"eventDate"`
	StartTime      string          `json:"startTime"`
	EndTime        string          `json:"endTime"`
	DurationHours  float64         `json:"durationHours"`
	Type           OpportunityType `json:"opportunityType"`
	Cause          Cause           `json:"cause"`
	Location       string          `json:"location"`
	MaxVolunteers  *int            `json:"maxVolunteers"`
	IsActive       bool            `json:"isActive"`
	CreatedOn      time.Time       `json:"createdAt"`
	UpdatedOn      time.Time       `json:"updatedAt"`
}

// OpenAt reports whether signups are still accepted at the given instant.
func (o *Opportunity) OpenAt(now time.Time) bool {
	return o.IsActive && o.EventDate.After(now)
}

// HasPassed reports whether the event date is behind the given instant.
func (o *Opportunity) HasPassed(now time.Time) bool {
	return !o.EventDate.After(now)
}

// RemainingCapacity returns nil when the opportunity is unbounded.
func (o *Opportunity) RemainingCapacity(confirmed int) *int {
	if o.MaxVolunteers == nil {
		return nil
	}
	remaining := *o.MaxVolunteers - confirmed
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// Validate checks the field rules that hold for every stored opportunity.
func (o *Opportunity) Validate() []FieldError {
	var errs []FieldError
	if l := utf8.RuneCountInString(strings.TrimSpace(o.Title)); l < 3 || l > 200 {
		errs = append(errs, FieldError{Field: "title", Message: "Title must be between 3 and 200 characters"})
	}
	if l := utf8.RuneCountInString(strings.TrimSpace(o.Description)); l < 10 || l > 2000 {
		errs = append(errs, FieldError{Field: "description", Message: "Description must be between 10 and 2000 characters"})
	}
	if utf8.RuneCountInString(o.Tasks) > 1000 {
		errs = append(errs, FieldError{Field: "tasks", Message: "Tasks must be at most 1000 characters"})
	}
	if utf8.RuneCountInString(o.Requirements) > 1000 {
		errs = append(errs, FieldError{Field: "requirements", Message: "Requirements must be at most 1000 characters"})
	}
	if o.DurationHours < 0 {
		errs = append(errs, FieldError{Field: "durationHours", Message: "Duration must not be negative"})
	}
	if !o.Type.Valid() {
		errs = append(errs, FieldError{Field: "opportunityType", Message: "Opportunity type must be 'on-site' or 'remote'"})
	}
	if !o.Cause.Valid() {
		errs = append(errs, FieldError{Field: "cause", Message: "Unknown cause"})
	}
	if o.Type == OpportunityTypeOnSite && strings.TrimSpace(o.Location) == "" {
		errs = append(errs, FieldError{Field: "location", Message: "Location is required for on-site opportunities"})
	}
	if o.MaxVolunteers != nil && *o.MaxVolunteers < 1 {
		errs = append(errs, FieldError{Field: "maxVolunteers", Message: "Maximum volunteers must be at least 1"})
	}
	return errs
}

// OpportunityWithOrganization is an opportunity joined with its author's summary.
type OpportunityWithOrganization struct {
	Opportunity
	Organization *OrganizationSummary `json:"organization,omitempty"`
}

type OpportunitySort string

const (
	OpportunitySortEventDate     OpportunitySort = "eventDate"
	OpportunitySortCreatedAt     OpportunitySort = "createdAt"
	OpportunitySortDurationHours OpportunitySort = "durationHours"
	OpportunitySortTitle         OpportunitySort = "title"
)

func (s OpportunitySort) Valid() bool {
	switch s {
	case OpportunitySortEventDate, OpportunitySortCreatedAt, OpportunitySortDurationHours, OpportunitySortTitle:
		return true
	}
	return false
}

// OpportunityFilter drives catalog listing. Zero values mean "no constraint".
type OpportunityFilter struct {
	OrganizationID  string
	IncludeInactive bool
	Search          string
	Cause           Cause
	Type            OpportunityType
	StartDate       *time.Time
	EndDate         *time.Time
	MinHours        *float64
	MaxHours        *float64
	SortBy          OpportunitySort
	Descending      bool
	Page            int
	Limit           int
}

func (f OpportunityFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
