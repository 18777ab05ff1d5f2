package domain

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

type Review struct {
	ID             string    `json:"id"`
	VolunteerID    string    `json:"volunteerId"`
	OpportunityID  string    `json:"opportunityId"`
	OrganizationID string    `json:"organizationId"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	CreatedOn      time.Time `json:"createdAt"`
	UpdatedOn      time.Time `json:"updatedAt"`
}

func ValidateReview(rating int, comment string) []FieldError {
	var errs []FieldError
	if rating < 1 || rating > 5 {
		errs = append(errs, FieldError{Field: "rating", Message: "Rating must be between 1 and 5"})
	}
	if l := utf8.RuneCountInString(strings.TrimSpace(comment)); l < 10 || l > 500 {
		errs = append(errs, FieldError{Field: "comment", Message: "Comment must be between 10 and 500 characters"})
	}
	return errs
}

// AverageRating is the arithmetic mean rounded to one decimal place, 0 when empty.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*10) / 10
}

// ReviewWithAuthor joins a review with the reviewing volunteer and the reviewed opportunity.
type ReviewWithAuthor struct {
	Review
	Volunteer   *VolunteerSummary `json:"volunteer,omitempty"`
	Opportunity *OpportunityBrief `json:"opportunity,omitempty"`
}

type OpportunityBrief struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	EventDate time.Time `json:"eventDate"`
}

func (o *Opportunity) Brief() *OpportunityBrief {
	return &OpportunityBrief{ID: o.ID, Title: o.Title, EventDate: o.EventDate}
}
