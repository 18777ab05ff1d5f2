package domain

import (
	"encoding/json"
	"time"
)

const MaxAboutMeLength = 500

type VolunteerProfile struct {
	ID                string    `json:"id"`
	AccountID         string    `json:"userId"`
	DisplayName       string    `json:"displayName"`
	AboutMe           string    `json:"aboutMe"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	TotalHours        float64   `json:"totalHours"`
	Completed         int       `json:"completed"`
	CreatedOn         time.Time `json:"createdAt"`
	UpdatedOn         time.Time `json:"updatedAt"`
}

// Level is derived from the accrued hours and never stored.
func (p *VolunteerProfile) Level() int {
	return LevelForHours(p.TotalHours)
}

func (p VolunteerProfile) MarshalJSON() ([]byte, error) {
	type alias VolunteerProfile
	return json.Marshal(struct {
		alias
		Level int `json:"level"`
	}{alias: alias(p), Level: p.Level()})
}

type OrganizationProfile struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"userId"`
	OrganizationName string    `json:"organizationName"`
	Mission          string    `json:"mission"`
	LogoURL          string    `json:"logoUrl"`
	ContactEmail     string    `json:"contactEmail"`
	ContactPhone     string    `json:"contactPhone"`
	Website          string    `json:"website"`
	Address          string    `json:"address"`
	AverageRating    float64   `json:"averageRating"`
	TotalReviews     int       `json:"totalReviews"`
	CreatedOn        time.Time `json:"createdAt"`
	UpdatedOn        time.Time `json:"updatedAt"`
}

// OrganizationSummary is the slice of an organization shown next to its opportunities.
type OrganizationSummary struct {
	ID               string  `json:"id"`
	OrganizationName string  `json:"organizationName"`
	LogoURL          string  `json:"logoUrl"`
	AverageRating    float64 `json:"averageRating"`
}

func (o *OrganizationProfile) Summary() *OrganizationSummary {
	return &OrganizationSummary{
		ID:               o.ID,
		OrganizationName: o.OrganizationName,
		LogoURL:          o.LogoURL,
		AverageRating:    o.AverageRating,
	}
}
