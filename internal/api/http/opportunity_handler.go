package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/service"
)

// date accepts either a calendar date or an RFC 3339 timestamp.
type date struct {
	time.Time
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type opportunityRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	Tasks         string  `json:"tasks"`
	Requirements  string  `json:"requirements"`
	EventDate     *date   `json:"eventDate" validate:"required"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	DurationHours float64 `json:"durationHours" validate:"gte=0"`
	Type          string  `json:"opportunityType"`
	Cause         string  `json:"cause"`
	Location      string  `json:"location"`
	MaxVolunteers *int    `json:"maxVolunteers"`
}

type opportunityPatchRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Tasks         *string  `json:"tasks"`
	Requirements  *string  `json:"requirements"`
	EventDate     *date    `json:"eventDate"`
	StartTime     *string  `json:"startTime"`
	EndTime       *string  `json:"endTime"`
	DurationHours *float64 `json:"durationHours" validate:"omitempty,gte=0"`
	Type          *string  `json:"opportunityType"`
	Cause         *string  `json:"cause"`
	Location      *string  `json:"location"`
	// absent leaves capacity alone, null or "" removes the limit
	MaxVolunteers json.RawMessage `json:"maxVolunteers"`
}

func (p *opportunityPatchRequest) toPatch() (service.OpportunityPatch, error) {
	patch := service.OpportunityPatch{
		Title:         p.Title,
		Description:   p.Description,
		Tasks:         p.Tasks,
		Requirements:  p.Requirements,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		DurationHours: p.DurationHours,
		Location:      p.Location,
	}
	if p.EventDate != nil {
		patch.EventDate = &p.EventDate.Time
	}
	if p.Type != nil {
		t := domain.OpportunityType(*p.Type)
		patch.Type = &t
	}
	if p.Cause != nil {
		c := domain.Cause(*p.Cause)
		patch.Cause = &c
	}

	raw := bytes.TrimSpace(p.MaxVolunteers)
	switch {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte(`""`)):
		patch.Unlimited = true
	default:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return patch, domain.NewValidationError([]domain.FieldError{{Field: "maxVolunteers", Message: "Maximum volunteers must be a whole number"}})
		}
		patch.MaxVolunteers = &n
	}
	return patch, nil
}

type OpportunityHandler struct {
	oppSvc service.OpportunityService
}

func NewOpportunityHandler(oppSvc service.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{oppSvc: oppSvc}
}

func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req opportunityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	opp, err := h.oppSvc.Create(r.Context(), caller, service.OpportunityInput{
		Title:         req.Title,
		Description:   req.Description,
		Tasks:         req.Tasks,
		Requirements:  req.Requirements,
		EventDate:     req.EventDate.Time,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DurationHours: req.DurationHours,
		Type:          domain.OpportunityType(req.Type),
		Cause:         domain.Cause(req.Cause),
		Location:      req.Location,
		MaxVolunteers: req.MaxVolunteers,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Opportunity created successfully", map[string]any{"opportunity": opp})
}

func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	opp, err := h.oppSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"opportunity": opp})
}

func (h *OpportunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req opportunityPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(w, r, err)
		return
	}
	opp, err := h.oppSvc.Update(r.Context(), caller, mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Opportunity updated successfully", map[string]any{"opportunity": opp})
}

func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.oppSvc.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Opportunity deleted successfully")
}

func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOpportunityFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.oppSvc.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, page)
}

func (h *OpportunityHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.oppSvc.ListMine(r.Context(), caller,
		queryBool(r, "includeInactive"),
		queryInt(r, "page", 1),
		queryInt(r, "limit", domain.DefaultPageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, page)
}

func parseOpportunityFilter(r *http.Request) (domain.OpportunityFilter, error) {
	q := r.URL.Query()
	f := domain.OpportunityFilter{
		Search:     strings.TrimSpace(q.Get("search")),
		Cause:      domain.Cause(q.Get("cause")),
		Type:       domain.OpportunityType(q.Get("opportunityType")),
		SortBy:     domain.OpportunitySort(q.Get("sortBy")),
		Descending: strings.EqualFold(q.Get("order"), "desc"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", domain.DefaultPageSize),
	}

	var fields []domain.FieldError
	if v := q.Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			fields = append(fields, domain.FieldError{Field: "startDate", Message: "Start date must be a valid date"})
		} else {
			f.StartDate = &t
		}
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			fields = append(fields, domain.FieldError{Field: "endDate", Message: "End date must be a valid date"})
		} else {
			f.EndDate = &t
		}
	}
	for key, dst := range map[string]**float64{"minHours": &f.MinHours, "maxHours": &f.MaxHours} {
		if v := q.Get(key); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				fields = append(fields, domain.FieldError{Field: key, Message: key + " must be a number"})
				continue
			}
			*dst = &n
		}
	}
	if len(fields) > 0 {
		return f, domain.NewValidationError(fields)
	}
	return f, nil
}
