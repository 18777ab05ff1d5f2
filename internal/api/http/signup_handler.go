package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/service"
)

type signupRequest struct {
	OpportunityID string `json:"opportunityId" validate:"required"`
}

type volunteerRequest struct {
	VolunteerID string `json:"volunteerId" validate:"required"`
}

type attendanceRequest struct {
	Attendance []attendanceItem `json:"attendance" validate:"dive"`
}

type attendanceItem struct {
	SignupID string `json:"signupId" validate:"required"`
	Attended *bool  `json:"attended" validate:"required"`
}

type SignupHandler struct {
	signupSvc service.SignupService
}

func NewSignupHandler(signupSvc service.SignupService) *SignupHandler {
	return &SignupHandler{signupSvc: signupSvc}
}

func (h *SignupHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	signup, err := h.signupSvc.SignUp(r.Context(), caller, req.OpportunityID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Successfully signed up for opportunity", map[string]any{"signup": signup})
}

func (h *SignupHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.signupSvc.ListMine(r.Context(), caller,
		domain.SignupStatus(r.URL.Query().Get("status")),
		queryInt(r, "page", 1),
		queryInt(r, "limit", domain.DefaultPageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, page)
}

func (h *SignupHandler) Board(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	board, err := h.signupSvc.Board(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, board)
}

func (h *SignupHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.signupSvc.AcceptOne, "Volunteer accepted")
}

func (h *SignupHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.signupSvc.RejectOne, "Volunteer rejected")
}

type decision func(ctx context.Context, caller domain.Caller, opportunityID, volunteerID string) (*domain.Signup, error)

func (h *SignupHandler) decide(w http.ResponseWriter, r *http.Request, fn decision, message string) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req volunteerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	signup, err := fn(r.Context(), caller, mux.Vars(r)["id"], req.VolunteerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, message, map[string]any{"signup": signup})
}

func (h *SignupHandler) AcceptAll(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.signupSvc.AcceptAll(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Pending volunteers accepted", res)
}

func (h *SignupHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req attendanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	marks := make([]domain.AttendanceMark, len(req.Attendance))
	for i, item := range req.Attendance {
		marks[i] = domain.AttendanceMark{SignupID: item.SignupID, Attended: *item.Attended}
	}
	res, err := h.signupSvc.MarkAttendance(r.Context(), caller, mux.Vars(r)["id"], marks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Attendance recorded", res)
}
