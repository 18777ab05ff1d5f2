package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/service"
)

type createReviewRequest struct {
	OpportunityID string `json:"opportunityId" validate:"required"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ReviewHandler struct {
	reviewSvc service.ReviewService
}

func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	review, err := h.reviewSvc.Create(r.Context(), caller, req.OpportunityID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Review submitted successfully", map[string]any{"review": review})
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	review, err := h.reviewSvc.Update(r.Context(), caller, mux.Vars(r)["reviewId"], req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Review updated successfully", map[string]any{"review": review})
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.reviewSvc.Delete(r.Context(), caller, mux.Vars(r)["reviewId"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Review deleted successfully")
}

func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	reviews, err := h.reviewSvc.ListMine(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"reviews": reviews})
}

func (h *ReviewHandler) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	page, err := h.reviewSvc.ListByOrganization(r.Context(), mux.Vars(r)["organizationId"],
		queryInt(r, "page", 1),
		queryInt(r, "limit", domain.DefaultPageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, page)
}

func (h *ReviewHandler) ListByOpportunity(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewSvc.ListByOpportunity(r.Context(), mux.Vars(r)["opportunityId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"reviews": reviews})
}
