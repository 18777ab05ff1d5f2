package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"volunteer-hub-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.noteSvc.List(r.Context(), caller, queryBool(r, "unread"), queryInt(r, "page", 1), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, page)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.noteSvc.UnreadCount(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]int64{"unreadCount": n})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.noteSvc.MarkAllAsRead(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "All notifications marked as read", map[string]int64{"modifiedCount": n})
}
