package services

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/rs/zerolog"
)

// ListNotificationsService lists the caller's delivered notifications, newest first.
func (svc *Service) ListNotificationsService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := svc.DB.ListNotifications(r.Context(), c.ID, unreadOnly)
	if err != nil {
		fail(w, r, err, "Failed to retrieve notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	WriteResponse(w, http.StatusOK, notifications)
}

// MarkReadService marks one of the caller's notifications read.
func (svc *Service) MarkReadService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "notification-id")
	if !ok {
		return
	}

	changed, err := svc.DB.MarkRead(r.Context(), c.ID, id, svc.now())
	if err != nil {
		fail(w, r, err, "Failed to mark notification read")
		return
	}
	if !changed {
		// Either already read or not the caller's.
		n, err := svc.DB.GetNotification(r.Context(), id)
		if err != nil {
			fail(w, r, err, "Failed to retrieve notification")
			return
		}
		if n == nil || n.UserID != c.ID {
			notFound(w, r, "notification")
			return
		}
	}

	WriteResponse(w, http.StatusNoContent, nil)
}

type markAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// MarkAllReadService marks every delivered notification of the caller read.
func (svc *Service) MarkAllReadService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	n, err := svc.DB.MarkAllRead(r.Context(), c.ID, svc.now())
	if err != nil {
		fail(w, r, err, "Failed to mark notifications read")
		return
	}

	logger.Debug().Int64("updated", n).Msg("Notifications marked read")
	WriteResponse(w, http.StatusOK, markAllReadResponse{Updated: n})
}
