package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary List follow-ups
// @Tags follow-ups
// @Produce json
// @Security BearerAuth
// @Param lead_id query string false "Lead ID"
// @Param status query string false "Status"
// @Param due_before query string false "RFC 3339 time or YYYY-MM-DD"
// @Success 200 {array} models.FollowUp
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /follow-ups [get]
func ListFollowUps(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListFollowUpsService(w, r)
	}
}

// @Summary Create a follow-up
// @Description Schedule a follow-up on a lead. A reminder is sent reminderMinutes before it is due.
// @Tags follow-ups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.FollowUp true "Follow-up"
// @Success 201 {object} models.FollowUp
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /follow-ups [post]
func CreateFollowUp(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateFollowUpService(w, r)
	}
}

// @Summary Update a follow-up
// @Tags follow-ups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param follow-up-id path string true "Follow-up ID"
// @Param body body models.FollowUp true "Follow-up"
// @Success 200 {object} models.FollowUp
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /follow-ups/{follow-up-id} [put]
func UpdateFollowUp(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateFollowUpService(w, r)
	}
}

// @Summary Complete a follow-up
// @Tags follow-ups
// @Produce json
// @Security BearerAuth
// @Param follow-up-id path string true "Follow-up ID"
// @Success 200 {object} models.FollowUp
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /follow-ups/{follow-up-id}/complete [post]
func CompleteFollowUp(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CompleteFollowUpService(w, r)
	}
}

// @Summary Delete a follow-up
// @Tags follow-ups
// @Produce json
// @Security BearerAuth
// @Param follow-up-id path string true "Follow-up ID"
// @Success 204
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /follow-ups/{follow-up-id} [delete]
func DeleteFollowUp(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteFollowUpService(w, r)
	}
}

// @Summary List meetings
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param from query string false "RFC 3339 time or YYYY-MM-DD"
// @Param to query string false "RFC 3339 time or YYYY-MM-DD"
// @Success 200 {array} models.Meeting
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /meetings [get]
func ListMeetings(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListMeetingsService(w, r)
	}
}

// @Summary Create a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.Meeting true "Meeting"
// @Success 201 {object} models.Meeting
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /meetings [post]
func CreateMeeting(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateMeetingService(w, r)
	}
}

// @Summary Update a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meeting-id path string true "Meeting ID"
// @Param body body models.Meeting true "Meeting"
// @Success 200 {object} models.Meeting
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /meetings/{meeting-id} [put]
func UpdateMeeting(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateMeetingService(w, r)
	}
}

// @Summary Delete a meeting
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param meeting-id path string true "Meeting ID"
// @Success 204
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /meetings/{meeting-id} [delete]
func DeleteMeeting(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteMeetingService(w, r)
	}
}
