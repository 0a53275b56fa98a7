package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary List leads
// @Description List leads. Agents only see leads assigned to them.
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pipeline status"
// @Param temperature query string false "Temperature" Enums(hot, warm, cold)
// @Param assigned_to query string false "Assignee ID (managers and admins)"
// @Param search query string false "Matches title, contact name and email"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Lead
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /leads [get]
func ListLeads(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListLeadsService(w, r)
	}
}

// @Summary Create a lead
// @Description Create a lead and compute its initial score and temperature.
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.Lead true "Lead"
// @Success 201 {object} models.Lead
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /leads [post]
func CreateLead(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateLeadService(w, r)
	}
}

// @Summary Get a lead
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param lead-id path string true "Lead ID"
// @Success 200 {object} models.Lead
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /leads/{lead-id} [get]
func GetLead(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetLeadService(w, r)
	}
}

// @Summary Update a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lead-id path string true "Lead ID"
// @Param body body models.Lead true "Lead"
// @Success 200 {object} models.Lead
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /leads/{lead-id} [put]
func UpdateLead(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateLeadService(w, r)
	}
}

// @Summary Delete a lead
// @Description Delete a lead with its follow-ups and meetings.
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param lead-id path string true "Lead ID"
// @Success 204
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /leads/{lead-id} [delete]
func DeleteLead(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteLeadService(w, r)
	}
}

// @Summary Change lead status
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lead-id path string true "Lead ID"
// @Param body body models.LeadStatusUpdate true "New status"
// @Success 200 {object} models.Lead
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /leads/{lead-id}/status [patch]
func UpdateLeadStatus(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateLeadStatusService(w, r)
	}
}

// @Summary Rescore a lead
// @Description Recompute the lead's score and temperature.
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param lead-id path string true "Lead ID"
// @Success 200 {object} models.Lead
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /leads/{lead-id}/score [post]
func ScoreLead(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ScoreLeadService(w, r)
	}
}

// @Summary Call a lead
// @Description Ask the voice backend to place a call to the lead.
// @Tags leads calls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lead-id path string true "Lead ID"
// @Param body body models.CallRequest false "Call script"
// @Success 202 {object} models.CallResponse
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 422 {object} models.Response
// @Failure 502 {object} models.Response
// @Failure 503 {object} models.Response
// @Router /leads/{lead-id}/call [post]
func StartCall(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.StartCallService(w, r)
	}
}
