package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary List tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param priority query string false "Priority"
// @Param channel query string false "Channel"
// @Success 200 {array} models.Ticket
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /tickets [get]
func ListTickets(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListTicketsService(w, r)
	}
}

// @Summary Create a ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.Ticket true "Ticket"
// @Success 201 {object} models.Ticket
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /tickets [post]
func CreateTicket(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateTicketService(w, r)
	}
}

// @Summary Get a ticket
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param ticket-id path string true "Ticket ID"
// @Success 200 {object} models.Ticket
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /tickets/{ticket-id} [get]
func GetTicket(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetTicketService(w, r)
	}
}

// @Summary Update a ticket
// @Description Status changes must follow the ticket workflow. Only managers and admins may reassign.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ticket-id path string true "Ticket ID"
// @Param body body models.Ticket true "Ticket"
// @Success 200 {object} models.Ticket
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 409 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /tickets/{ticket-id} [put]
func UpdateTicket(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateTicketService(w, r)
	}
}

// @Summary Inbound ticket webhook
// @Description Create a ticket from an external channel. Authenticated by the X-Webhook-Secret header instead of a bearer token.
// @Tags tickets webhook
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string true "Shared secret"
// @Param body body models.InboundTicket true "Inbound ticket"
// @Success 201 {object} models.Ticket
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Failure 503 {object} models.Response
// @Router /tickets/inbound [post]
func InboundTicket(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.InboundTicketService(w, r)
	}
}
