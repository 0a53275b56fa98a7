package services

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/cache"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

const maxWebhookBody = 1 << 20

var inboundTicketSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(models.InboundTicketSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid inbound ticket schema: %v", err))
	}
	return schema
}()

// ticketAlert notifies a newly assigned agent immediately.
func ticketAlert(svc *Service, t models.Ticket) *models.Notification {
	return &models.Notification{
		UserID:       *t.AssignedTo,
		EntityType:   models.EntityTicket,
		Title:        "Ticket assigned: " + t.Subject,
		Message:      fmt.Sprintf("A %s priority ticket from %s was assigned to you", t.Priority, t.Channel),
		ScheduledFor: svc.now(),
	}
}

// ListTicketsService lists tickets. Agents see tickets assigned to them.
func (svc *Service) ListTicketsService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.TicketFilter{
		AssignedTo: c.scope(),
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		Channel:    q.Get("channel"),
	}
	if err := filter.Validate(); err != nil {
		fail(w, r, err, "Invalid ticket filter")
		return
	}

	key := cache.Key(db.TableTickets, scopeKey(filter.AssignedTo), q.Encode())
	tickets, err := cachedList(r.Context(), svc, db.TableTickets, key, func() ([]models.Ticket, error) {
		return svc.DB.ListTickets(r.Context(), filter)
	})
	if err != nil {
		fail(w, r, err, "Failed to retrieve tickets")
		return
	}

	WriteResponse(w, http.StatusOK, tickets)
}

// CreateTicketService opens a ticket. Agents' tickets are assigned to themselves.
func (svc *Service) CreateTicketService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.Ticket
	if !decode(w, r, &payload) {
		return
	}
	if !c.privileged() || payload.AssignedTo == nil {
		id := c.ID
		payload.AssignedTo = &id
	}
	if payload.Status == "" {
		payload.Status = models.TicketOpen
	}
	if payload.Priority == "" {
		payload.Priority = models.PriorityMedium
	}
	if payload.Channel == "" {
		payload.Channel = models.ChannelWeb
	}
	payload.ResolvedAt = nil
	if payload.Status == models.TicketResolved {
		now := svc.now()
		payload.ResolvedAt = &now
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid ticket")
		return
	}

	var alert *models.Notification
	if *payload.AssignedTo != c.ID {
		alert = ticketAlert(svc, payload)
	}

	ticket, err := svc.DB.CreateTicket(r.Context(), payload, alert)
	if err != nil {
		fail(w, r, err, "Failed to create ticket in database")
		return
	}
	svc.invalidate(r.Context(), db.TableTickets, db.TableNotifications)

	logger.Info().Str("ticket_id", ticket.ID.String()).Msg("Ticket created successfully")
	WriteResponse(w, http.StatusCreated, ticket, fmt.Sprintf("%s/%s", r.URL.Path, ticket.ID))
}

func (svc *Service) loadTicket(w http.ResponseWriter, r *http.Request, c caller) (*models.Ticket, bool) {
	id, ok := pathID(w, r, "ticket-id")
	if !ok {
		return nil, false
	}

	ticket, err := svc.DB.GetTicket(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Failed to retrieve ticket")
		return nil, false
	}
	if ticket == nil {
		notFound(w, r, "ticket")
		return nil, false
	}
	if !c.privileged() && (ticket.AssignedTo == nil || *ticket.AssignedTo != c.ID) {
		forbidden(w, r, "ticket")
		return nil, false
	}
	return ticket, true
}

// GetTicketService returns one ticket.
func (svc *Service) GetTicketService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	ticket, ok := svc.loadTicket(w, r, c)
	if !ok {
		return
	}

	WriteResponse(w, http.StatusOK, ticket)
}

// UpdateTicketService edits a ticket. Status changes must follow the ticket workflow;
// reassignment is limited to managers and admins and alerts the new assignee.
func (svc *Service) UpdateTicketService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	current, ok := svc.loadTicket(w, r, c)
	if !ok {
		return
	}

	var payload models.Ticket
	if !decode(w, r, &payload) {
		return
	}

	updated := *current
	if payload.Subject != "" {
		updated.Subject = payload.Subject
	}
	if payload.Description != nil {
		updated.Description = payload.Description
	}
	if payload.RequesterEmail != nil {
		updated.RequesterEmail = payload.RequesterEmail
	}
	if payload.ClientID != nil {
		updated.ClientID = payload.ClientID
	}
	if payload.Priority != "" {
		updated.Priority = payload.Priority
	}
	if payload.Channel != "" {
		updated.Channel = payload.Channel
	}
	if payload.Status != "" {
		if err := updated.Transition(payload.Status, svc.now()); err != nil {
			fail(w, r, fmt.Errorf("%w: %s to %s", err, current.Status, payload.Status), "Invalid ticket status change")
			return
		}
	}

	var alert *models.Notification
	if payload.AssignedTo != nil && !sameAssignee(payload.AssignedTo, current.AssignedTo) {
		if !c.privileged() {
			HandleErrResponse(w, http.StatusForbidden, errors.New("forbidden: only managers can reassign tickets"))
			return
		}
		updated.AssignedTo = payload.AssignedTo
		if *payload.AssignedTo != c.ID {
			alert = ticketAlert(svc, updated)
		}
	}

	if err := updated.Validate(); err != nil {
		fail(w, r, err, "Invalid ticket")
		return
	}

	ticket, err := svc.DB.UpdateTicket(r.Context(), updated, alert)
	if err != nil {
		fail(w, r, err, "Failed to update ticket")
		return
	}
	svc.invalidate(r.Context(), db.TableTickets, db.TableNotifications)

	logger.Info().Str("ticket_id", ticket.ID.String()).Str("status", ticket.Status).Msg("Ticket updated successfully")
	WriteResponse(w, http.StatusOK, ticket)
}

func sameAssignee(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// InboundTicketService accepts tickets from external channels. The caller proves itself
// with the shared webhook secret and the body must match the inbound ticket schema.
func (svc *Service) InboundTicketService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	secret := ""
	if svc.Config != nil {
		secret = svc.Config.Webhook.Secret
	}
	if secret == "" {
		logger.Warn().Msg("Inbound ticket rejected: webhook secret not configured")
		HandleErrResponse(w, http.StatusServiceUnavailable, errors.New("inbound tickets are not enabled"))
		return
	}
	if subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Webhook-Secret")), []byte(secret)) != 1 {
		logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Inbound ticket rejected: bad webhook secret")
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read inbound ticket")
		HandleErrResponse(w, http.StatusBadRequest, errors.New("invalid request payload"))
		return
	}

	result, err := inboundTicketSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		logger.Warn().Err(err).Msg("Inbound ticket is not valid JSON")
		HandleErrResponse(w, http.StatusBadRequest, errors.New("invalid request payload"))
		return
	}
	if !result.Valid() {
		fieldErrs := validation.Errors{}
		for _, e := range result.Errors() {
			fieldErrs[e.Field()] = errors.New(e.Description())
		}
		fail(w, r, fieldErrs, "Inbound ticket failed schema validation")
		return
	}

	var inbound models.InboundTicket
	if err := json.Unmarshal(body, &inbound); err != nil {
		HandleErrResponse(w, http.StatusBadRequest, errors.New("invalid request payload"))
		return
	}
	ticket := inbound.Ticket()
	if err := ticket.Validate(); err != nil {
		fail(w, r, err, "Invalid inbound ticket")
		return
	}

	created, err := svc.DB.CreateTicket(r.Context(), ticket, nil)
	if err != nil {
		fail(w, r, err, "Failed to create inbound ticket")
		return
	}
	svc.invalidate(r.Context(), db.TableTickets, db.TableNotifications)

	logger.Info().Str("ticket_id", created.ID.String()).Str("channel", created.Channel).Msg("Inbound ticket created")
	WriteResponse(w, http.StatusCreated, created)
}
