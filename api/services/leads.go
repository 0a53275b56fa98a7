package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/cache"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/scoring"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// rescore sets the lead's score and temperature from its current state.
func (svc *Service) rescore(ctx context.Context, l *models.Lead, a models.LeadActivity) scoring.Result {
	scorer := svc.Scorer
	if scorer == nil {
		scorer = &scoring.Scorer{Now: svc.now}
	}
	res := scorer.Score(ctx, scoring.FeaturesOf(*l, a))
	l.Score = res.Score
	l.Temperature = res.Temperature
	return res
}

// ListLeadsService lists leads. Agents only see leads assigned to them; managers and
// admins may filter by assignee.
func (svc *Service) ListLeadsService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.LeadFilter{
		Status:      q.Get("status"),
		Temperature: q.Get("temperature"),
		Search:      q.Get("search"),
	}

	var err error
	if filter.AssignedTo, err = queryUUID(r, "assigned_to"); err != nil {
		fail(w, r, err, "Invalid lead filter")
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		fail(w, r, err, "Invalid lead filter")
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		fail(w, r, err, "Invalid lead filter")
		return
	}
	if !c.privileged() {
		filter.AssignedTo = c.scope()
	}
	if err := filter.Validate(); err != nil {
		fail(w, r, err, "Invalid lead filter")
		return
	}

	key := cache.Key(db.TableLeads, scopeKey(filter.AssignedTo), q.Encode())
	leads, err := cachedList(r.Context(), svc, db.TableLeads, key, func() ([]models.Lead, error) {
		return svc.DB.ListLeads(r.Context(), filter)
	})
	if err != nil {
		fail(w, r, err, "Failed to retrieve leads")
		return
	}

	WriteResponse(w, http.StatusOK, leads)
}

// CreateLeadService creates a lead and computes its initial score.
func (svc *Service) CreateLeadService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.Lead
	if !decode(w, r, &payload) {
		return
	}

	// Only managers and admins can create leads assigned to other agents
	if !c.privileged() || payload.AssignedTo == uuid.Nil {
		payload.AssignedTo = c.ID
	}
	if payload.Status == "" {
		payload.Status = models.LeadStatusNew
	}
	if payload.Source == "" {
		payload.Source = models.LeadSourceOther
	}
	payload.CreatedAt = svc.now()
	svc.rescore(r.Context(), &payload, models.LeadActivity{})

	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid lead")
		return
	}

	lead, err := svc.DB.CreateLead(r.Context(), payload)
	if err != nil {
		fail(w, r, err, "Failed to create lead in database")
		return
	}
	svc.invalidate(r.Context(), db.TableLeads)

	logger.Info().Str("lead_id", lead.ID.String()).Int("score", lead.Score).Msg("Lead created successfully")
	WriteResponse(w, http.StatusCreated, lead, fmt.Sprintf("%s/%s", r.URL.Path, lead.ID))
}

// loadLead fetches the lead named in the path and checks the caller may access it.
func (svc *Service) loadLead(w http.ResponseWriter, r *http.Request, c caller) (*models.Lead, bool) {
	id, ok := pathID(w, r, "lead-id")
	if !ok {
		return nil, false
	}

	lead, err := svc.DB.GetLead(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Failed to retrieve lead")
		return nil, false
	}
	if lead == nil {
		notFound(w, r, "lead")
		return nil, false
	}
	if !c.owns(lead.AssignedTo) {
		forbidden(w, r, "lead")
		return nil, false
	}
	return lead, true
}

// GetLeadService returns one lead.
func (svc *Service) GetLeadService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	lead, ok := svc.loadLead(w, r, c)
	if !ok {
		return
	}

	WriteResponse(w, http.StatusOK, lead)
}

// UpdateLeadService replaces the editable fields of a lead and rescores it.
func (svc *Service) UpdateLeadService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	current, ok := svc.loadLead(w, r, c)
	if !ok {
		return
	}

	var payload models.Lead
	if !decode(w, r, &payload) {
		return
	}
	payload.ID = current.ID
	payload.CreatedAt = current.CreatedAt
	if !c.privileged() || payload.AssignedTo == uuid.Nil {
		payload.AssignedTo = current.AssignedTo
	}
	if payload.LastContactedAt == nil {
		payload.LastContactedAt = current.LastContactedAt
	}

	activity, err := svc.DB.GetLeadActivity(r.Context(), current.ID)
	if err != nil {
		fail(w, r, err, "Failed to retrieve lead activity")
		return
	}
	svc.rescore(r.Context(), &payload, activity)

	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid lead")
		return
	}

	lead, err := svc.DB.UpdateLead(r.Context(), payload)
	if err != nil {
		fail(w, r, err, "Failed to update lead")
		return
	}
	svc.invalidate(r.Context(), db.TableLeads)

	logger.Info().Str("lead_id", lead.ID.String()).Msg("Lead updated successfully")
	WriteResponse(w, http.StatusOK, lead)
}

// UpdateLeadStatusService moves a lead to a new pipeline status and rescores it.
func (svc *Service) UpdateLeadStatusService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	lead, ok := svc.loadLead(w, r, c)
	if !ok {
		return
	}

	var payload models.LeadStatusUpdate
	if !decode(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid lead status")
		return
	}

	if payload.Status == models.LeadStatusContacted && lead.Status == models.LeadStatusNew {
		now := svc.now()
		lead.LastContactedAt = &now
	}
	lead.Status = payload.Status

	activity, err := svc.DB.GetLeadActivity(r.Context(), lead.ID)
	if err != nil {
		fail(w, r, err, "Failed to retrieve lead activity")
		return
	}
	svc.rescore(r.Context(), lead, activity)

	updated, err := svc.DB.UpdateLead(r.Context(), *lead)
	if err != nil {
		fail(w, r, err, "Failed to update lead status")
		return
	}
	svc.invalidate(r.Context(), db.TableLeads)

	logger.Info().Str("lead_id", updated.ID.String()).Str("status", updated.Status).Msg("Lead status updated")
	WriteResponse(w, http.StatusOK, updated)
}

// ScoreLeadService recomputes a lead's score and temperature.
func (svc *Service) ScoreLeadService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	lead, ok := svc.loadLead(w, r, c)
	if !ok {
		return
	}

	activity, err := svc.DB.GetLeadActivity(r.Context(), lead.ID)
	if err != nil {
		fail(w, r, err, "Failed to retrieve lead activity")
		return
	}
	res := svc.rescore(r.Context(), lead, activity)

	updated, err := svc.DB.UpdateLead(r.Context(), *lead)
	if err != nil {
		fail(w, r, err, "Failed to save lead score")
		return
	}
	svc.invalidate(r.Context(), db.TableLeads)

	logger.Info().Str("lead_id", updated.ID.String()).Int("score", res.Score).
		Str("temperature", res.Temperature).Str("source", res.Source).Msg("Lead rescored")
	WriteResponse(w, http.StatusOK, updated)
}

// DeleteLeadService deletes a lead with its follow-ups and meetings.
func (svc *Service) DeleteLeadService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	lead, ok := svc.loadLead(w, r, c)
	if !ok {
		return
	}

	if err := svc.DB.DeleteLead(r.Context(), lead.ID); err != nil {
		fail(w, r, err, "Failed to delete lead")
		return
	}
	svc.invalidate(r.Context(), db.TableLeads)

	logger.Info().Str("lead_id", lead.ID.String()).Msg("Lead deleted successfully")
	WriteResponse(w, http.StatusNoContent, nil)
}

// StartCallService asks the backend service to place a voice call to a lead.
func (svc *Service) StartCallService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	lead, ok := svc.loadLead(w, r, c)
	if !ok {
		return
	}

	var payload models.CallRequest
	if r.ContentLength != 0 && !decode(w, r, &payload) {
		return
	}

	if lead.Phone == nil || *lead.Phone == "" {
		HandleErrResponse(w, http.StatusUnprocessableEntity, errors.New("lead has no phone number"))
		return
	}
	if svc.Backend == nil {
		HandleErrResponse(w, http.StatusServiceUnavailable, errors.New("voice calls are not configured"))
		return
	}

	call, err := svc.Backend.StartCall(r.Context(), *lead, payload.Script)
	if err != nil {
		logger.Error().Err(err).Str("lead_id", lead.ID.String()).Msg("Failed to start call")
		HandleErrResponse(w, http.StatusBadGateway, errors.New("failed to start call"))
		return
	}

	svc.touchLead(r, lead.ID)

	logger.Info().Str("lead_id", lead.ID.String()).Str("call_id", call.CallID).Msg("Call started")
	WriteResponse(w, http.StatusAccepted, call)
}
