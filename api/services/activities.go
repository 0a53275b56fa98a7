package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/cache"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reminderFor builds the reminder of an entity due at due, or nil when the entity
// is already due or minutes disables it. A reminder whose lead time has already
// passed is scheduled now.
func (svc *Service) reminderFor(userID uuid.UUID, entityType, title, message string, due time.Time, minutes int) *models.Notification {
	now := svc.now()
	if !due.After(now) {
		return nil
	}
	n := models.NewReminder(userID, entityType, uuid.Nil, title, message, due, minutes)
	if n != nil && n.ScheduledFor.Before(now) {
		n.ScheduledFor = now
	}
	return n
}

func followUpReminder(svc *Service, f models.FollowUp) *models.Notification {
	if f.IsClosed() {
		return nil
	}
	return svc.reminderFor(f.AssignedTo, models.EntityFollowUp,
		fmt.Sprintf("Follow-up %s due", f.Type),
		fmt.Sprintf("Your %s follow-up is due at %s", f.Type, f.DueDate.UTC().Format(time.RFC1123)),
		f.DueDate, f.ReminderMinutes)
}

func meetingReminder(svc *Service, m models.Meeting) *models.Notification {
	if m.IsClosed() {
		return nil
	}
	message := fmt.Sprintf("%s starts at %s", m.Title, m.StartTime.UTC().Format(time.RFC1123))
	if m.MeetingLink != nil {
		message += " " + *m.MeetingLink
	}
	return svc.reminderFor(m.Organizer, models.EntityMeeting, "Upcoming meeting: "+m.Title, message,
		m.StartTime, m.ReminderMinutes)
}

// touchLead records contact with a lead after a completed activity. Failures are logged only.
func (svc *Service) touchLead(r *http.Request, leadID uuid.UUID) {
	if err := svc.DB.TouchLead(r.Context(), leadID, svc.now()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("lead_id", leadID.String()).Msg("Failed to record lead contact")
		return
	}
	svc.invalidate(r.Context(), db.TableLeads)
}

// leadForActivity checks the lead an activity is attached to exists and is accessible.
func (svc *Service) leadForActivity(w http.ResponseWriter, r *http.Request, c caller, leadID uuid.UUID) bool {
	lead, err := svc.DB.GetLead(r.Context(), leadID)
	if err != nil {
		fail(w, r, err, "Failed to retrieve lead")
		return false
	}
	if lead == nil {
		notFound(w, r, "lead")
		return false
	}
	if !c.owns(lead.AssignedTo) {
		forbidden(w, r, "lead")
		return false
	}
	return true
}

// ListFollowUpsService lists follow-ups, optionally by lead, status and due time.
func (svc *Service) ListFollowUpsService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	filter := models.FollowUpFilter{AssignedTo: c.scope(), Status: r.URL.Query().Get("status")}
	var err error
	if filter.LeadID, err = queryUUID(r, "lead_id"); err != nil {
		fail(w, r, err, "Invalid follow-up filter")
		return
	}
	if filter.DueBefore, err = queryTime(r, "due_before"); err != nil {
		fail(w, r, err, "Invalid follow-up filter")
		return
	}
	if err := filter.Validate(); err != nil {
		fail(w, r, err, "Invalid follow-up filter")
		return
	}

	key := cache.Key(db.TableFollowUps, scopeKey(filter.AssignedTo), r.URL.Query().Encode())
	followUps, err := cachedList(r.Context(), svc, db.TableFollowUps, key, func() ([]models.FollowUp, error) {
		return svc.DB.ListFollowUps(r.Context(), filter)
	})
	if err != nil {
		fail(w, r, err, "Failed to retrieve follow-ups")
		return
	}

	WriteResponse(w, http.StatusOK, followUps)
}

// CreateFollowUpService schedules a follow-up on a lead with its reminder.
func (svc *Service) CreateFollowUpService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.FollowUp
	if !decode(w, r, &payload) {
		return
	}
	if !c.privileged() || payload.AssignedTo == uuid.Nil {
		payload.AssignedTo = c.ID
	}
	if payload.Status == "" {
		payload.Status = models.FollowUpStatusPending
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid follow-up")
		return
	}
	if !svc.leadForActivity(w, r, c, payload.LeadID) {
		return
	}

	followUp, err := svc.DB.CreateFollowUp(r.Context(), payload, followUpReminder(svc, payload))
	if err != nil {
		fail(w, r, err, "Failed to create follow-up in database")
		return
	}
	svc.invalidate(r.Context(), db.TableFollowUps, db.TableNotifications)

	logger.Info().Str("follow_up_id", followUp.ID.String()).Str("lead_id", followUp.LeadID.String()).
		Msg("Follow-up created successfully")
	WriteResponse(w, http.StatusCreated, followUp, fmt.Sprintf("%s/%s", r.URL.Path, followUp.ID))
}

func (svc *Service) loadFollowUp(w http.ResponseWriter, r *http.Request, c caller) (*models.FollowUp, bool) {
	id, ok := pathID(w, r, "follow-up-id")
	if !ok {
		return nil, false
	}

	followUp, err := svc.DB.GetFollowUp(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Failed to retrieve follow-up")
		return nil, false
	}
	if followUp == nil {
		notFound(w, r, "follow-up")
		return nil, false
	}
	if !c.owns(followUp.AssignedTo) {
		forbidden(w, r, "follow-up")
		return nil, false
	}
	return followUp, true
}

// UpdateFollowUpService edits a follow-up. Its reminder is replaced, or cancelled once
// the follow-up is closed.
func (svc *Service) UpdateFollowUpService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	current, ok := svc.loadFollowUp(w, r, c)
	if !ok {
		return
	}

	var payload models.FollowUp
	if !decode(w, r, &payload) {
		return
	}
	payload.ID = current.ID
	payload.LeadID = current.LeadID
	payload.CreatedAt = current.CreatedAt
	if !c.privileged() || payload.AssignedTo == uuid.Nil {
		payload.AssignedTo = current.AssignedTo
	}
	if payload.ReminderMinutes == 0 {
		payload.ReminderMinutes = current.ReminderMinutes
	}
	if payload.Status == models.FollowUpStatusCompleted && payload.CompletedAt == nil {
		now := svc.now()
		payload.CompletedAt = &now
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid follow-up")
		return
	}

	followUp, err := svc.DB.UpdateFollowUp(r.Context(), payload, followUpReminder(svc, payload))
	if err != nil {
		fail(w, r, err, "Failed to update follow-up")
		return
	}
	svc.invalidate(r.Context(), db.TableFollowUps, db.TableNotifications)
	if followUp.Status == models.FollowUpStatusCompleted && current.Status != models.FollowUpStatusCompleted {
		svc.touchLead(r, followUp.LeadID)
	}

	logger.Info().Str("follow_up_id", followUp.ID.String()).Msg("Follow-up updated successfully")
	WriteResponse(w, http.StatusOK, followUp)
}

// CompleteFollowUpService marks a follow-up completed and cancels its reminder.
func (svc *Service) CompleteFollowUpService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	followUp, ok := svc.loadFollowUp(w, r, c)
	if !ok {
		return
	}
	if followUp.Status == models.FollowUpStatusCompleted {
		WriteResponse(w, http.StatusOK, followUp)
		return
	}

	now := svc.now()
	followUp.Status = models.FollowUpStatusCompleted
	followUp.CompletedAt = &now

	updated, err := svc.DB.UpdateFollowUp(r.Context(), *followUp, nil)
	if err != nil {
		fail(w, r, err, "Failed to complete follow-up")
		return
	}
	svc.invalidate(r.Context(), db.TableFollowUps, db.TableNotifications)
	svc.touchLead(r, updated.LeadID)

	logger.Info().Str("follow_up_id", updated.ID.String()).Msg("Follow-up completed")
	WriteResponse(w, http.StatusOK, updated)
}

// DeleteFollowUpService deletes a follow-up and cancels its reminder.
func (svc *Service) DeleteFollowUpService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	followUp, ok := svc.loadFollowUp(w, r, c)
	if !ok {
		return
	}

	if err := svc.DB.DeleteFollowUp(r.Context(), *followUp); err != nil {
		fail(w, r, err, "Failed to delete follow-up")
		return
	}
	svc.invalidate(r.Context(), db.TableFollowUps, db.TableNotifications)

	logger.Info().Str("follow_up_id", followUp.ID.String()).Msg("Follow-up deleted successfully")
	WriteResponse(w, http.StatusNoContent, nil)
}

// ListMeetingsService lists meetings, optionally within a start time range.
func (svc *Service) ListMeetingsService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	from, err := queryTime(r, "from")
	if err != nil {
		fail(w, r, err, "Invalid meeting filter")
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		fail(w, r, err, "Invalid meeting filter")
		return
	}

	scope := c.scope()
	key := cache.Key(db.TableMeetings, scopeKey(scope), r.URL.Query().Encode())
	meetings, err := cachedList(r.Context(), svc, db.TableMeetings, key, func() ([]models.Meeting, error) {
		return svc.DB.ListMeetings(r.Context(), scope, from, to)
	})
	if err != nil {
		fail(w, r, err, "Failed to retrieve meetings")
		return
	}

	WriteResponse(w, http.StatusOK, meetings)
}

// CreateMeetingService schedules a meeting on a lead with its reminder.
func (svc *Service) CreateMeetingService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.Meeting
	if !decode(w, r, &payload) {
		return
	}
	if !c.privileged() || payload.Organizer == uuid.Nil {
		payload.Organizer = c.ID
	}
	if payload.Status == "" {
		payload.Status = models.MeetingStatusScheduled
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid meeting")
		return
	}
	if !svc.leadForActivity(w, r, c, payload.LeadID) {
		return
	}

	meeting, err := svc.DB.CreateMeeting(r.Context(), payload, meetingReminder(svc, payload))
	if err != nil {
		fail(w, r, err, "Failed to create meeting in database")
		return
	}
	svc.invalidate(r.Context(), db.TableMeetings, db.TableNotifications)

	logger.Info().Str("meeting_id", meeting.ID.String()).Str("lead_id", meeting.LeadID.String()).
		Msg("Meeting created successfully")
	WriteResponse(w, http.StatusCreated, meeting, fmt.Sprintf("%s/%s", r.URL.Path, meeting.ID))
}

func (svc *Service) loadMeeting(w http.ResponseWriter, r *http.Request, c caller) (*models.Meeting, bool) {
	id, ok := pathID(w, r, "meeting-id")
	if !ok {
		return nil, false
	}

	meeting, err := svc.DB.GetMeeting(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Failed to retrieve meeting")
		return nil, false
	}
	if meeting == nil {
		notFound(w, r, "meeting")
		return nil, false
	}
	if !c.owns(meeting.Organizer) {
		forbidden(w, r, "meeting")
		return nil, false
	}
	return meeting, true
}

// UpdateMeetingService edits or reschedules a meeting, replacing its reminder.
func (svc *Service) UpdateMeetingService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	current, ok := svc.loadMeeting(w, r, c)
	if !ok {
		return
	}

	var payload models.Meeting
	if !decode(w, r, &payload) {
		return
	}
	payload.ID = current.ID
	payload.LeadID = current.LeadID
	payload.CreatedAt = current.CreatedAt
	if !c.privileged() || payload.Organizer == uuid.Nil {
		payload.Organizer = current.Organizer
	}
	if payload.ReminderMinutes == 0 {
		payload.ReminderMinutes = current.ReminderMinutes
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid meeting")
		return
	}

	meeting, err := svc.DB.UpdateMeeting(r.Context(), payload, meetingReminder(svc, payload))
	if err != nil {
		fail(w, r, err, "Failed to update meeting")
		return
	}
	svc.invalidate(r.Context(), db.TableMeetings, db.TableNotifications)
	if meeting.Status == models.MeetingStatusCompleted && current.Status != models.MeetingStatusCompleted {
		svc.touchLead(r, meeting.LeadID)
	}

	logger.Info().Str("meeting_id", meeting.ID.String()).Msg("Meeting updated successfully")
	WriteResponse(w, http.StatusOK, meeting)
}

// DeleteMeetingService deletes a meeting and cancels its reminder.
func (svc *Service) DeleteMeetingService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	meeting, ok := svc.loadMeeting(w, r, c)
	if !ok {
		return
	}

	if err := svc.DB.DeleteMeeting(r.Context(), *meeting); err != nil {
		fail(w, r, err, "Failed to delete meeting")
		return
	}
	svc.invalidate(r.Context(), db.TableMeetings, db.TableNotifications)

	logger.Info().Str("meeting_id", meeting.ID.String()).Msg("Meeting deleted successfully")
	WriteResponse(w, http.StatusNoContent, nil)
}
