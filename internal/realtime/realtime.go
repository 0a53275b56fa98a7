package realtime

import (
	"context"
	"fmt"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Invalidator drops cached query results of whole tables.
type Invalidator interface {
	Invalidate(ctx context.Context, tables ...string) error
}

// Reminders is the part of the reminder scheduler driven by the change feed.
type Reminders interface {
	Cancel(entityID uuid.UUID) int
	Sync()
}

// Tables whose rows own reminders.
var reminderTables = map[string]bool{
	db.TableFollowUps: true,
	db.TableMeetings:  true,
	db.TableTodos:     true,
	db.TableTickets:   true,
}

var closedStatuses = map[string]bool{
	"completed": true,
	"cancelled": true,
	"resolved":  true,
	"closed":    true,
}

// Handler applies change feed events to the cache and the reminder scheduler.
type Handler struct {
	Cache     Invalidator
	Reminders Reminders
}

// Handle is an events.Handler.
func (h *Handler) Handle(ctx context.Context, e events.ChangeEvent) error {
	logger := zerolog.Ctx(ctx).With().
		Str("table", e.Table).Str("action", e.Action).Str("record_id", e.RecordID.String()).Logger()

	tables := db.AffectedTables(e.Table)
	if err := h.Cache.Invalidate(ctx, tables...); err != nil {
		metrics.ChangeEvents.WithLabelValues(e.Table, "error").Inc()
		return fmt.Errorf("error invalidating %v: %w", tables, err)
	}

	if h.Reminders != nil {
		switch {
		case reminderTables[e.Table] && (e.Action == events.ActionDelete || closedStatuses[e.Status]):
			n := h.Reminders.Cancel(e.RecordID)
			logger.Debug().Int("cancelled", n).Msg("reminder timers cancelled")
		case reminderTables[e.Table] && e.Action == events.ActionUpdate:
			// The row's reminder may have been replaced with a new due time.
			h.Reminders.Cancel(e.RecordID)
			h.Reminders.Sync()
		case e.Table == db.TableNotifications && e.Action == events.ActionInsert:
			h.Reminders.Sync()
		}
	}

	metrics.ChangeEvents.WithLabelValues(e.Table, "ok").Inc()
	logger.Debug().Msg("change event applied")
	return nil
}
