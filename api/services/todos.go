package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/cache"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/rs/zerolog"
)

func todoReminder(svc *Service, t models.Todo) *models.Notification {
	if t.Completed || t.DueDate == nil {
		return nil
	}
	return svc.reminderFor(t.UserID, models.EntityTodo, "To-do due: "+t.Title,
		fmt.Sprintf("%s is due at %s", t.Title, t.DueDate.UTC().Format(time.RFC1123)),
		*t.DueDate, t.ReminderMinutes)
}

// ListTodosService lists the caller's to-dos.
func (svc *Service) ListTodosService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	key := cache.Key(db.TableTodos, c.ID.String())
	todos, err := cachedList(r.Context(), svc, db.TableTodos, key, func() ([]models.Todo, error) {
		return svc.DB.ListTodos(r.Context(), c.ID)
	})
	if err != nil {
		fail(w, r, err, "Failed to retrieve to-dos")
		return
	}

	WriteResponse(w, http.StatusOK, todos)
}

// CreateTodoService creates a to-do for the caller, with a reminder when it has a due date.
func (svc *Service) CreateTodoService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.Todo
	if !decode(w, r, &payload) {
		return
	}
	payload.UserID = c.ID
	if payload.Priority == "" {
		payload.Priority = models.PriorityMedium
	}
	if payload.Completed {
		now := svc.now()
		payload.CompletedAt = &now
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid to-do")
		return
	}

	todo, err := svc.DB.CreateTodo(r.Context(), payload, todoReminder(svc, payload))
	if err != nil {
		fail(w, r, err, "Failed to create to-do in database")
		return
	}
	svc.invalidate(r.Context(), db.TableTodos, db.TableNotifications)

	logger.Info().Str("todo_id", todo.ID.String()).Msg("To-do created successfully")
	WriteResponse(w, http.StatusCreated, todo, fmt.Sprintf("%s/%s", r.URL.Path, todo.ID))
}

// loadTodo fetches the to-do named in the path. To-dos are private to their owner.
func (svc *Service) loadTodo(w http.ResponseWriter, r *http.Request, c caller) (*models.Todo, bool) {
	id, ok := pathID(w, r, "todo-id")
	if !ok {
		return nil, false
	}

	todo, err := svc.DB.GetTodo(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Failed to retrieve to-do")
		return nil, false
	}
	if todo == nil || todo.UserID != c.ID {
		notFound(w, r, "to-do")
		return nil, false
	}
	return todo, true
}

// UpdateTodoService edits a to-do, replacing its reminder.
func (svc *Service) UpdateTodoService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	current, ok := svc.loadTodo(w, r, c)
	if !ok {
		return
	}

	var payload models.Todo
	if !decode(w, r, &payload) {
		return
	}
	payload.ID = current.ID
	payload.UserID = current.UserID
	payload.CreatedAt = current.CreatedAt
	if payload.ReminderMinutes == 0 {
		payload.ReminderMinutes = current.ReminderMinutes
	}
	switch {
	case payload.Completed && current.Completed:
		payload.CompletedAt = current.CompletedAt
	case payload.Completed:
		now := svc.now()
		payload.CompletedAt = &now
	default:
		payload.CompletedAt = nil
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid to-do")
		return
	}

	todo, err := svc.DB.UpdateTodo(r.Context(), payload, todoReminder(svc, payload))
	if err != nil {
		fail(w, r, err, "Failed to update to-do")
		return
	}
	svc.invalidate(r.Context(), db.TableTodos, db.TableNotifications)

	logger.Info().Str("todo_id", todo.ID.String()).Bool("completed", todo.Completed).Msg("To-do updated successfully")
	WriteResponse(w, http.StatusOK, todo)
}

// DeleteTodoService deletes a to-do and cancels its reminder.
func (svc *Service) DeleteTodoService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	todo, ok := svc.loadTodo(w, r, c)
	if !ok {
		return
	}

	if err := svc.DB.DeleteTodo(r.Context(), *todo); err != nil {
		fail(w, r, err, "Failed to delete to-do")
		return
	}
	svc.invalidate(r.Context(), db.TableTodos, db.TableNotifications)

	logger.Info().Str("todo_id", todo.ID.String()).Msg("To-do deleted successfully")
	WriteResponse(w, http.StatusNoContent, nil)
}
