package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTodosArePrivate(t *testing.T) {
	svc, mockDB := newTestService()
	todoID := uuid.New()
	mockDB.On("GetTodo", mock.Anything, todoID).Return(&models.Todo{ID: todoID, UserID: uuid.New(), Title: "x"}, nil)

	// Even an admin cannot see another user's to-do
	claims := claimsFor(uuid.New(), "admin")
	rr := httptest.NewRecorder()
	svc.DeleteTodoService(rr, newRequest(t, http.MethodDelete, "/todos/x", nil, &claims, map[string]string{"todo-id": todoID.String()}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	mockDB.AssertNotCalled(t, "DeleteTodo")
}

func TestCreateTodoWithoutDueDate(t *testing.T) {
	svc, mockDB := newTestService()
	userID := uuid.New()
	claims := claimsFor(userID, "agent")

	mockDB.On("CreateTodo", mock.Anything, mock.MatchedBy(func(td models.Todo) bool {
		return td.UserID == userID && td.Priority == models.PriorityMedium
	}), (*models.Notification)(nil)).Return(&models.Todo{ID: uuid.New(), UserID: userID}, nil)

	rr := httptest.NewRecorder()
	svc.CreateTodoService(rr, newRequest(t, http.MethodPost, "/todos", models.Todo{Title: "Send deck", UserID: uuid.New()}, &claims, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestMarkRead(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	claims := claimsFor(userID, "agent")
	vars := map[string]string{"notification-id": id.String()}

	t.Run("marked", func(t *testing.T) {
		svc, mockDB := newTestService()
		mockDB.On("MarkRead", mock.Anything, userID, id, testNow).Return(true, nil)

		rr := httptest.NewRecorder()
		svc.MarkReadService(rr, newRequest(t, http.MethodPost, "/notifications/x/read", nil, &claims, vars))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("already read", func(t *testing.T) {
		svc, mockDB := newTestService()
		mockDB.On("MarkRead", mock.Anything, userID, id, testNow).Return(false, nil)
		mockDB.On("GetNotification", mock.Anything, id).Return(&models.Notification{ID: id, UserID: userID}, nil)

		rr := httptest.NewRecorder()
		svc.MarkReadService(rr, newRequest(t, http.MethodPost, "/notifications/x/read", nil, &claims, vars))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("someone else's", func(t *testing.T) {
		svc, mockDB := newTestService()
		mockDB.On("MarkRead", mock.Anything, userID, id, testNow).Return(false, nil)
		mockDB.On("GetNotification", mock.Anything, id).Return(&models.Notification{ID: id, UserID: uuid.New()}, nil)

		rr := httptest.NewRecorder()
		svc.MarkReadService(rr, newRequest(t, http.MethodPost, "/notifications/x/read", nil, &claims, vars))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSubmitReportDefaultsTeamFromToken(t *testing.T) {
	svc, mockDB := newTestService()
	userID := uuid.New()
	claims := claimsFor(userID, "agent")
	claims.AppMetadata.TeamType = models.TeamSupport

	mockDB.On("SubmitReport", mock.Anything, mock.MatchedBy(func(d models.DailyReport) bool {
		return d.UserID == userID && d.TeamType == models.TeamSupport && d.ReportDate.Equal(testNow)
	})).Return(&models.DailyReport{ID: uuid.New(), TeamType: models.TeamSupport}, nil)

	rr := httptest.NewRecorder()
	svc.SubmitReportService(rr, newRequest(t, http.MethodPost, "/reports", models.DailyReport{TicketsResolved: 7}, &claims, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockDB.AssertExpectations(t)
}
