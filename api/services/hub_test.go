package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/genai"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGenerateContent(t *testing.T) {
	req := models.ContentRequest{ContentType: models.ContentEmail, Topic: "Spring promotion"}

	t.Run("saved to hub", func(t *testing.T) {
		svc, mockDB := newTestService()
		backend := new(MockBackend)
		svc.Backend = backend
		userID := uuid.New()
		claims := claimsFor(userID, "agent")

		backend.On("GenerateContent", mock.Anything, req).Return("Dear customer...", nil)
		mockDB.On("SaveHubContent", mock.Anything, mock.MatchedBy(func(c models.HubContent) bool {
			return c.UserID == userID && c.Body == "Dear customer..." && c.ContentType == models.ContentEmail
		})).Return(&models.HubContent{ID: uuid.New(), UserID: userID, Body: "Dear customer..."}, nil)

		rr := httptest.NewRecorder()
		svc.GenerateContentService(rr, newRequest(t, http.MethodPost, "/hub/content", req, &claims, nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockDB.AssertExpectations(t)
		backend.AssertExpectations(t)
	})

	t.Run("backend failure", func(t *testing.T) {
		svc, mockDB := newTestService()
		backend := new(MockBackend)
		svc.Backend = backend
		claims := claimsFor(uuid.New(), "agent")
		backend.On("GenerateContent", mock.Anything, req).Return("", errors.New("upstream returned 500"))

		rr := httptest.NewRecorder()
		svc.GenerateContentService(rr, newRequest(t, http.MethodPost, "/hub/content", req, &claims, nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		mockDB.AssertNotCalled(t, "SaveHubContent")
	})
}

func TestListContentRejectsUnknownType(t *testing.T) {
	svc, mockDB := newTestService()
	claims := claimsFor(uuid.New(), "agent")

	rr := httptest.NewRecorder()
	svc.ListContentService(rr, newRequest(t, http.MethodGet, "/hub/content?type=poster", nil, &claims, nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockDB.AssertNotCalled(t, "ListHubContent")
}

func TestAssist(t *testing.T) {
	claims := claimsFor(uuid.New(), "agent")
	prompt := models.AssistRequest{Prompt: "Write a two line follow-up for a cold lead"}

	t.Run("not configured", func(t *testing.T) {
		svc, _ := newTestService()
		rr := httptest.NewRecorder()
		svc.AssistService(rr, newRequest(t, http.MethodPost, "/hub/assist", prompt, &claims, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("missing key", func(t *testing.T) {
		svc, _ := newTestService()
		gen := new(MockTextGenerator)
		svc.GenAI = gen
		gen.On("Generate", mock.Anything, prompt.Prompt).Return("", genai.ErrNotConfigured)

		rr := httptest.NewRecorder()
		svc.AssistService(rr, newRequest(t, http.MethodPost, "/hub/assist", prompt, &claims, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		svc, _ := newTestService()
		gen := new(MockTextGenerator)
		svc.GenAI = gen
		gen.On("Generate", mock.Anything, prompt.Prompt).Return("", fmt.Errorf("%w: 403", errors.New("generate content")))

		rr := httptest.NewRecorder()
		svc.AssistService(rr, newRequest(t, http.MethodPost, "/hub/assist", prompt, &claims, nil))
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("answered", func(t *testing.T) {
		svc, _ := newTestService()
		gen := new(MockTextGenerator)
		svc.GenAI = gen
		gen.On("Generate", mock.Anything, prompt.Prompt).Return("Hi Sam, just checking in.", nil)

		rr := httptest.NewRecorder()
		svc.AssistService(rr, newRequest(t, http.MethodPost, "/hub/assist", prompt, &claims, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp models.AssistResponse
		decodeBody(t, rr, &resp)
		assert.Equal(t, "Hi Sam, just checking in.", resp.Text)
	})
}
