package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/genai"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
)

// GenerateContentService drafts marketing content through the backend service and
// saves it to the caller's hub.
func (svc *Service) GenerateContentService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.ContentRequest
	if !decode(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid content request")
		return
	}
	if svc.Backend == nil {
		HandleErrResponse(w, http.StatusServiceUnavailable, errors.New("content generation is not configured"))
		return
	}

	body, err := svc.Backend.GenerateContent(r.Context(), payload)
	if err != nil {
		logger.Error().Err(err).Str("content_type", payload.ContentType).Msg("Failed to generate content")
		HandleErrResponse(w, http.StatusBadGateway, errors.New("failed to generate content"))
		return
	}

	content, err := svc.DB.SaveHubContent(r.Context(), models.HubContent{
		UserID:      c.ID,
		ContentType: payload.ContentType,
		Topic:       payload.Topic,
		Tone:        payload.Tone,
		Body:        body,
	})
	if err != nil {
		fail(w, r, err, "Failed to save generated content")
		return
	}

	logger.Info().Str("content_id", content.ID.String()).Str("content_type", content.ContentType).Msg("Content generated")
	WriteResponse(w, http.StatusCreated, content, fmt.Sprintf("%s/%s", r.URL.Path, content.ID))
}

// ListContentService lists the caller's saved content, optionally of one type.
func (svc *Service) ListContentService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	contentType := r.URL.Query().Get("type")
	if contentType != "" && !models.Contains(models.ContentTypes, contentType) {
		fail(w, r, validation.Errors{"type": errors.New("must be one of the allowed values")}, "Invalid content filter")
		return
	}

	content, err := svc.DB.ListHubContent(r.Context(), c.ID, contentType)
	if err != nil {
		fail(w, r, err, "Failed to retrieve content")
		return
	}
	if content == nil {
		content = []models.HubContent{}
	}

	WriteResponse(w, http.StatusOK, content)
}

// AssistService answers a free-form prompt with the generative text API.
func (svc *Service) AssistService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if _, ok := callerFrom(w, r); !ok {
		return
	}

	var payload models.AssistRequest
	if !decode(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid assist request")
		return
	}

	if svc.GenAI == nil {
		HandleErrResponse(w, http.StatusServiceUnavailable, genai.ErrNotConfigured)
		return
	}
	text, err := svc.GenAI.Generate(r.Context(), payload.Prompt)
	if errors.Is(err, genai.ErrNotConfigured) {
		HandleErrResponse(w, http.StatusServiceUnavailable, err)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate text")
		HandleErrResponse(w, http.StatusBadGateway, errors.New("failed to generate text"))
		return
	}

	WriteResponse(w, http.StatusOK, models.AssistResponse{Text: text})
}
