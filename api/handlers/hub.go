package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary Generate marketing content
// @Description Draft content with the marketing backend and save it to the caller's hub.
// @Tags hub
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.ContentRequest true "Content request"
// @Success 201 {object} models.HubContent
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Failure 502 {object} models.Response
// @Failure 503 {object} models.Response
// @Router /hub/content [post]
func GenerateContent(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GenerateContentService(w, r)
	}
}

// @Summary List saved content
// @Tags hub
// @Produce json
// @Security BearerAuth
// @Param type query string false "Content type" Enums(email, social, sms, blog)
// @Success 200 {array} models.HubContent
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /hub/content [get]
func ListContent(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListContentService(w, r)
	}
}

// @Summary Generate text
// @Description Answer a free-form prompt with the generative text API.
// @Tags hub
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.AssistRequest true "Prompt"
// @Success 200 {object} models.AssistResponse
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 502 {object} models.Response
// @Failure 503 {object} models.Response
// @Router /hub/assist [post]
func Assist(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.AssistService(w, r)
	}
}
