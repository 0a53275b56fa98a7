package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary List clients
// @Description List the clients visible to the caller.
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Client
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /clients [get]
func ListClients(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListClientsService(w, r)
	}
}

// @Summary Create a client
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.Client true "Client"
// @Success 201 {object} models.Client
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 409 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /clients [post]
func CreateClient(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateClientService(w, r)
	}
}

// @Summary Get a client
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param client-id path string true "Client ID"
// @Success 200 {object} models.Client
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /clients/{client-id} [get]
func GetClient(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetClientService(w, r)
	}
}

// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client-id path string true "Client ID"
// @Param body body models.Client true "Client"
// @Success 200 {object} models.Client
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /clients/{client-id} [put]
func UpdateClient(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateClientService(w, r)
	}
}

// @Summary Delete a client
// @Description Delete a client. Its leads and tickets are kept and unlinked.
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param client-id path string true "Client ID"
// @Success 204
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /clients/{client-id} [delete]
func DeleteClient(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteClientService(w, r)
	}
}
