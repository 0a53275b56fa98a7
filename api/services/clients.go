package services

import (
	"fmt"
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/cache"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/rs/zerolog"
)

// ListClientsService lists the clients visible to the caller.
func (svc *Service) ListClientsService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	scope := c.scope()
	key := cache.Key(db.TableClients, scopeKey(scope))
	clients, err := cachedList(r.Context(), svc, db.TableClients, key, func() ([]models.Client, error) {
		return svc.DB.ListClients(r.Context(), scope)
	})
	if err != nil {
		fail(w, r, err, "Failed to retrieve clients")
		return
	}

	WriteResponse(w, http.StatusOK, clients)
}

// CreateClientService creates a client owned by the caller.
func (svc *Service) CreateClientService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.Client
	if !decode(w, r, &payload) {
		return
	}
	payload.CreatedBy = c.ID

	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid client")
		return
	}

	client, err := svc.DB.CreateClient(r.Context(), payload)
	if err != nil {
		fail(w, r, err, "Failed to create client in database")
		return
	}
	svc.invalidate(r.Context(), db.TableClients)

	logger.Info().Str("client_id", client.ID.String()).Msg("Client created successfully")
	WriteResponse(w, http.StatusCreated, client, fmt.Sprintf("%s/%s", r.URL.Path, client.ID))
}

// loadClient fetches the client named in the path and checks the caller may access it.
func (svc *Service) loadClient(w http.ResponseWriter, r *http.Request, c caller) (*models.Client, bool) {
	id, ok := pathID(w, r, "client-id")
	if !ok {
		return nil, false
	}

	client, err := svc.DB.GetClient(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Failed to retrieve client")
		return nil, false
	}
	if client == nil {
		notFound(w, r, "client")
		return nil, false
	}
	if !c.owns(client.CreatedBy) {
		forbidden(w, r, "client")
		return nil, false
	}
	return client, true
}

// GetClientService returns one client.
func (svc *Service) GetClientService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	client, ok := svc.loadClient(w, r, c)
	if !ok {
		return
	}

	WriteResponse(w, http.StatusOK, client)
}

// UpdateClientService replaces the editable fields of a client.
func (svc *Service) UpdateClientService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	current, ok := svc.loadClient(w, r, c)
	if !ok {
		return
	}

	var payload models.Client
	if !decode(w, r, &payload) {
		return
	}
	payload.ID = current.ID
	payload.CreatedBy = current.CreatedBy
	payload.CreatedAt = current.CreatedAt

	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid client")
		return
	}

	client, err := svc.DB.UpdateClient(r.Context(), payload)
	if err != nil {
		fail(w, r, err, "Failed to update client")
		return
	}
	svc.invalidate(r.Context(), db.TableClients)

	logger.Info().Str("client_id", client.ID.String()).Msg("Client updated successfully")
	WriteResponse(w, http.StatusOK, client)
}

// DeleteClientService deletes a client.
func (svc *Service) DeleteClientService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	client, ok := svc.loadClient(w, r, c)
	if !ok {
		return
	}

	if err := svc.DB.DeleteClient(r.Context(), client.ID); err != nil {
		fail(w, r, err, "Failed to delete client")
		return
	}
	svc.invalidate(r.Context(), db.TableClients)

	logger.Info().Str("client_id", client.ID.String()).Msg("Client deleted successfully")
	WriteResponse(w, http.StatusNoContent, nil)
}
