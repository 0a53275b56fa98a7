package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/cache"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListClientsServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCache := cache.NewRedis(mr.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { redisCache.Close() })

	svc, mockDB := newTestService()
	svc.Cache = redisCache
	agentID := uuid.New()
	claims := claimsFor(agentID, "agent")

	clients := []models.Client{{ID: uuid.New(), Name: "Acme", CreatedBy: agentID}}
	mockDB.On("ListClients", mock.Anything, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == agentID
	})).Return(clients, nil).Once()

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		svc.ListClientsService(rr, newRequest(t, http.MethodGet, "/clients", nil, &claims, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var got []models.Client
		decodeBody(t, rr, &got)
		require.Len(t, got, 1)
		assert.Equal(t, "Acme", got[0].Name)
	}
	mockDB.AssertNumberOfCalls(t, "ListClients", 1)

	// A change event for the table drops the cached list
	require.NoError(t, redisCache.Invalidate(context.Background(), db.TableClients))
	mockDB.On("ListClients", mock.Anything, mock.Anything).Return([]models.Client{}, nil).Once()

	rr := httptest.NewRecorder()
	svc.ListClientsService(rr, newRequest(t, http.MethodGet, "/clients", nil, &claims, nil))
	assert.JSONEq(t, `[]`, rr.Body.String())
	mockDB.AssertNumberOfCalls(t, "ListClients", 2)
}

func TestCreateClientOwnedByCaller(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	claims := claimsFor(agentID, "agent")
	created := &models.Client{ID: uuid.New(), Name: "Acme", CreatedBy: agentID}

	mockDB.On("CreateClient", mock.Anything, mock.MatchedBy(func(c models.Client) bool {
		return c.CreatedBy == agentID && c.Name == "Acme"
	})).Return(created, nil)

	body := map[string]interface{}{"name": "Acme", "createdBy": uuid.New()}
	rr := httptest.NewRecorder()
	svc.CreateClientService(rr, newRequest(t, http.MethodPost, "/clients", body, &claims, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/clients/"+created.ID.String(), rr.Header().Get("Location"))
}

func TestCreateClientConflict(t *testing.T) {
	svc, mockDB := newTestService()
	claims := claimsFor(uuid.New(), "agent")
	mockDB.On("CreateClient", mock.Anything, mock.Anything).Return(nil, db.ErrConflict)

	rr := httptest.NewRecorder()
	svc.CreateClientService(rr, newRequest(t, http.MethodPost, "/clients", map[string]string{"name": "Acme"}, &claims, nil))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestClientOwnership(t *testing.T) {
	owner := uuid.New()
	clientID := uuid.New()
	vars := map[string]string{"client-id": clientID.String()}

	tests := []struct {
		name   string
		caller uuid.UUID
		role   string
		want   int
	}{
		{"owner", owner, "agent", http.StatusNoContent},
		{"other agent", uuid.New(), "agent", http.StatusForbidden},
		{"manager", uuid.New(), "manager", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockDB := newTestService()
			claims := claimsFor(tt.caller, tt.role)
			mockDB.On("GetClient", mock.Anything, clientID).Return(&models.Client{ID: clientID, Name: "Acme", CreatedBy: owner}, nil)
			mockDB.On("DeleteClient", mock.Anything, clientID).Return(nil)

			rr := httptest.NewRecorder()
			svc.DeleteClientService(rr, newRequest(t, http.MethodDelete, "/clients/"+clientID.String(), nil, &claims, vars))

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusForbidden {
				mockDB.AssertNotCalled(t, "DeleteClient", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUpdateClientKeepsOwner(t *testing.T) {
	svc, mockDB := newTestService()
	owner := uuid.New()
	clientID := uuid.New()
	claims := claimsFor(owner, "agent")
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	mockDB.On("GetClient", mock.Anything, clientID).
		Return(&models.Client{ID: clientID, Name: "Acme", CreatedBy: owner, CreatedAt: created}, nil)
	mockDB.On("UpdateClient", mock.Anything, mock.MatchedBy(func(c models.Client) bool {
		return c.ID == clientID && c.CreatedBy == owner && c.CreatedAt.Equal(created) && c.Name == "Acme Ltd"
	})).Return(&models.Client{ID: clientID, Name: "Acme Ltd", CreatedBy: owner}, nil)

	rr := httptest.NewRecorder()
	svc.UpdateClientService(rr, newRequest(t, http.MethodPut, "/clients/"+clientID.String(),
		map[string]string{"name": "Acme Ltd"}, &claims, map[string]string{"client-id": clientID.String()}))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestCreateClientRefreshesCachedList(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCache := cache.NewRedis(mr.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { redisCache.Close() })

	svc, mockDB := newTestService()
	svc.Cache = redisCache
	agentID := uuid.New()
	claims := claimsFor(agentID, "agent")
	created := &models.Client{ID: uuid.New(), Name: "Acme", CreatedBy: agentID}

	mockDB.On("ListClients", mock.Anything, mock.Anything).Return([]models.Client{}, nil).Once()
	mockDB.On("CreateClient", mock.Anything, mock.Anything).Return(created, nil)
	mockDB.On("ListClients", mock.Anything, mock.Anything).Return([]models.Client{*created}, nil).Once()

	rr := httptest.NewRecorder()
	svc.ListClientsService(rr, newRequest(t, http.MethodGet, "/clients", nil, &claims, nil))
	require.JSONEq(t, `[]`, rr.Body.String())

	rr = httptest.NewRecorder()
	svc.CreateClientService(rr, newRequest(t, http.MethodPost, "/clients", map[string]string{"name": "Acme"}, &claims, nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	svc.ListClientsService(rr, newRequest(t, http.MethodGet, "/clients", nil, &claims, nil))
	assert.Contains(t, rr.Body.String(), "Acme")
	mockDB.AssertNumberOfCalls(t, "ListClients", 2)
}

func TestDeleteClientDropsDependentLeadLists(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCache := cache.NewRedis(mr.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { redisCache.Close() })

	ctx := context.Background()
	leadsKey := cache.Key(db.TableLeads, "all")
	require.NoError(t, redisCache.SetJSON(ctx, db.TableLeads, leadsKey, []models.Lead{}))

	svc, mockDB := newTestService()
	svc.Cache = redisCache
	owner := uuid.New()
	clientID := uuid.New()
	claims := claimsFor(owner, "agent")
	mockDB.On("GetClient", mock.Anything, clientID).Return(&models.Client{ID: clientID, Name: "Acme", CreatedBy: owner}, nil)
	mockDB.On("DeleteClient", mock.Anything, clientID).Return(nil)

	rr := httptest.NewRecorder()
	svc.DeleteClientService(rr, newRequest(t, http.MethodDelete, "/clients/"+clientID.String(), nil, &claims,
		map[string]string{"client-id": clientID.String()}))
	require.Equal(t, http.StatusNoContent, rr.Code)

	var leads []models.Lead
	hit, err := redisCache.GetJSON(ctx, leadsKey, &leads)
	require.NoError(t, err)
	assert.False(t, hit)
}
