package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/handlers"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/appconfig"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/authn"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func testRouter(t *testing.T) (http.Handler, *services.MockCRMDB) {
	t.Helper()
	cfg := &appconfig.Config{BasePath: "/api", DocsPath: "/api/docs", Auth: appconfig.AuthConfig{JWTSecret: "secret"}}
	mockDB := new(services.MockCRMDB)
	svc := &services.Service{Config: cfg, DB: mockDB}
	return newRouter(svc, cfg, map[string]handlers.Pinger{"database": okPinger{}}), mockDB
}

func bearer(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	claims := authn.Claims{StandardClaims: jwt.StandardClaims{
		Subject:   userID.String(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}}
	claims.AppMetadata.Role = role
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouterRequiresToken(t *testing.T) {
	router, _ := testRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/leads", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouterPublicRoutes(t *testing.T) {
	router, _ := testRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	// The webhook skips the JWT middleware and is disabled without a secret
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/tickets/inbound", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRouterPathVariables(t *testing.T) {
	router, mockDB := testRouter(t)
	agentID := uuid.New()
	leadID := uuid.New()
	mockDB.On("GetLead", mock.Anything, leadID).Return(&models.Lead{ID: leadID, AssignedTo: agentID}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/"+leadID.String(), nil)
	req.Header.Set("Authorization", bearer(t, agentID, "agent"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestRouterReadAllIsNotAnID(t *testing.T) {
	router, mockDB := testRouter(t)
	userID := uuid.New()
	mockDB.On("MarkAllRead", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/read-all", nil)
	req.Header.Set("Authorization", bearer(t, userID, "agent"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"updated":3}`, rr.Body.String())
}
