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

func TestGetProfileCreatesFromClaims(t *testing.T) {
	svc, mockDB := newTestService()
	userID := uuid.New()
	claims := claimsFor(userID, "agent")
	claims.Email = "ada@example.com"
	claims.AppMetadata.TeamType = "sales"

	mockDB.On("EnsureProfile", mock.Anything, mock.MatchedBy(func(p models.UserProfile) bool {
		// Without a full name the email stands in
		return p.ID == userID && p.FullName == "ada@example.com" && p.Role == "agent" &&
			p.TeamType != nil && *p.TeamType == "sales" && p.Phone == nil
	})).Return(&models.UserProfile{ID: userID, FullName: "ada@example.com", Role: "agent"}, nil)

	rr := httptest.NewRecorder()
	svc.GetProfileService(rr, newRequest(t, http.MethodGet, "/profile", nil, &claims, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestUpdateProfileKeepsRole(t *testing.T) {
	svc, mockDB := newTestService()
	userID := uuid.New()
	claims := claimsFor(userID, "agent")
	claims.Email = "ada@example.com"

	current := &models.UserProfile{ID: userID, FullName: "Ada", Email: "ada@example.com", Role: "agent"}
	mockDB.On("EnsureProfile", mock.Anything, mock.Anything).Return(current, nil)
	mockDB.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(p models.UserProfile) bool {
		return p.FullName == "Ada Lovelace" && p.Role == "agent"
	})).Return(&models.UserProfile{ID: userID, FullName: "Ada Lovelace", Role: "agent"}, nil)

	body := map[string]string{"fullName": "Ada Lovelace", "role": "admin"}
	rr := httptest.NewRecorder()
	svc.UpdateProfileService(rr, newRequest(t, http.MethodPut, "/profile", body, &claims, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestUpdateProfileInvalidTeam(t *testing.T) {
	svc, mockDB := newTestService()
	userID := uuid.New()
	claims := claimsFor(userID, "agent")

	mockDB.On("EnsureProfile", mock.Anything, mock.Anything).
		Return(&models.UserProfile{ID: userID, FullName: "Ada", Email: "ada@example.com", Role: "agent"}, nil)

	rr := httptest.NewRecorder()
	svc.UpdateProfileService(rr, newRequest(t, http.MethodPut, "/profile", map[string]string{"teamType": "finance"}, &claims, nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp models.Response
	decodeBody(t, rr, &resp)
	assert.Contains(t, resp.Fields, "teamType")
	mockDB.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}

func TestListUsers(t *testing.T) {
	t.Run("agents are forbidden", func(t *testing.T) {
		svc, mockDB := newTestService()
		claims := claimsFor(uuid.New(), "agent")

		rr := httptest.NewRecorder()
		svc.ListUsersService(rr, newRequest(t, http.MethodGet, "/users", nil, &claims, nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockDB.AssertNotCalled(t, "ListProfiles", mock.Anything, mock.Anything)
	})

	t.Run("unknown team", func(t *testing.T) {
		svc, _ := newTestService()
		claims := claimsFor(uuid.New(), "manager")

		rr := httptest.NewRecorder()
		svc.ListUsersService(rr, newRequest(t, http.MethodGet, "/users?team_type=finance", nil, &claims, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		svc, mockDB := newTestService()
		claims := claimsFor(uuid.New(), "admin")
		mockDB.On("ListProfiles", mock.Anything, "support").Return(nil, nil)

		rr := httptest.NewRecorder()
		svc.ListUsersService(rr, newRequest(t, http.MethodGet, "/users?team_type=support", nil, &claims, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}
