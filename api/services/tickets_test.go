package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/appconfig"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUpdateTicketInvalidTransition(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	ticketID := uuid.New()
	claims := claimsFor(agentID, "agent")

	mockDB.On("GetTicket", mock.Anything, ticketID).Return(&models.Ticket{
		ID: ticketID, AssignedTo: &agentID, Subject: "Broken invoice", Status: models.TicketClosed,
		Priority: models.PriorityLow, Channel: models.ChannelEmail,
	}, nil)

	rr := httptest.NewRecorder()
	svc.UpdateTicketService(rr, newRequest(t, http.MethodPatch, "/tickets/x", models.Ticket{Status: models.TicketOpen},
		&claims, map[string]string{"ticket-id": ticketID.String()}))

	assert.Equal(t, http.StatusConflict, rr.Code)
	mockDB.AssertNotCalled(t, "UpdateTicket")
}

func TestUpdateTicketResolve(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	ticketID := uuid.New()
	claims := claimsFor(agentID, "agent")

	mockDB.On("GetTicket", mock.Anything, ticketID).Return(&models.Ticket{
		ID: ticketID, AssignedTo: &agentID, Subject: "Broken invoice", Status: models.TicketInProgress,
		Priority: models.PriorityLow, Channel: models.ChannelEmail,
	}, nil)
	mockDB.On("UpdateTicket", mock.Anything, mock.MatchedBy(func(tk models.Ticket) bool {
		return tk.Status == models.TicketResolved && tk.ResolvedAt != nil && tk.ResolvedAt.Equal(testNow)
	}), (*models.Notification)(nil)).Return(&models.Ticket{ID: ticketID, Status: models.TicketResolved}, nil)

	rr := httptest.NewRecorder()
	svc.UpdateTicketService(rr, newRequest(t, http.MethodPatch, "/tickets/x", models.Ticket{Status: models.TicketResolved},
		&claims, map[string]string{"ticket-id": ticketID.String()}))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestUpdateTicketReassign(t *testing.T) {
	agentID := uuid.New()
	newAgent := uuid.New()
	ticketID := uuid.New()
	current := &models.Ticket{
		ID: ticketID, AssignedTo: &agentID, Subject: "Login fails", Status: models.TicketOpen,
		Priority: models.PriorityHigh, Channel: models.ChannelChat,
	}
	vars := map[string]string{"ticket-id": ticketID.String()}

	t.Run("agent forbidden", func(t *testing.T) {
		svc, mockDB := newTestService()
		claims := claimsFor(agentID, "agent")
		mockDB.On("GetTicket", mock.Anything, ticketID).Return(current, nil)

		rr := httptest.NewRecorder()
		svc.UpdateTicketService(rr, newRequest(t, http.MethodPatch, "/tickets/x", models.Ticket{AssignedTo: &newAgent}, &claims, vars))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("manager alerts assignee", func(t *testing.T) {
		svc, mockDB := newTestService()
		claims := claimsFor(uuid.New(), "manager")
		copied := *current
		mockDB.On("GetTicket", mock.Anything, ticketID).Return(&copied, nil)
		mockDB.On("UpdateTicket", mock.Anything, mock.MatchedBy(func(tk models.Ticket) bool {
			return *tk.AssignedTo == newAgent
		}), mock.MatchedBy(func(n *models.Notification) bool {
			return n != nil && n.UserID == newAgent && n.EntityType == models.EntityTicket && n.ScheduledFor.Equal(testNow)
		})).Return(&models.Ticket{ID: ticketID, AssignedTo: &newAgent}, nil)

		rr := httptest.NewRecorder()
		svc.UpdateTicketService(rr, newRequest(t, http.MethodPatch, "/tickets/x", models.Ticket{AssignedTo: &newAgent}, &claims, vars))
		assert.Equal(t, http.StatusOK, rr.Code)
		mockDB.AssertExpectations(t)
	})
}

func inboundRequest(body, secret string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/tickets/inbound", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	return req
}

func TestInboundTicket(t *testing.T) {
	withSecret := func() (*Service, *MockCRMDB) {
		svc, mockDB := newTestService()
		svc.Config = &appconfig.Config{Webhook: appconfig.WebhookConfig{Secret: "s3cret"}}
		return svc, mockDB
	}
	valid := `{"subject":"Refund request","requesterEmail":"jo@example.com","channel":"email","priority":"high"}`

	t.Run("disabled without secret", func(t *testing.T) {
		svc, _ := newTestService()
		rr := httptest.NewRecorder()
		svc.InboundTicketService(rr, inboundRequest(valid, "anything"))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("bad secret", func(t *testing.T) {
		svc, mockDB := withSecret()
		rr := httptest.NewRecorder()
		svc.InboundTicketService(rr, inboundRequest(valid, "wrong"))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockDB.AssertNotCalled(t, "CreateTicket")
	})

	t.Run("schema violation", func(t *testing.T) {
		svc, mockDB := withSecret()
		rr := httptest.NewRecorder()
		svc.InboundTicketService(rr, inboundRequest(`{"subject":"","channel":"fax"}`, "s3cret"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp models.Response
		decodeBody(t, rr, &resp)
		assert.Equal(t, "validation_failed", resp.ErrorCode)
		assert.Contains(t, resp.Fields, "channel")
		mockDB.AssertNotCalled(t, "CreateTicket")
	})

	t.Run("not json", func(t *testing.T) {
		svc, _ := withSecret()
		rr := httptest.NewRecorder()
		svc.InboundTicketService(rr, inboundRequest(`subject=hi`, "s3cret"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("created unassigned", func(t *testing.T) {
		svc, mockDB := withSecret()
		mockDB.On("CreateTicket", mock.Anything, mock.MatchedBy(func(tk models.Ticket) bool {
			return tk.AssignedTo == nil && tk.Status == models.TicketOpen &&
				tk.Priority == models.PriorityHigh && tk.Channel == models.ChannelEmail
		}), (*models.Notification)(nil)).Return(&models.Ticket{ID: uuid.New(), Channel: models.ChannelEmail}, nil)

		rr := httptest.NewRecorder()
		svc.InboundTicketService(rr, inboundRequest(valid, "s3cret"))
		assert.Equal(t, http.StatusCreated, rr.Code)
		mockDB.AssertExpectations(t)
	})
}
