package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts PostgreSQL, points DATABASE_URL at it and returns a migrated CRMDB.
func setupPostgresContainer(t *testing.T) *CRMDB {
	t.Helper()
	ctx := context.Background()

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:13",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "crm",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("could not start container: %s", err)
	}
	t.Cleanup(func() { postgresC.Terminate(ctx) })

	host, _ := postgresC.Host(ctx)
	port, _ := postgresC.MappedPort(ctx, "5432/tcp")
	t.Setenv("DATABASE_URL", fmt.Sprintf("postgres://postgres:postgres@%s:%s/crm?sslmode=disable", host, port.Port()))

	logger := zerolog.Nop()
	crm, err := NewCRMDB(events.NopNotifier{}, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { crm.Close() })

	require.NoError(t, crm.Migrate())
	return crm
}

func TestCRMRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	crm := setupPostgresContainer(t)
	ctx := context.Background()

	agentID := uuid.New()
	team := models.TeamSales
	profile, err := crm.EnsureProfile(ctx, models.UserProfile{
		ID: agentID, FullName: "Agent Smith", Email: "smith@example.com", Role: models.RoleAgent, TeamType: &team,
	})
	require.NoError(t, err)
	assert.Equal(t, "Agent Smith", profile.FullName)

	// A second ensure keeps the stored row.
	profile, err = crm.EnsureProfile(ctx, models.UserProfile{ID: agentID, FullName: "Changed", Email: "smith@example.com", Role: models.RoleAgent})
	require.NoError(t, err)
	assert.Equal(t, "Agent Smith", profile.FullName)

	client, err := crm.CreateClient(ctx, models.Client{Name: "Acme", CreatedBy: agentID})
	require.NoError(t, err)

	lead, err := crm.CreateLead(ctx, models.Lead{
		ClientID: &client.ID, AssignedTo: agentID, Title: "Acme rollout", ContactName: "Road Runner",
		Source: models.LeadSourceReferral, Status: models.LeadStatusNew, DealValue: 120000, Temperature: models.TemperatureCold,
	})
	require.NoError(t, err)

	due := time.Now().Add(20 * time.Minute).UTC().Truncate(time.Second)
	reminder := models.NewReminder(agentID, models.EntityFollowUp, uuid.Nil, "Follow-up due", "Call Road Runner", due, 10)
	followUp, err := crm.CreateFollowUp(ctx, models.FollowUp{
		LeadID: lead.ID, AssignedTo: agentID, Type: models.FollowUpTypeCall, DueDate: due, Status: models.FollowUpStatusPending,
	}, reminder)
	require.NoError(t, err)

	pending, err := crm.PendingNotifications(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, followUp.ID, pending[0].EntityID)

	followUp.Status = models.FollowUpStatusCompleted
	now := time.Now().UTC()
	followUp.CompletedAt = &now
	_, err = crm.UpdateFollowUp(ctx, *followUp, nil)
	require.NoError(t, err)

	pending, err = crm.PendingNotifications(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, pending)

	activity, err := crm.GetLeadActivity(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, activity.CompletedFollowUps)

	checkIn := time.Now().UTC()
	_, err = crm.CheckIn(ctx, models.Attendance{UserID: agentID, WorkDate: checkIn, CheckIn: &checkIn, Status: models.AttendancePresent})
	require.NoError(t, err)
	_, err = crm.CheckIn(ctx, models.Attendance{UserID: agentID, WorkDate: checkIn, CheckIn: &checkIn, Status: models.AttendancePresent})
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	report := models.DailyReport{UserID: agentID, TeamType: team, ReportDate: checkIn, CallsMade: 3}
	_, err = crm.SubmitReport(ctx, report)
	require.NoError(t, err)
	report.CallsMade = 5
	_, err = crm.SubmitReport(ctx, report)
	require.NoError(t, err)

	summary, err := crm.SummarizeReports(ctx, models.ReportFilter{TeamType: team, From: checkIn.AddDate(0, 0, -1), To: checkIn})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Reports)
	assert.Equal(t, 5, summary.CallsMade)

	require.NoError(t, crm.DeleteLead(ctx, lead.ID))
	gone, err := crm.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
