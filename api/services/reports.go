package services

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/rs/zerolog"
)

// SubmitReportService saves the caller's daily report. Submitting again for the same
// day and team replaces the earlier report.
func (svc *Service) SubmitReportService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.DailyReport
	if !decode(w, r, &payload) {
		return
	}
	payload.UserID = c.ID
	if payload.TeamType == "" {
		payload.TeamType = c.Claims.AppMetadata.TeamType
	}
	if payload.ReportDate.IsZero() {
		payload.ReportDate = svc.now().In(svc.attendanceConfig().Location())
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid daily report")
		return
	}

	report, err := svc.DB.SubmitReport(r.Context(), payload)
	if err != nil {
		fail(w, r, err, "Failed to save daily report")
		return
	}

	logger.Info().Str("report_id", report.ID.String()).Str("team_type", report.TeamType).Msg("Daily report submitted")
	WriteResponse(w, http.StatusCreated, report)
}

// reportFilter reads the report filter. Agents are always limited to their own reports.
func reportFilter(svc *Service, w http.ResponseWriter, r *http.Request, c caller) (models.ReportFilter, bool) {
	filter := models.ReportFilter{TeamType: r.URL.Query().Get("team_type")}

	var err error
	if filter.UserID, err = queryUUID(r, "user_id"); err != nil {
		fail(w, r, err, "Invalid report filter")
		return filter, false
	}
	if !c.privileged() {
		filter.UserID = c.scope()
	}
	if filter.From, filter.To, err = dateRange(r, svc.now()); err != nil {
		fail(w, r, err, "Invalid report filter")
		return filter, false
	}
	if err := filter.Validate(); err != nil {
		fail(w, r, err, "Invalid report filter")
		return filter, false
	}
	return filter, true
}

// ListReportsService lists daily reports in a date range.
func (svc *Service) ListReportsService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}
	filter, ok := reportFilter(svc, w, r, c)
	if !ok {
		return
	}

	reports, err := svc.DB.ListReports(r.Context(), filter)
	if err != nil {
		fail(w, r, err, "Failed to retrieve daily reports")
		return
	}
	if reports == nil {
		reports = []models.DailyReport{}
	}

	WriteResponse(w, http.StatusOK, reports)
}

// SummarizeReportsService totals report counters for a team over a date range.
func (svc *Service) SummarizeReportsService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}
	filter, ok := reportFilter(svc, w, r, c)
	if !ok {
		return
	}

	summary, err := svc.DB.SummarizeReports(r.Context(), filter)
	if err != nil {
		fail(w, r, err, "Failed to summarize daily reports")
		return
	}

	WriteResponse(w, http.StatusOK, summary)
}
