package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary Submit a daily report
// @Description Submitting again for the same day replaces the earlier report.
// @Tags daily-reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.DailyReport true "Report"
// @Success 201 {object} models.DailyReport
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /daily-reports [post]
func SubmitReport(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.SubmitReportService(w, r)
	}
}

// @Summary List daily reports
// @Tags daily-reports
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID (managers and admins)"
// @Param team_type query string false "Team type"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {array} models.DailyReport
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /daily-reports [get]
func ListReports(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListReportsService(w, r)
	}
}

// @Summary Summarize daily reports
// @Description Team totals for a date range.
// @Tags daily-reports
// @Produce json
// @Security BearerAuth
// @Param team_type query string false "Team type"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} models.ReportSummary
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /daily-reports/summary [get]
func SummarizeReports(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.SummarizeReportsService(w, r)
	}
}
