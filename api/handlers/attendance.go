package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary Check in
// @Description Record the caller's arrival for today.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.AttendanceRequest false "Notes"
// @Success 201 {object} models.Attendance
// @Failure 401 {object} models.Response
// @Failure 409 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /attendance/check-in [post]
func CheckIn(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CheckInService(w, r)
	}
}

// @Summary Check out
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.AttendanceRequest false "Notes"
// @Success 200 {object} models.Attendance
// @Failure 401 {object} models.Response
// @Failure 409 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /attendance/check-out [post]
func CheckOut(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CheckOutService(w, r)
	}
}

// @Summary List attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID (managers and admins)"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {array} models.Attendance
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /attendance [get]
func ListAttendance(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListAttendanceService(w, r)
	}
}
