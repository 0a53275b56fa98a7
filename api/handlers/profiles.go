package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary Get own profile
// @Description Return the caller's profile, creating it from the token claims on first use.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserProfile
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /profile [get]
func GetProfile(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetProfileService(w, r)
	}
}

// @Summary Update own profile
// @Description Update the caller's name, phone and team. Role changes are not accepted.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.UserProfile true "Profile"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /profile [put]
func UpdateProfile(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateProfileService(w, r)
	}
}

// @Summary List users
// @Description List user profiles, optionally of one team. Managers and admins only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param team_type query string false "Team type" Enums(sales, marketing, support)
// @Success 200 {array} models.UserProfile
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /users [get]
func ListUsers(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListUsersService(w, r)
	}
}
