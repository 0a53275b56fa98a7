package services

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
)

// profileFromClaims builds the profile stored on a user's first request.
func profileFromClaims(c caller) models.UserProfile {
	p := models.UserProfile{
		ID:       c.ID,
		FullName: c.Claims.UserMetadata.FullName,
		Email:    c.Claims.Email,
		Role:     c.Claims.Role(),
	}
	if p.FullName == "" {
		p.FullName = c.Claims.Email
	}
	if c.Claims.Phone != "" {
		phone := c.Claims.Phone
		p.Phone = &phone
	}
	if models.Contains(models.TeamTypes, c.Claims.AppMetadata.TeamType) {
		team := c.Claims.AppMetadata.TeamType
		p.TeamType = &team
	}
	return p
}

// GetProfileService returns the caller's profile, creating it from the token claims
// the first time the user is seen.
func (svc *Service) GetProfileService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	profile, err := svc.DB.EnsureProfile(r.Context(), profileFromClaims(c))
	if err != nil {
		fail(w, r, err, "Failed to retrieve profile")
		return
	}

	WriteResponse(w, http.StatusOK, profile)
}

// UpdateProfileService updates the caller's name, phone and team. The role is managed
// by the identity provider and cannot be changed here.
func (svc *Service) UpdateProfileService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var payload models.UserProfile
	if !decode(w, r, &payload) {
		return
	}

	current, err := svc.DB.EnsureProfile(r.Context(), profileFromClaims(c))
	if err != nil {
		fail(w, r, err, "Failed to retrieve profile")
		return
	}

	updated := *current
	if payload.FullName != "" {
		updated.FullName = payload.FullName
	}
	if payload.Phone != nil {
		updated.Phone = payload.Phone
	}
	if payload.TeamType != nil {
		updated.TeamType = payload.TeamType
	}
	if err := updated.Validate(); err != nil {
		fail(w, r, err, "Invalid profile")
		return
	}

	profile, err := svc.DB.UpdateProfile(r.Context(), updated)
	if err != nil {
		fail(w, r, err, "Failed to update profile")
		return
	}
	svc.invalidate(r.Context(), db.TableProfiles)

	logger.Info().Str("user_id", c.ID.String()).Msg("Profile updated successfully")
	WriteResponse(w, http.StatusOK, profile)
}

// ListUsersService lists every profile, optionally filtered by team.
func (svc *Service) ListUsersService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if !c.privileged() {
		HandleErrResponse(w, http.StatusForbidden, errForbidden)
		return
	}

	teamType := r.URL.Query().Get("team_type")
	if err := validation.Validate(teamType, validation.In(
		models.TeamSales, models.TeamMarketing, models.TeamSupport)); err != nil {
		fail(w, r, validation.Errors{"team_type": err}, "Invalid user filter")
		return
	}

	profiles, err := svc.DB.ListProfiles(r.Context(), teamType)
	if err != nil {
		fail(w, r, err, "Failed to retrieve users")
		return
	}
	if profiles == nil {
		profiles = []models.UserProfile{}
	}

	WriteResponse(w, http.StatusOK, profiles)
}
