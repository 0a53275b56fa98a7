package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/middleware"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/authn"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/metrics"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return // **Return immediately to avoid multiple WriteHeader calls**
		}
	}
}

// HandleErrResponse writes err as a JSON error body. Database and validation errors
// carry their code and per-field messages.
func HandleErrResponse(w http.ResponseWriter, statusCode int, err error) {
	var pqErr *pq.Error
	var fieldErrs validation.Errors
	response := models.Response{Success: 0, ErrorDetails: err.Error()}

	if errors.As(err, &pqErr) {
		response.ErrorCode = pqErr.Code.Name()
		response.ErrorDetails = pqErr.Message
	} else if errors.As(err, &fieldErrs) {
		response.ErrorCode = "validation_failed"
		response.ErrorDetails = "request validation failed"
		response.Fields = make(map[string]string, len(fieldErrs))
		for field, ferr := range fieldErrs {
			response.Fields[field] = ferr.Error()
		}
	}

	WriteResponse(w, statusCode, response)
}

// statusFor maps service and storage errors to HTTP status codes.
func statusFor(err error) int {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrConflict),
		errors.Is(err, db.ErrAlreadyCheckedIn),
		errors.Is(err, db.ErrAlreadyCheckedOut),
		errors.Is(err, db.ErrNotCheckedIn),
		errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes the matching error response. Internal errors are not echoed.
func fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger := zerolog.Ctx(r.Context())
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg(msg)
		HandleErrResponse(w, status, errors.New(msg))
		return
	}
	logger.Warn().Err(err).Msg(msg)
	HandleErrResponse(w, status, err)
}

// caller is the authenticated user of a request.
type caller struct {
	ID     uuid.UUID
	Claims authn.Claims
}

// privileged reports whether the caller may see and change every agent's rows.
func (c caller) privileged() bool {
	return c.Claims.IsPrivileged()
}

// owns reports whether the caller may access a row owned by owner.
func (c caller) owns(owner uuid.UUID) bool {
	return c.privileged() || c.ID == owner
}

// scope returns the owner filter for list queries: nil for privileged callers.
func (c caller) scope() *uuid.UUID {
	if c.privileged() {
		return nil
	}
	id := c.ID
	return &id
}

// callerFrom reads the claims set by the JWT middleware, writing 401 when absent.
func callerFrom(w http.ResponseWriter, r *http.Request) (caller, bool) {
	claims, ok := r.Context().Value(middleware.ClaimsKey).(authn.Claims)
	if !ok {
		zerolog.Ctx(r.Context()).Warn().Msg("Unauthorized request: missing claims")
		WriteResponse(w, http.StatusUnauthorized, nil)
		return caller{}, false
	}
	id, err := claims.UserID()
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Unauthorized request: invalid subject")
		WriteResponse(w, http.StatusUnauthorized, nil)
		return caller{}, false
	}
	return caller{ID: id, Claims: claims}, true
}

// pathID parses a UUID path variable, writing 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str(name, mux.Vars(r)[name]).Msg("Invalid path identifier")
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into dest, writing 400 when it cannot be parsed.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, errors.New("invalid request payload"))
		return false
	}
	return true
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, validation.Errors{name: errors.New("must be a valid UUID")}
	}
	return &id, nil
}

// queryTime parses an optional RFC 3339 timestamp or YYYY-MM-DD date query parameter.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, validation.Errors{name: errors.New("must be an RFC 3339 time or a YYYY-MM-DD date")}
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, validation.Errors{name: errors.New("must be an integer")}
	}
	return n, nil
}

// dateRange reads from/to query parameters, defaulting to the last 30 days.
func dateRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	from, err := queryTime(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryTime(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to == nil {
		to = &now
	}
	if from == nil {
		f := to.AddDate(0, 0, -30)
		from = &f
	}
	return *from, *to, nil
}

// cachedList serves a list query from the cache, loading and storing it on a miss.
// Cache failures are logged and the database is used.
func cachedList[T any](ctx context.Context, svc *Service, table, key string, load func() ([]T, error)) ([]T, error) {
	logger := zerolog.Ctx(ctx)

	var items []T
	if svc.Cache != nil {
		hit, err := svc.Cache.GetJSON(ctx, key, &items)
		switch {
		case err != nil:
			logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
			metrics.CacheLookups.WithLabelValues(table, "error").Inc()
		case hit:
			metrics.CacheLookups.WithLabelValues(table, "hit").Inc()
			return items, nil
		default:
			metrics.CacheLookups.WithLabelValues(table, "miss").Inc()
		}
	}

	items, err := load()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	if svc.Cache != nil {
		if err := svc.Cache.SetJSON(ctx, table, key, items); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return items, nil
}

// invalidate drops the cached lists a successful write has made stale. The change
// feed consumer repeats this for writes made by other replicas.
func (svc *Service) invalidate(ctx context.Context, tables ...string) {
	if svc.Cache == nil {
		return
	}
	affected := db.AffectedTables(tables...)
	if err := svc.Cache.Invalidate(ctx, affected...); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Strs("tables", affected).Msg("cache invalidation failed")
	}
}

// scopeKey renders an owner filter as a cache key part.
func scopeKey(id *uuid.UUID) string {
	if id == nil {
		return "all"
	}
	return id.String()
}

var (
	errForbidden = errors.New("forbidden: you do not have access to this resource")
	errNotFound  = errors.New("not found")
)

// notFound writes 404 for a missing or inaccessible row.
func notFound(w http.ResponseWriter, r *http.Request, what string) {
	zerolog.Ctx(r.Context()).Debug().Str("resource", what).Msg("Resource not found")
	HandleErrResponse(w, http.StatusNotFound, fmt.Errorf("%s %w", what, errNotFound))
}

// forbidden writes 403 for a row the caller may not access.
func forbidden(w http.ResponseWriter, r *http.Request, what string) {
	zerolog.Ctx(r.Context()).Warn().Str("resource", what).Msg("Forbidden: caller does not own resource")
	HandleErrResponse(w, http.StatusForbidden, errForbidden)
}
