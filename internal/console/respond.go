package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/printdesk/internal/apiclient"
	"github.com/Simplici0/printdesk/internal/drafts"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/session"
)

// statusError is an error that already knows its HTTP status.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string { return e.Message }

var (
	errNoBranch        = &statusError{http.StatusConflict, "no branch selected"}
	errBranchNotFound  = &statusError{http.StatusNotFound, "branch not found"}
	errUnknownList     = &statusError{http.StatusNotFound, "unknown pricing list"}
	errIndexOutOfRange = &statusError{http.StatusNotFound, "no entry at that index"}
)

func badRequest(format string, args ...any) error {
	return &statusError{http.StatusBadRequest, fmt.Sprintf(format, args...)}
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// fail maps err onto a response. Backend errors keep their status and
// message; anything unrecognized is logged and reported as 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		serr *statusError
		verr *pricing.ValidationError
		ferr validator.ValidationErrors
		herr *apiclient.HTTPError
		terr *apiclient.TransportError
	)
	switch {
	case errors.As(err, &serr):
		respondError(w, serr.Status, serr.Message)
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "invalid pricing config",
			"fields": verr.Fields,
		})
	case errors.As(err, &ferr):
		fields := make([]string, 0, len(ferr))
		for _, fe := range ferr {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "invalid request",
			"fields": fields,
		})
	case isQuoteError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &herr):
		respondError(w, herr.StatusCode, herr.Error())
	case errors.As(err, &terr):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("backend unreachable")
		respondError(w, http.StatusBadGateway, "backend unavailable")
	case errors.Is(err, session.ErrSwitchInProgress):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, drafts.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isQuoteError(err error) bool {
	for _, target := range []error{
		pricing.ErrUnknownBaseConfiguration,
		pricing.ErrUnknownOption,
		pricing.ErrOptionDisabled,
		pricing.ErrUnknownCustomSpecification,
		pricing.ErrInvalidQuantity,
		pricing.ErrInvalidArea,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
