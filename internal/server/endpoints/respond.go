package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/pdfcheck"
	"github.com/jackzampolin/docket/internal/predefined"
	"github.com/jackzampolin/docket/internal/qr"
	"github.com/jackzampolin/docket/internal/sections"
	"github.com/jackzampolin/docket/internal/session"
	"github.com/jackzampolin/docket/internal/svcctx"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var missing *composer.MissingResourceError
	var badColor *composer.InvalidColorError
	switch {
	case errors.As(err, &missing):
		return http.StatusInternalServerError
	case errors.As(err, &badColor),
		errors.Is(err, composer.ErrEmptyDocument),
		errors.Is(err, sections.ErrEmptyName),
		errors.Is(err, errInvalidIndex),
		errors.Is(err, predefined.ErrInvalid),
		errors.Is(err, qr.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, sections.ErrIndexOutOfRange),
		errors.Is(err, predefined.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeErr writes err with the status statusFor picks. Server-side
// failures are logged.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		svcctx.LoggerFrom(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

// writePDF validates data and sends it as an attachment. Bytes that fail
// validation are never sent.
func writePDF(w http.ResponseWriter, r *http.Request, filename string, data []byte) {
	info, err := pdfcheck.Inspect(data)
	if err != nil {
		writeErr(w, r, fmt.Errorf("generated PDF failed validation: %w", err))
		return
	}
	svcctx.LoggerFrom(r.Context()).Debug("sending PDF", "filename", filename, "pages", info.Pages, "bytes", info.Size)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// requireServices writes 503 and returns nil when the request carries no
// services.
func requireServices(w http.ResponseWriter, r *http.Request) *svcctx.Services {
	svcs := svcctx.ServicesFrom(r.Context())
	if svcs == nil || svcs.Sessions == nil || svcs.Predefined == nil {
		writeError(w, http.StatusServiceUnavailable, "server not initialized")
		return nil
	}
	return svcs
}

var errInvalidIndex = errors.New("index must be a number")

// pathIndex parses the {index} path value.
func pathIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidIndex, raw)
	}
	return i, nil
}

// queryBool reads a boolean query parameter; anything unparseable is false.
func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
