package handle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/xpkg/logger"
)

var (
	errInternal  = errors.New("internal server error")
	errEmptyBody = errors.New("request body is empty")
)

// jsonResponse writes data as a JSON-encoded HTTP response with the given status code.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes an error response as JSON with the specified HTTP status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// serviceError maps service errors to status codes. Anything unknown is logged
// and reported as a generic server error.
func serviceError(w http.ResponseWriter, mylog logger.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		jsonError(w, http.StatusNotFound, err)
	case errors.Is(err, core.ErrUnauthorized), errors.Is(err, core.ErrInvalidLogin):
		jsonError(w, http.StatusUnauthorized, err)
	case errors.Is(err, core.ErrForbidden):
		jsonError(w, http.StatusForbidden, err)
	case errors.Is(err, core.ErrEmptyCart), errors.Is(err, core.ErrInvalidInput):
		jsonError(w, http.StatusBadRequest, err)
	case errors.Is(err, core.ErrConflict), errors.Is(err, core.ErrInvalidTransition):
		jsonError(w, http.StatusConflict, err)
	case errors.Is(err, core.ErrDBConn):
		mylog.Action("request_failed").Error("Database unavailable", err)
		jsonError(w, http.StatusServiceUnavailable, errInternal)
	default:
		mylog.Action("request_failed").Error("Unhandled service error", err)
		jsonError(w, http.StatusInternalServerError, errInternal)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return errors.New("failed to parse JSON")
	}
	return nil
}
