// Package response writes JSON bodies. Success payloads are written as-is;
// errors use a problem body:
//
//	{"status":404,"error":"Not Found","detail":"Order 7 not found"}
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/logitrack/pkg/apperr"
)

// Problem is the error body returned for every non-2xx response.
type Problem struct {
	Status int               `json:"status"`
	Error  string            `json:"error"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Error writes a problem body titled with the standard status text.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, Problem{Status: status, Error: http.StatusText(status), Detail: detail})
}

// ValidationError writes a 400 with field-level messages.
func ValidationError(w http.ResponseWriter, detail string, errs map[string]string) {
	JSON(w, http.StatusBadRequest, Problem{
		Status: http.StatusBadRequest,
		Error:  "Validation failed",
		Detail: detail,
		Errors: errs,
	})
}

// FromError maps err to a problem body. Internal errors never leak their
// cause to the client.
func FromError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindInternal {
		Error(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if ae.Kind == apperr.KindValidation {
		ValidationError(w, ae.Message, ae.Fields)
		return
	}
	Error(w, ae.Kind.Status(), ae.Message)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, detail string) {
	Error(w, http.StatusUnauthorized, detail)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, detail string) {
	Error(w, http.StatusForbidden, detail)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, detail string) {
	Error(w, http.StatusNotFound, detail)
}
