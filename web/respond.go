// ABOUTME: JSON request and response helpers for the API
// ABOUTME: Maps domain error codes to HTTP statuses and parses integer ids
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/harperreed/prospect/apperr"
	"github.com/oklog/ulid/v2"
)

const correlationHeader = "X-Correlation-Id"

type correlationKey struct{}

// withCorrelation reuses the caller's correlation id or mints a ULID, and
// echoes it on the response.
func (s *Server) withCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(correlationHeader))
		if id == "" {
			id = ulid.Make().String()
		}
		w.Header().Set(correlationHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), correlationKey{}, id)))
	})
}

func correlationID(r *http.Request) string {
	if id, ok := r.Context().Value(correlationKey{}).(string); ok {
		return id
	}
	return r.Header.Get(correlationHeader)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message, correlationID string) {
	writeJSON(w, status, map[string]any{
		"code":          code,
		"message":       message,
		"correlationId": correlationID,
	})
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidInput:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes a domain error. Store failures never leak their cause.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	writeError(w, statusFor(code), string(code), apperr.PublicMessage(err), correlationID(r))
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, http.StatusBadRequest, string(apperr.CodeInvalidInput), message, correlationID(r))
}

// decodeJSONBody reads at most maxBodyBytes into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func (s *Server) decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, string(apperr.CodeInvalidInput),
				"request body exceeds limit", correlationID(r))
			return false
		}
		s.badRequest(w, r, "failed to read request body")
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if allowEmpty {
			return true
		}
		s.badRequest(w, r, "request body is required")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		s.badRequest(w, r, "invalid json body")
		return false
	}
	return true
}

// pathID parses a positive integer path parameter.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.badRequest(w, r, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// flexID accepts a JSON number or a numeric string.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return apperr.InvalidInput("id must be an integer, got %s", string(data))
	}
	*f = flexID(n)
	return nil
}
