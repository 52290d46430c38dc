package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const defaultJSONMaxBody = 1 << 20 // 1 MiB

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

type apiError struct {
	status  int
	code    string
	errCode int
	err     error
}

func (e apiError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e apiError) Unwrap() error {
	return e.err
}

func makeAPIError(status int, code string, errCode int, err error) error {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}

	var existing apiError
	if errors.As(err, &existing) {
		if existing.status != 0 {
			return existing
		}
	}

	return apiError{status: status, code: code, errCode: errCode, err: err}
}

func badRequest(err error) error {
	return badRequestCode(err, ErrCodeInvalidArgument)
}

func badRequestCode(err error, code int) error {
	return makeAPIError(http.StatusBadRequest, "invalid_argument", code, err)
}

func notFoundCode(err error, code int) error {
	return makeAPIError(http.StatusNotFound, "not_found", code, err)
}

func internalError(err error) error {
	return internalErrorCode(err, ErrCodeInternal)
}

func internalErrorCode(err error, code int) error {
	return makeAPIError(http.StatusInternalServerError, "internal", code, err)
}

func httpStatusFromError(err error) int {
	var e apiError
	if errors.As(err, &e) && e.status != 0 {
		return e.status
	}
	return http.StatusInternalServerError
}

func errorCode(status int, err error) string {
	var e apiError
	if errors.As(err, &e) && e.code != "" {
		return e.code
	}
	switch {
	case status >= 500:
		return "internal"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusUnauthorized:
		return "unauthorized"
	default:
		return "invalid_argument"
	}
}

func errorNumericCode(status int, err error) int {
	var e apiError
	if errors.As(err, &e) && e.errCode != 0 {
		return e.errCode
	}
	return defaultErrorCodeByStatus(status)
}

func (s *Server) writeErrorReq(w http.ResponseWriter, r *http.Request, status int, err error) {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}

	code := errorCode(status, err)
	numericCode := errorNumericCode(status, err)
	message := err.Error()

	fields := []any{"status", status, "code", code, "error_code", numericCode, "error", err}
	if r != nil {
		fields = append(fields, "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
	}

	switch {
	case status >= 500:
		s.log().Error("request error", fields...)
		message = "internal error"
	case status >= 400:
		s.log().Debug("request rejected", fields...)
	}

	s.writeJSON(w, status, ErrorResponse{Error: message, Code: code, ErrorCode: numericCode})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("write json response", "status", status, "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, defaultJSONMaxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if strings.Contains(err.Error(), "http: request body too large") {
			return makeAPIError(http.StatusRequestEntityTooLarge, "request_too_large", ErrCodeRequestTooLarge, err)
		}
		return badRequestCode(fmt.Errorf("invalid json: %w", err), ErrCodeInvalidJSON)
	}
	return nil
}
