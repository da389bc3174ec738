package web

// errors.go provides unified error response handling for the web layer.
//
// Every error leaving a handler goes through respondError:
//  1. statusFor picks the HTTP status from the error chain
//  2. core.MapError turns the error into a user message with a support code
//  3. the technical error is logged with the request id
//  4. the client receives an ErrorResponse, never the raw error of a 5xx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/registros/internal/core"
	"github.com/JonMunkholm/registros/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Success  bool                `json:"success"`
	Error    string              `json:"error"`
	Message  string              `json:"message"`
	Action   string              `json:"action,omitempty"`
	Code     string              `json:"code"`
	Detail   string              `json:"detail,omitempty"`
	Problems []core.FieldProblem `json:"problems,omitempty"`
}

// requestError is a malformed request caught before reaching the service.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// statusFor maps an error to the HTTP status returned to the client.
func statusFor(err error) int {
	var reqErr *requestError
	var valErr *core.ValidationError

	switch {
	case errors.As(err, &reqErr), errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrNoRecords):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmailTaken),
		errors.Is(err, core.ErrInvalidEstudio),
		errors.Is(err, core.ErrUnsupportedFile),
		errors.Is(err, core.ErrFileTooLarge),
		errors.Is(err, core.ErrNoFile),
		errors.Is(err, core.ErrUnreadableFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-friendly JSON error. A zero status
// is derived from err with statusFor.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	if status == 0 {
		status = statusFor(err)
	}

	userMsg := core.MapError(err)
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		userMsg = core.UserMessage{
			Message: reqErr.msg,
			Action:  "Check the request parameters and try again.",
			Code:    "REQ001",
		}
	}

	logger := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)
	if status >= http.StatusInternalServerError {
		logger.Error("request error")
	} else {
		logger.Warn("request rejected")
	}

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	if status < http.StatusInternalServerError {
		resp.Detail = err.Error()
		var valErr *core.ValidationError
		if errors.As(err, &valErr) {
			resp.Problems = valErr.Problems
		}
	}

	writeJSON(w, status, resp)
}
