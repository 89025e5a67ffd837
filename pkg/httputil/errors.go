package httputil

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/qswap/pkg/errors"
)

// ErrorResponse is the body written for failed requests.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

var statuses = map[errors.Code]int{
	errors.ErrCodeInvalidInput:       http.StatusBadRequest,
	errors.ErrCodeMalformedInput:     http.StatusBadRequest,
	errors.ErrCodeInvalidTopology:    http.StatusBadRequest,
	errors.ErrCodeInvalidConfig:      http.StatusBadRequest,
	errors.ErrCodeInvalidPath:        http.StatusBadRequest,
	errors.ErrCodeNotFound:           http.StatusNotFound,
	errors.ErrCodeFileNotFound:       http.StatusNotFound,
	errors.ErrCodeCandidateExhausted: http.StatusUnprocessableEntity,
	errors.ErrCodeNoPath:             http.StatusUnprocessableEntity,
	errors.ErrCodeTimeout:            http.StatusGatewayTimeout,
	errors.ErrCodeRateLimited:        http.StatusTooManyRequests,
	errors.ErrCodeUnsupported:        http.StatusNotImplemented,
	errors.ErrCodeInvariant:          http.StatusInternalServerError,
	errors.ErrCodeInternal:           http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for an error code. Unknown codes map to
// 500.
func StatusFor(code errors.Code) int {
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WriteError writes err as an ErrorResponse. Errors without a code are
// reported as INTERNAL_ERROR with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) {
		if rl.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		}
		WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{Code: rl.Code(), Message: rl.Error()})
		return
	}
	if stderrors.Is(err, context.Canceled) {
		// Client went away; the status is never read.
		WriteJSON(w, 499, ErrorResponse{Code: errors.ErrCodeTimeout, Message: "request cancelled"})
		return
	}

	code := errors.GetCode(err)
	if code == "" {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Code: errors.ErrCodeInternal, Message: "internal server error"})
		return
	}
	WriteJSON(w, StatusFor(code), ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}
