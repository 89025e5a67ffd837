// Package httputil provides the JSON plumbing shared by the qswap HTTP API.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] turns any
// error into a `{"code": ..., "message": ...}` body, choosing the status from
// the error's [errors.Code] with [StatusFor]:
//
//	if err := httputil.DecodeJSON(w, r, &req, httputil.MaxBodyBytes); err != nil {
//	    httputil.WriteError(w, err)
//	    return
//	}
//	httputil.WriteJSON(w, http.StatusOK, resp)
//
// Rate-limited errors ([errors.RateLimitedError]) also set Retry-After.
//
// [errors.Code]: github.com/matzehuels/qswap/pkg/errors.Code
// [errors.RateLimitedError]: github.com/matzehuels/qswap/pkg/errors.RateLimitedError
package httputil
