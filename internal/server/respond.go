package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/errors"
)

// errorResponse is the standard error body for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding failures after WriteHeader cannot be reported to the client.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error onto an HTTP status and JSON body.
func writeError(w http.ResponseWriter, err error) {
	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) {
		if rl.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		}
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: rl.Error(),
			Code:  string(errors.ErrCodeRateLimited),
		})
		return
	}

	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound,
		errors.ErrCodePersonNotFound,
		errors.ErrCodeHouseNotFound,
		errors.ErrCodeEdgeNotFound,
		errors.ErrCodeDatasetNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidDate,
		errors.ErrCodeInvalidEdge,
		errors.ErrCodeInvalidPerson,
		errors.ErrCodeInvalidScope,
		errors.ErrCodeInvalidDataset,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeCircularAncestry,
		errors.ErrCodeSelfParent,
		errors.ErrCodeDuplicateEdge:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
