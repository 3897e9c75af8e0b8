package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/mnkgame-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeCannotJoin      = "CANNOT_JOIN"
	CodeIllegalMove     = "ILLEGAL_MOVE"
	CodeCannotAbort     = "CANNOT_ABORT"
	CodeCannotLeave     = "CANNOT_LEAVE"
	CodeLoginFailed     = "LOGIN_FAILED"
	CodeRegisterFailed  = "REGISTER_FAILED"
	CodeInvalidNickname = "INVALID_NICKNAME"
	CodeInvalidRuleSet  = "INVALID_RULE_SET"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeRuleSetNotFound = "RULE_SET_NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map engine error kinds; the wrapped detail carries the reason
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrRuleSetNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRuleSetNotFound, "Rule set not found"}}
	case errors.Is(err, model.ErrJoin):
		return &httpError{http.StatusConflict, APIError{CodeCannotJoin, err.Error()}}
	case errors.Is(err, model.ErrMove):
		return &httpError{http.StatusConflict, APIError{CodeIllegalMove, err.Error()}}
	case errors.Is(err, model.ErrAbort):
		return &httpError{http.StatusConflict, APIError{CodeCannotAbort, err.Error()}}
	case errors.Is(err, model.ErrLeave):
		return &httpError{http.StatusConflict, APIError{CodeCannotLeave, err.Error()}}
	case errors.Is(err, model.ErrLogin):
		return &httpError{http.StatusUnauthorized, APIError{CodeLoginFailed, "Invalid nickname or password"}}
	case errors.Is(err, model.ErrRegister):
		return &httpError{http.StatusBadRequest, APIError{CodeRegisterFailed, err.Error()}}
	case errors.Is(err, model.ErrPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidNickname, err.Error()}}
	case errors.Is(err, model.ErrInvalidRuleSet):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRuleSet, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
