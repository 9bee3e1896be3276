package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/supertictactoe/internal/model"
)

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidBoardIndex   = "INVALID_BOARD_INDEX"
	CodeInvalidCellIndex    = "INVALID_CELL_INDEX"
	CodeInvalidPlayer       = "INVALID_PLAYER"
	CodeWrongBoard          = "WRONG_BOARD"
	CodeBoardAlreadyDecided = "BOARD_ALREADY_DECIDED"
	CodeCellOccupied        = "CELL_OCCUPIED"
	CodeGameAlreadyOver     = "GAME_ALREADY_OVER"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeConcurrentUpdate    = "CONCURRENT_UPDATE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an ErrorResponse
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Detail
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.body)
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var wrongBoard *model.WrongBoardError
	if errors.As(err, &wrongBoard) {
		return &httpError{http.StatusConflict, ErrorResponse{wrongBoard.Error(), CodeWrongBoard}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{"game not found", CodeGameNotFound}}
	case errors.Is(err, model.ErrInvalidBoardIndex):
		return &httpError{http.StatusBadRequest, ErrorResponse{err.Error(), CodeInvalidBoardIndex}}
	case errors.Is(err, model.ErrInvalidCellIndex):
		return &httpError{http.StatusBadRequest, ErrorResponse{err.Error(), CodeInvalidCellIndex}}
	case errors.Is(err, model.ErrInvalidPlayer):
		return &httpError{http.StatusBadRequest, ErrorResponse{err.Error(), CodeInvalidPlayer}}
	case errors.Is(err, model.ErrWrongBoard):
		return &httpError{http.StatusConflict, ErrorResponse{err.Error(), CodeWrongBoard}}
	case errors.Is(err, model.ErrBoardAlreadyDecided):
		return &httpError{http.StatusConflict, ErrorResponse{err.Error(), CodeBoardAlreadyDecided}}
	case errors.Is(err, model.ErrCellOccupied):
		return &httpError{http.StatusConflict, ErrorResponse{err.Error(), CodeCellOccupied}}
	case errors.Is(err, model.ErrGameAlreadyOver):
		return &httpError{http.StatusConflict, ErrorResponse{err.Error(), CodeGameAlreadyOver}}
	case errors.Is(err, model.ErrConcurrentUpdate):
		return &httpError{http.StatusConflict, ErrorResponse{err.Error(), CodeConcurrentUpdate}}

	default:
		return &httpError{http.StatusInternalServerError, ErrorResponse{"internal server error", CodeInternalError}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, ErrorResponse{message, CodeInvalidRequest}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, ErrorResponse{"internal server error", CodeInternalError}}
}
