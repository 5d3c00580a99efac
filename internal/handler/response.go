package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shinyyama/overbid-backend/internal/reqctx"
	"github.com/shinyyama/overbid-backend/internal/service"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Number  int    `json:"number,omitempty"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

func NewCodedErrorResponse(ce *service.CodedError, message string) ErrorResponse {
	r := NewErrorResponse(ce.Name, message)
	r.Error.Number = ce.Number
	return r
}

var statusByNumber = map[int]int{
	6000: http.StatusUnprocessableEntity,
	6001: http.StatusUnprocessableEntity,
	6002: http.StatusConflict,
	6003: http.StatusForbidden,
	6004: http.StatusConflict,
	6005: http.StatusForbidden,
	6006: http.StatusPaymentRequired,
	6007: http.StatusPreconditionFailed,
	6008: http.StatusConflict,
	6009: http.StatusNotFound,
	6010: http.StatusConflict,
	6011: http.StatusInternalServerError,
	6012: http.StatusUnprocessableEntity,
	6013: http.StatusBadRequest,
}

// writeError maps service failures onto the error envelope.
func writeError(c echo.Context, err error) error {
	if ce, ok := service.AsCoded(err); ok {
		status, found := statusByNumber[ce.Number]
		if !found {
			status = http.StatusBadRequest
		}
		return c.JSON(status, NewCodedErrorResponse(ce, err.Error()))
	}
	switch {
	case errors.Is(err, service.ErrInvalidURI), errors.Is(err, service.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	case errors.Is(err, service.ErrAirdropDisabled):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", err.Error()))
	}
	log.Errorf("[api] rid=%s path=%s err=%v", reqctx.RID(c.Request().Context()), c.Path(), err)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "internal error"))
}
