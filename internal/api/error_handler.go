package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/logger"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := errorResponse(err)
	if resp.Code >= http.StatusInternalServerError {
		logger.Errorf(c.Request().Context(), "%s %s: %s", c.Request().Method, c.Path(), err.Error())
		resp.Message = constants.ErrInternal.Error()
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(resp.Code)
		return
	}
	_ = c.JSON(resp.Code, resp)
}

func errorResponse(err error) domain.ErrorResponse {
	resp := domain.ErrorResponse{
		Message: err.Error(),
		Code:    http.StatusInternalServerError,
	}

	var verr *constants.ValidationError
	if errors.As(err, &verr) {
		resp.Message = constants.ErrConsistencyViolation.Error()
		resp.ValidationErrors = verr.Errors
		resp.RequiresConfirmation = true
	}

	var lerr *constants.LockedError
	if errors.As(err, &lerr) {
		resp.IsLocked = true
	}

	var perr *constants.PayloadError
	if errors.As(err, &perr) {
		resp.Message = perr.Reason
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		resp.Code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			resp.Message = msg
		}
	}

	for err != nil {
		if ce, ok := err.(*constants.CodedError); ok {
			resp.Code = ce.Code()
			break
		}
		err = errors.Unwrap(err)
	}

	return resp
}
