package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/logger"
	"github.com/ougirez/elections/internal/pkg/utils"
)

const headerRequestID = "X-Request-ID"

// RequestContextMiddleware tags the request with an id, bounds it with a timeout and
// makes the id part of every log line written for it.
func (svc *APIService) RequestContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.CtxKeyRequestID, requestID)
		c.Response().Header().Set(headerRequestID, requestID)

		ctx := logger.WithFields(c.Request().Context(), "request_id", requestID)
		var cancel context.CancelFunc = func() {}
		if svc.requestTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, svc.requestTimeout)
		}
		defer cancel()

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// IdentityMiddleware resolves the bearer token when one is sent. A bad token leaves the
// request anonymous; AuthMiddleware turns that into a 401 on routes that need an identity.
func (svc *APIService) IdentityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(constants.HeaderAuthorization)
		if header == "" {
			return next(c)
		}

		token, ok := utils.ParseBearer(header)
		if !ok {
			c.Set(constants.CtxKeyAuthError, constants.ErrMissingAuthToken)
			return next(c)
		}

		ctx := c.Request().Context()
		identity, err := svc.authService.Authenticate(ctx, token)
		if err != nil {
			logger.Debugf(ctx, "bearer token rejected: %s", err.Error())
			c.Set(constants.CtxKeyAuthError, err)
			return next(c)
		}

		c.Set(constants.CtxKeyIdentity, identity)
		c.SetRequest(c.Request().WithContext(logger.WithFields(ctx, "user", identity.UserCode)))
		return next(c)
	}
}

func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get(constants.CtxKeyIdentity).(*domain.Identity); ok {
			return next(c)
		}
		if err, ok := c.Get(constants.CtxKeyAuthError).(error); ok {
			return err
		}
		return constants.ErrMissingAuthToken
	}
}

func requestTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return constants.DefaultRequestTimeout
	}
	return d
}
