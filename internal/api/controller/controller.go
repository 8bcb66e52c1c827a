package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/service/auth"
	"github.com/ougirez/elections/internal/service/recap"
	"github.com/ougirez/elections/internal/service/region"
	"github.com/ougirez/elections/internal/service/submission"
)

type Controller struct {
	auth        *auth.Service
	submissions *submission.Service
	recaps      *recap.Service
	regions     *region.Service
}

func NewController(
	auth *auth.Service,
	submissions *submission.Service,
	recaps *recap.Service,
	regions *region.Service,
) *Controller {
	return &Controller{auth: auth, submissions: submissions, recaps: recaps, regions: regions}
}

func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// identity is nil for anonymous requests.
func identity(ctx echo.Context) *domain.Identity {
	id, _ := ctx.Get(constants.CtxKeyIdentity).(*domain.Identity)
	return id
}

func codeParam(ctx echo.Context, name string) (int64, error) {
	code, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || code <= 0 {
		return 0, constants.NewPayloadError("%s must be a positive integer", name)
	}
	return code, nil
}

// optionalCodeQuery returns nil when the parameter is absent or not a number.
func optionalCodeQuery(ctx echo.Context, name string) *int64 {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil
	}
	code, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &code
}
