package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/elections/internal/pkg/constants"
)

func (c *Controller) GetRecap(ctx echo.Context) error {
	code, err := codeParam(ctx, "code")
	if err != nil {
		return err
	}

	recap, err := c.recaps.BuildRecap(ctx.Request().Context(), code)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, recap)
}

func (c *Controller) GetDepartmentStatus(ctx echo.Context) error {
	code, err := codeParam(ctx, "code")
	if err != nil {
		return err
	}

	status, err := c.recaps.Status(ctx.Request().Context(), code)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, status)
}

func (c *Controller) GetCommuneStatus(ctx echo.Context) error {
	code := optionalCodeQuery(ctx, "code")
	if code == nil || *code <= 0 {
		return constants.NewPayloadError("code must be a positive integer")
	}

	status, err := c.recaps.CommuneStatus(ctx.Request().Context(), *code)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, status)
}
