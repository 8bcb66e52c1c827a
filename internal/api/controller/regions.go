package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/elections/internal/domain"
)

func (c *Controller) ListRegions(ctx echo.Context) error {
	regions, err := c.regions.ListRegions(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, regions)
}

func (c *Controller) ListParties(ctx echo.Context) error {
	parties, err := c.regions.ListParties(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, parties)
}

func (c *Controller) ListCandidates(ctx echo.Context) error {
	candidates, err := c.regions.ListCandidates(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, candidates)
}

func (c *Controller) ListDepartments(ctx echo.Context) error {
	listing, err := c.regions.ListDepartments(ctx.Request().Context(), identity(ctx), optionalCodeQuery(ctx, "region"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, listing)
}

func (c *Controller) ListDepartmentParticipations(ctx echo.Context) error {
	participations, err := c.regions.ListDepartmentParticipations(
		ctx.Request().Context(),
		optionalCodeQuery(ctx, "departement"),
		optionalCodeQuery(ctx, "region"),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, participations)
}

func (c *Controller) GetScope(ctx echo.Context) error {
	id := identity(ctx)
	scope, err := c.auth.Resolve(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	type response struct {
		UserCode int64        `json:"user_code"`
		Username string       `json:"username"`
		Role     string       `json:"role"`
		Scope    domain.Scope `json:"scope"`
	}

	return ctx.JSON(http.StatusOK, response{
		UserCode: id.UserCode,
		Username: id.Username,
		Role:     id.RoleLabel,
		Scope:    scope,
	})
}
