package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/elections/internal/domain/dto"
	"github.com/ougirez/elections/internal/service/consistency"
)

// ValidateParticipation runs the consistency rules without persisting anything.
func (c *Controller) ValidateParticipation(ctx echo.Context) error {
	var request dto.ValidateParticipationRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	errs := consistency.Validate(consistency.FromInput(request.ToInput(0)))

	return ctx.JSON(http.StatusOK, dto.ValidateParticipationResponse{
		Valid:  len(errs) == 0,
		Errors: errs,
	})
}

func (c *Controller) SubmitDepartmentResults(ctx echo.Context) error {
	var request dto.DepartmentSubmissionRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	res, err := c.submissions.SubmitDepartmentResults(ctx.Request().Context(), identity(ctx), request.ToSubmission())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, res)
}

func (c *Controller) SubmitDepartmentParticipation(ctx echo.Context) error {
	var request dto.DepartmentParticipationRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	res, err := c.submissions.SubmitDepartmentResults(ctx.Request().Context(), identity(ctx), request.ToSubmission())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, res.Participation)
}

func (c *Controller) SubmitCommuneParticipation(ctx echo.Context) error {
	var request dto.CommuneParticipationRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	participation, err := c.submissions.SubmitCommuneParticipation(ctx.Request().Context(), identity(ctx), request.ToSubmission())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, participation)
}
