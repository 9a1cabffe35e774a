package controller

import (
	"errors"

	"ev-platform-be/internal/pkg/serverutils"
	"ev-platform-be/internal/service"
	"ev-platform-be/pkg/evtables"

	"github.com/gofiber/fiber/v2"
)

type IIndustryController interface {
	RegisterRoutes(r fiber.Router)
}

// industryController serves every industry data table through one pair
// of handlers; the table registry drives which endpoints exist.
type industryController struct {
	industryService service.IIndustryService
}

func NewIndustryController(industryService service.IIndustryService) IIndustryController {
	return &industryController{
		industryService: industryService,
	}
}

func (c *industryController) RegisterRoutes(r fiber.Router) {
	for _, table := range evtables.All() {
		if !evtables.IsIndustry(table.Name) {
			continue
		}
		h := r.Group("/" + table.Endpoint)
		h.Get("", c.list(table.Name))
		h.Post("", c.submit(table.Name))
	}
}

func (c *industryController) submit(table string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		res, err := c.industryService.Submit(ctx.Context(), table, ctx.Body())
		if err != nil {
			if errors.Is(err, service.ErrUnknownIndustryTable) {
				return fiber.NewError(fiber.StatusNotFound, "Unknown data table")
			}
			if errors.Is(err, service.ErrInvalidRecord) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}

		return ctx.JSON(serverutils.SuccessResponse("Success submit "+table, res))
	}
}

func (c *industryController) list(table string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		res, err := c.industryService.List(ctx.Context(), table, ctx.QueryInt("limit"))
		if err != nil {
			if errors.Is(err, service.ErrUnknownIndustryTable) {
				return fiber.NewError(fiber.StatusNotFound, "Unknown data table")
			}
			return err
		}

		return ctx.JSON(serverutils.SuccessResponse("Success list "+table, res))
	}
}
