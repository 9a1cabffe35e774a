package controller

import (
	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/pkg/serverutils"
	"ev-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVehicleSpecController interface {
	RegisterRoutes(r fiber.Router)
	Upsert(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type vehicleSpecController struct {
	specService service.IVehicleSpecService
}

func NewVehicleSpecController(specService service.IVehicleSpecService) IVehicleSpecController {
	return &vehicleSpecController{
		specService: specService,
	}
}

func (c *vehicleSpecController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/vehicle-specs")
	h.Get("", c.List)
	h.Post("", c.Upsert)
}

func (c *vehicleSpecController) Upsert(ctx *fiber.Ctx) error {
	var req dto.CreateVehicleSpecRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.specService.Upsert(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upsert vehicle spec", res))
}

func (c *vehicleSpecController) List(ctx *fiber.Ctx) error {
	filter := service.VehicleSpecListFilter{
		Brand:       ctx.Query("brand"),
		VehicleType: ctx.Query("vehicleType"),
		Limit:       ctx.QueryInt("limit"),
		Offset:      ctx.QueryInt("offset"),
	}

	rows, total, err := c.specService.List(ctx.Context(), filter)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list vehicle specs", fiber.Map{
		"specs": rows,
		"total": total,
	}))
}
