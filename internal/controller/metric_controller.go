package controller

import (
	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/pkg/serverutils"
	"ev-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMetricController interface {
	RegisterRoutes(r fiber.Router)
	Upsert(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type metricController struct {
	metricService service.IMetricService
}

func NewMetricController(metricService service.IMetricService) IMetricController {
	return &metricController{
		metricService: metricService,
	}
}

func (c *metricController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ev-metrics")
	h.Get("", c.List)
	h.Post("", c.Upsert)
}

func (c *metricController) Upsert(ctx *fiber.Ctx) error {
	var req dto.CreateMetricRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.metricService.Upsert(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upsert metric", res))
}

func (c *metricController) List(ctx *fiber.Ctx) error {
	filter := service.MetricListFilter{
		Brand:      ctx.Query("brand"),
		Metric:     ctx.Query("metric"),
		PeriodType: ctx.Query("periodType"),
		Model:      ctx.Query("model"),
		Year:       ctx.QueryInt("year"),
		Month:      ctx.QueryInt("month"),
		Limit:      ctx.QueryInt("limit"),
		Offset:     ctx.QueryInt("offset"),
	}

	rows, total, err := c.metricService.List(ctx.Context(), filter)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list metrics", fiber.Map{
		"metrics": rows,
		"total":   total,
	}))
}
