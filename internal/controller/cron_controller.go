package controller

import (
	"ev-platform-be/internal/pkg/serverutils"
	"ev-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICronController interface {
	RegisterRoutes(r fiber.Router)
	Publish(ctx *fiber.Ctx) error
	RetryFailed(ctx *fiber.Ctx) error
}

type cronController struct {
	publishService service.IPublishService
	cronSecret     string
}

func NewCronController(publishService service.IPublishService, cronSecret string) ICronController {
	return &cronController{
		publishService: publishService,
		cronSecret:     cronSecret,
	}
}

func (c *cronController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cron")
	h.Use(serverutils.CronAuthMiddleware(c.cronSecret))
	h.Post("/publish", c.Publish)
	h.Post("/retry-failed", c.RetryFailed)
}

func (c *cronController) Publish(ctx *fiber.Ctx) error {
	report, err := c.publishService.PublishDue(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run publish", report))
}

func (c *cronController) RetryFailed(ctx *fiber.Ctx) error {
	retried, err := c.publishService.RetryFailed(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success retry failed posts", fiber.Map{
		"retried": retried,
	}))
}
