package controller

import (
	"errors"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/pkg/serverutils"
	"ev-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	TrackUsage(ctx *fiber.Ctx) error
	ListUsage(ctx *fiber.Ctx) error
	UsageSummary(ctx *fiber.Ctx) error
	Dashboard(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
	ScrapeRuns(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
	queryService service.IQueryService
	usageService service.IUsageService
	cronSecret   string
}

func NewAdminController(
	adminService service.IAdminService,
	queryService service.IQueryService,
	usageService service.IUsageService,
	cronSecret string,
) IAdminController {
	return &adminController{
		adminService: adminService,
		queryService: queryService,
		usageService: usageService,
		cronSecret:   cronSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")

	// Scraper workers report usage with the cron secret, so this route
	// sits in front of the JWT guard.
	h.Post("/ai-usage", serverutils.WorkerOrAdminMiddleware(c.cronSecret), c.TrackUsage)

	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.AdminOnly)

	h.Post("/query", c.Query)
	h.Get("/ai-usage", c.ListUsage)
	h.Get("/ai-usage/summary", c.UsageSummary)
	h.Get("/dashboard", c.Dashboard)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
	h.Get("/scrape-runs", c.ScrapeRuns)
}

func (c *adminController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.queryService.Query(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUnanswerableQuery) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run query", res))
}

func (c *adminController) TrackUsage(ctx *fiber.Ctx) error {
	var req dto.TrackUsageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.usageService.Track(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success track usage", res))
}

func (c *adminController) ListUsage(ctx *fiber.Ctx) error {
	filter := service.UsageListFilter{
		Type:   ctx.Query("type"),
		Model:  ctx.Query("model"),
		Limit:  ctx.QueryInt("limit"),
		Offset: ctx.QueryInt("offset"),
	}

	res, err := c.usageService.List(ctx.Context(), filter)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list usage", res))
}

func (c *adminController) UsageSummary(ctx *fiber.Ctx) error {
	res, err := c.usageService.Summary(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize usage", res))
}

func (c *adminController) Dashboard(ctx *fiber.Ctx) error {
	res, err := c.adminService.Dashboard(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load dashboard", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	res, err := c.adminService.Logs(ctx.Context(),
		ctx.Query("level"),
		ctx.QueryInt("limit", 100),
		ctx.QueryInt("offset"),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list logs", res))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	res, err := c.adminService.LogDetail(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Log entry not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show log", res))
}

func (c *adminController) ScrapeRuns(ctx *fiber.Ctx) error {
	res, err := c.adminService.ScrapeRuns(ctx.Context(), ctx.QueryInt("limit"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list scrape runs", res))
}
