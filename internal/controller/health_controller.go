package controller

import (
	"ev-platform-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db      *gorm.DB
	version string
}

func NewHealthController(db *gorm.DB, version string) IHealthController {
	return &healthController{
		db:      db,
		version: version,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	dbStatus := "ok"
	sqlDB, err := c.db.DB()
	if err != nil || sqlDB.PingContext(ctx.Context()) != nil {
		dbStatus = "down"
	}

	res := fiber.Map{
		"status":   "ok",
		"version":  c.version,
		"database": dbStatus,
	}
	if dbStatus != "ok" {
		res["status"] = "degraded"
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.SuccessResponse("Service degraded", res))
	}

	return ctx.JSON(serverutils.SuccessResponse("Service healthy", res))
}
