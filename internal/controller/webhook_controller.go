package controller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/pkg/serverutils"
	"ev-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

type webhookController struct {
	ingestService service.IIngestService
	secret        string
}

func NewWebhookController(ingestService service.IIngestService, secret string) IWebhookController {
	return &webhookController{
		ingestService: ingestService,
		secret:        secret,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/webhook", c.Ingest)
}

func (c *webhookController) Ingest(ctx *fiber.Ctx) error {
	// Signature is computed over the exact raw body, so verify before
	// any parsing touches it.
	body := ctx.Body()
	if !c.verifySignature(body, ctx.Get("x-webhook-signature")) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid webhook signature")
	}

	var req dto.WebhookBatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed webhook payload")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest batch", res))
}

func (c *webhookController) verifySignature(body []byte, signature string) bool {
	if c.secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
