package controller

import (
	"errors"
	"strconv"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/pkg/serverutils"
	"ev-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPostController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Related(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type postController struct {
	postService service.IPostService
}

func NewPostController(postService service.IPostService) IPostController {
	return &postController{
		postService: postService,
	}
}

func (c *postController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/posts")
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Get(":id/related", c.Related)

	// Mutations require a logged-in admin.
	h.Patch(":id", serverutils.JwtMiddleware, serverutils.AdminOnly, c.Update)
	h.Delete(":id", serverutils.JwtMiddleware, serverutils.AdminOnly, c.Delete)
}

func (c *postController) List(ctx *fiber.Ctx) error {
	filter := service.PostListFilter{
		Status:   ctx.Query("status"),
		Source:   ctx.Query("source"),
		MinScore: ctx.QueryInt("minScore"),
		Limit:    ctx.QueryInt("limit"),
		Offset:   ctx.QueryInt("offset"),
	}

	res, err := c.postService.List(ctx.Context(), filter)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list posts", res))
}

func (c *postController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	res, err := c.postService.Show(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show post", res))
}

func (c *postController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	var req dto.UpdatePostRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.postService.Update(ctx.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update post", res))
}

func (c *postController) Related(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "5"))

	res, err := c.postService.Related(ctx.Context(), id, limit)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list related posts", res))
}

func (c *postController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	if err := c.postService.Delete(ctx.Context(), id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete post", struct{}{}))
}
