package controller

import (
	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/pkg/serverutils"
	"reflective-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IHistoryController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type historyController struct {
	historyService service.IHistoryService
}

func NewHistoryController(historyService service.IHistoryService) IHistoryController {
	return &historyController{historyService: historyService}
}

func (c *historyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/history/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Rename)
	h.Delete(":id", c.Delete)
}

func noteID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest("Invalid note id", nil)
	}
	return id, nil
}

func (c *historyController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	res, err := c.historyService.List(ctx.UserContext(), userId, ctx.QueryInt("limit", 0), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list history", res))
}

func (c *historyController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	res, err := c.historyService.Show(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *historyController) Rename(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	var req dto.RenameHistoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body", nil)
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.historyService.Rename(ctx.UserContext(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success rename note", nil))
}

func (c *historyController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	if err := c.historyService.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete note", nil))
}
