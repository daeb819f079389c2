package controller

import (
	"strings"

	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnalyzerController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type analyzerController struct {
	analyzerService service.IAnalyzerService
}

func NewAnalyzerController(analyzerService service.IAnalyzerService) IAnalyzerController {
	return &analyzerController{analyzerService: analyzerService}
}

func (c *analyzerController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
}

// Chat speaks the editor's analysis wire format ({message} in, {response} or
// {error} out) rather than the usual response envelope.
func (c *analyzerController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ChatErrorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ChatErrorResponse{Error: "Message is required"})
	}

	answer, err := c.analyzerService.Reflect(ctx.UserContext(), req.Message)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ChatErrorResponse{Error: err.Error()})
	}

	return ctx.JSON(dto.ChatResponse{Response: answer})
}
