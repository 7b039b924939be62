package controller

import (
	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/serverutils"
	"medichat-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Get("/", c.Open)
	h.Post("/messages", c.Send)
}

func (c *chatController) Open(ctx *fiber.Ctx) error {
	snapshot := c.service.Open(ctx.UserContext(), serverutils.ClientID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Chat session", snapshot))
}

// Send always answers 200; a failed backend call shows up as the fallback
// bot message in the transcript.
func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res := c.service.Send(ctx.UserContext(), serverutils.ClientID(ctx), req.Message)
	if !res.Sent {
		return ctx.JSON(serverutils.SuccessResponse("Nothing to send", res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}
