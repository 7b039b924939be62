package controller

import (
	"medichat-web/internal/pkg/serverutils"
	"medichat-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IInfoController interface {
	RegisterRoutes(r fiber.Router, identity fiber.Handler)
	GetInfo(ctx *fiber.Ctx) error
}

type infoController struct {
	service service.IInfoService
}

func NewInfoController(service service.IInfoService) IInfoController {
	return &infoController{service: service}
}

func (c *infoController) RegisterRoutes(r fiber.Router, identity fiber.Handler) {
	r.Get("/v1/info", identity, c.GetInfo)
}

func (c *infoController) GetInfo(ctx *fiber.Ctx) error {
	res, err := c.service.GetInfo(ctx.UserContext(), serverutils.IdentityUserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
