package controller

import (
	"errors"
	"io"

	"medichat-web/internal/constant"
	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/serverutils"
	"medichat-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxUploadSize = 10 << 20

type IMediaController interface {
	RegisterRoutes(r fiber.Router)
	Snapshot(ctx *fiber.Ctx) error
	SelectMode(ctx *fiber.Ctx) error
	Stage(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	SetConfidence(ctx *fiber.Ctx) error
}

type mediaController struct {
	service service.IMediaService
}

func NewMediaController(service service.IMediaService) IMediaController {
	return &mediaController{service: service}
}

func (c *mediaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/media")
	h.Get("/", c.Snapshot)
	h.Post("/mode", c.SelectMode)
	h.Post("/file", c.Stage)
	h.Delete("/file", c.Clear)
	h.Post("/submit", c.Submit)
	h.Post("/confidence", c.SetConfidence)
}

func (c *mediaController) Snapshot(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Media workspace", c.service.Snapshot(serverutils.ClientID(ctx))))
}

func (c *mediaController) SelectMode(ctx *fiber.Ctx) error {
	var req dto.SelectModeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	snap, err := c.service.SelectMode(serverutils.ClientID(ctx), req.Mode)
	if err != nil {
		return mediaError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Mode selected", snap))
}

func (c *mediaController) Stage(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File is required")
	}
	if fh.Size > maxUploadSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "File too large")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	snap, err := c.service.Stage(serverutils.ClientID(ctx), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return mediaError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("File staged", snap))
}

func (c *mediaController) Clear(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("File cleared", c.service.Clear(serverutils.ClientID(ctx))))
}

func (c *mediaController) Submit(ctx *fiber.Ctx) error {
	view, err := c.service.Submit(ctx.UserContext(), serverutils.ClientID(ctx))
	if err != nil {
		return mediaError(ctx, err)
	}
	return c.respondResult(ctx, view)
}

func (c *mediaController) SetConfidence(ctx *fiber.Ctx) error {
	var req dto.ConfidenceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	view, err := c.service.SetThreshold(ctx.UserContext(), serverutils.ClientID(ctx), req.Confidence)
	if err != nil {
		return mediaError(ctx, err)
	}
	return c.respondResult(ctx, view)
}

// respondResult returns the workspace snapshot; a nil view means nothing
// new was produced.
func (c *mediaController) respondResult(ctx *fiber.Ctx, view *dto.AnalysisView) error {
	snap := c.service.Snapshot(serverutils.ClientID(ctx))
	if view == nil {
		return ctx.JSON(serverutils.SuccessResponse("No analysis performed", snap))
	}
	snap.Result = view
	return ctx.JSON(serverutils.SuccessResponse("Analysis completed", snap))
}

func mediaError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnknownMode):
		return ctx.Status(fiber.StatusBadRequest).JSON(
			serverutils.ErrorResponse(fiber.StatusBadRequest, constant.UnknownModeMessage),
		)
	case errors.Is(err, service.ErrNoModeSelected):
		return ctx.Status(fiber.StatusBadRequest).JSON(
			serverutils.ErrorResponse(fiber.StatusBadRequest, constant.NoModeSelectedMessage),
		)
	case errors.Is(err, service.ErrNotAnImage):
		return ctx.Status(fiber.StatusUnsupportedMediaType).JSON(
			serverutils.ErrorResponse(fiber.StatusUnsupportedMediaType, constant.UnsupportedFileMessage),
		)
	case errors.Is(err, service.ErrAnalysisFailed):
		return ctx.Status(fiber.StatusBadGateway).JSON(
			serverutils.ErrorResponse(fiber.StatusBadGateway, constant.AnalysisFailedMessage),
		)
	}
	return err
}
