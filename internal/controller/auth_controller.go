package controller

import (
	"errors"

	"medichat-web/internal/constant"
	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/serverutils"
	"medichat-web/internal/service"
	"medichat-web/internal/session"
	"medichat-web/pkg/medapi"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
	CreateAccount(ctx *fiber.Ctx) error
}

type authController struct {
	service      service.IAuthService
	cookieSecure bool
}

func NewAuthController(service service.IAuthService, cookieSecure bool) IAuthController {
	return &authController{service: service, cookieSecure: cookieSecure}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
	h.Get("/me", c.Me)

	r.Post("/account", c.CreateAccount)
}

func (c *authController) jar(ctx *fiber.Ctx) session.CookieJar {
	return session.NewFiberJar(ctx, c.cookieSecure)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	profile, err := c.service.Login(ctx.UserContext(), c.jar(ctx), serverutils.ClientID(ctx), &req)
	if err != nil {
		return signInError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", profile))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	c.service.Logout(ctx.UserContext(), c.jar(ctx), serverutils.ClientID(ctx))
	return ctx.JSON(serverutils.SuccessResponse[any]("Logout successful", nil))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	state := c.service.State(ctx.UserContext(), c.jar(ctx), serverutils.ClientID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Auth state", state))
}

func (c *authController) CreateAccount(ctx *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	profile, err := c.service.CreateAccount(ctx.UserContext(), c.jar(ctx), serverutils.ClientID(ctx), &req)
	if err != nil {
		return signInError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Account created", profile))
}

// signInError maps login and sign-up failures to responses. Only static
// messages reach the client.
func signInError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrProfileUnavailable) {
		return ctx.Status(fiber.StatusBadGateway).JSON(
			serverutils.ErrorResponse(fiber.StatusBadGateway, constant.ProfileUnavailableMessage),
		)
	}

	var fieldErr *service.FieldErrors
	if errors.As(err, &fieldErr) {
		code := fiber.StatusBadRequest
		switch {
		case service.IsLoginRejection(err):
			code = fiber.StatusUnauthorized
		case errors.Is(err, service.ErrAccountExists):
			code = fiber.StatusConflict
		case errors.Is(err, medapi.ErrBackendUnavailable):
			code = fiber.StatusBadGateway
		}
		return ctx.Status(code).JSON(
			serverutils.ErrorDataResponse(code, firstFieldMessage(fieldErr), fieldErr.Fields),
		)
	}

	if errors.Is(err, medapi.ErrBackendUnavailable) {
		return ctx.Status(fiber.StatusBadGateway).JSON(
			serverutils.ErrorResponse(fiber.StatusBadGateway, "Backend unavailable"),
		)
	}
	return err
}

func firstFieldMessage(fe *service.FieldErrors) string {
	for _, name := range []string{"user_ident", "password"} {
		if msg, ok := fe.Fields[name]; ok {
			return msg
		}
	}
	return fe.Err.Error()
}
