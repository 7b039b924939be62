package controller

import (
	"errors"
	"time"

	"medichat-web/internal/constant"
	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/pkg/serverutils"
	"medichat-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

const oauthStateTTL = 10 * time.Minute

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service      service.IOAuthService
	cookieSecure bool
	logger       logger.ILogger
}

func NewOAuthController(service service.IOAuthService, cookieSecure bool, log logger.ILogger) IOAuthController {
	return &oauthController{service: service, cookieSecure: cookieSecure, logger: log}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/google")
	h.Get("/", c.Login)
	h.Get("/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	url, state, err := c.service.GetLoginURL()
	if err != nil {
		if errors.Is(err, service.ErrOAuthNotConfigured) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, err.Error()))
		}
		return err
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     constant.OAuthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HTTPOnly: true,
		Secure:   c.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	state := ctx.Query("state")
	expected := ctx.Cookies(constant.OAuthStateCookie)
	ctx.Cookie(&fiber.Cookie{
		Name:    constant.OAuthStateCookie,
		Value:   "",
		Path:    "/api/auth/google",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})

	if state == "" || state != expected {
		c.logger.Warn("OAuthController", "State mismatch on callback", nil)
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid state"))
	}

	code := ctx.Query("code")
	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Missing code"))
	}

	res, err := c.service.HandleCallback(ctx.UserContext(), code)
	if err != nil {
		c.logger.Error("OAuthController", "Callback failed", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(fiber.StatusBadGateway, "Google sign-in failed"))
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     constant.IdentityCookie,
		Value:    res.IdentityToken,
		Path:     "/",
		HTTPOnly: true,
		Secure:   c.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ctx.Redirect("/", fiber.StatusTemporaryRedirect)
}
