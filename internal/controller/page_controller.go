package controller

import (
	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/serverutils"
	"medichat-web/internal/service"
	"medichat-web/internal/session"
	"medichat-web/internal/web"

	"github.com/gofiber/fiber/v2"
)

type IPageController interface {
	RegisterRoutes(app fiber.Router)
}

type pageController struct {
	pages        *web.Pages
	auth         service.IAuthService
	chat         service.IChatService
	media        service.IMediaService
	cookieSecure bool
}

type pageData struct {
	Title string
	Auth  *dto.AuthStateResponse
	Chat  *dto.ChatSnapshot
	Media *dto.MediaSnapshot
}

func NewPageController(
	pages *web.Pages,
	auth service.IAuthService,
	chat service.IChatService,
	media service.IMediaService,
	cookieSecure bool,
) IPageController {
	return &pageController{
		pages:        pages,
		auth:         auth,
		chat:         chat,
		media:        media,
		cookieSecure: cookieSecure,
	}
}

func (c *pageController) RegisterRoutes(app fiber.Router) {
	app.Get("/", c.static("home", "Trang chủ"))
	app.Get("/about", c.static("about", "Giới thiệu"))
	app.Get("/faq", c.static("faq", "FAQ"))
	app.Get("/createAccount", c.static("create_account", "Tạo tài khoản"))
	app.Get("/chat", c.Chat)
}

func (c *pageController) data(ctx *fiber.Ctx, title string) *pageData {
	jar := session.NewFiberJar(ctx, c.cookieSecure)
	return &pageData{
		Title: title,
		Auth:  c.auth.State(ctx.UserContext(), jar, serverutils.ClientID(ctx)),
	}
}

func (c *pageController) static(name, title string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return c.render(ctx, name, c.data(ctx, title))
	}
}

// Chat mints the chat session id on first visit.
func (c *pageController) Chat(ctx *fiber.Ctx) error {
	clientID := serverutils.ClientID(ctx)
	data := c.data(ctx, "Tư vấn")
	data.Chat = c.chat.Open(ctx.UserContext(), clientID)
	data.Media = c.media.Snapshot(clientID)
	return c.render(ctx, "chat", data)
}

func (c *pageController) render(ctx *fiber.Ctx, name string, data *pageData) error {
	body, err := c.pages.Render(name, data)
	if err != nil {
		return err
	}
	ctx.Type("html", "utf-8")
	return ctx.Send(body)
}
