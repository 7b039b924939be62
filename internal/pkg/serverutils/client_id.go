package serverutils

import (
	"time"

	"medichat-web/internal/constant"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const clientIDMaxAge = 400 * 24 * time.Hour

// ClientIDMiddleware makes sure every browser carries a stable client id
// cookie and exposes it to handlers through ClientID.
func ClientIDMiddleware(secure bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// The id outlives the request as a map key, so it must not alias
		// fasthttp's reused buffers.
		id := utils.CopyString(ctx.Cookies(constant.ClientIDCookie))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			ctx.Cookie(&fiber.Cookie{
				Name:     constant.ClientIDCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(clientIDMaxAge.Seconds()),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		ctx.Locals(constant.LocalsClientID, id)
		return ctx.Next()
	}
}

func ClientID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(constant.LocalsClientID).(string)
	return id
}
