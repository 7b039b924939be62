package serverutils

import (
	"strings"

	"medichat-web/internal/constant"
	"medichat-web/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// IdentityParser validates an identity token and returns its user id.
type IdentityParser func(token string) (string, error)

// IdentityMiddleware accepts the identity from the mc_identity cookie or a
// bearer header and stores the user id in Locals.
func IdentityMiddleware(parse IdentityParser) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := ctx.Cookies(constant.IdentityCookie)
		if tokenStr == "" {
			if authHeader := ctx.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr = authHeader[len("Bearer "):]
			}
		}
		if tokenStr == "" {
			return unauthorized(ctx)
		}

		userID, err := parse(tokenStr)
		if err != nil {
			return unauthorized(ctx)
		}

		ctx.Locals(constant.LocalsIdentity, userID)
		return ctx.Next()
	}
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(dto.UnauthorizedResponse{
		Error:   "Unauthorized",
		Message: "Authentication required",
	})
}

func IdentityUserID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(constant.LocalsIdentity).(string)
	return id
}
