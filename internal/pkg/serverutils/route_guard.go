package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const GuardRedirectPath = "/chat"

// PathAllowed matches path against allowList exactly or as a prefix ending
// at a "/" boundary, so "/api" allows "/api/chat" but not "/apix".
func PathAllowed(path string, allowList []string) bool {
	for _, allowed := range allowList {
		allowed = strings.TrimRight(allowed, "/")
		if allowed == "" {
			continue
		}
		if path == allowed || strings.HasPrefix(path, allowed+"/") {
			return true
		}
	}
	return false
}

// RouteGuard sends browsers without an access token cookie to the chat page
// unless the path is allow-listed. The chat page itself is always allowed.
func RouteGuard(allowList []string, tokenCookie string) fiber.Handler {
	list := append([]string{GuardRedirectPath}, allowList...)

	return func(ctx *fiber.Ctx) error {
		if PathAllowed(ctx.Path(), list) {
			return ctx.Next()
		}
		if ctx.Cookies(tokenCookie) == "" {
			return ctx.Redirect(GuardRedirectPath, fiber.StatusFound)
		}
		return ctx.Next()
	}
}
