package session

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieJar is the cookie storage of one browser as seen by one request.
type CookieJar interface {
	Cookie(name string) string
	SetCookie(name, value string)
	ClearCookie(name string)
}

// FiberJar reads request cookies and writes response cookies. Writes made
// during the request are visible to later reads of the same request.
type FiberJar struct {
	ctx     *fiber.Ctx
	secure  bool
	pending map[string]string
	cleared map[string]bool
}

func NewFiberJar(ctx *fiber.Ctx, secure bool) *FiberJar {
	return &FiberJar{
		ctx:     ctx,
		secure:  secure,
		pending: make(map[string]string),
		cleared: make(map[string]bool),
	}
}

func (j *FiberJar) Cookie(name string) string {
	if j.cleared[name] {
		return ""
	}
	if v, ok := j.pending[name]; ok {
		return v
	}
	return j.ctx.Cookies(name)
}

func (j *FiberJar) SetCookie(name, value string) {
	delete(j.cleared, name)
	j.pending[name] = value
	j.ctx.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   j.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (j *FiberJar) ClearCookie(name string) {
	delete(j.pending, name)
	j.cleared[name] = true
	j.ctx.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   j.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// MemoryJar is a CookieJar without HTTP, for tests and scripted clients.
type MemoryJar struct {
	mu      sync.Mutex
	cookies map[string]string
}

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{cookies: make(map[string]string)}
}

func (j *MemoryJar) Cookie(name string) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cookies[name]
}

func (j *MemoryJar) SetCookie(name, value string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[name] = value
}

func (j *MemoryJar) ClearCookie(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, name)
}
