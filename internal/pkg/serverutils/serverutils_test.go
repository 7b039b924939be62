package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"medichat-web/internal/constant"
	"medichat-web/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testAllowList = []string{"/chat", "/createAccount", "/static", "/api", "/images", "/fonts", "/favicon.ico"}

func newGuardedApp() *fiber.App {
	app := fiber.New()
	app.Use(RouteGuard(testAllowList, "access_token"))
	ok := func(ctx *fiber.Ctx) error { return ctx.SendString("ok") }
	app.Get("/", ok)
	app.Get("/about", ok)
	app.Get("/chat", ok)
	app.Get("/api/chat", ok)
	app.Get("/apix", ok)
	return app
}

func TestPathAllowed(t *testing.T) {
	cases := map[string]bool{
		"/chat":             true,
		"/chat/":            true,
		"/api/auth/login":   true,
		"/apix":             false,
		"/favicon.ico":      true,
		"/":                 false,
		"/about":            false,
		"/static/css/a.css": true,
	}
	for path, want := range cases {
		assert.Equal(t, want, PathAllowed(path, testAllowList), path)
	}
}

func TestRouteGuardRedirectsWithoutToken(t *testing.T) {
	app := newGuardedApp()

	for _, path := range []string{"/", "/about", "/apix"} {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, res.StatusCode, path)
		assert.Equal(t, "/chat", res.Header.Get("Location"), path)
	}

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "tok"})
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestRouteGuardNeverRedirectsChat(t *testing.T) {
	app := newGuardedApp()

	for _, cookie := range []string{"", "tok"} {
		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "access_token", Value: cookie})
		}
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	}

	// Even with an empty configured list.
	bare := fiber.New()
	bare.Use(RouteGuard(nil, "access_token"))
	bare.Get("/chat", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })
	res, err := bare.Test(httptest.NewRequest(http.MethodGet, "/chat", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

type signUp struct {
	Name            string `json:"name" validate:"required"`
	UserIdent       string `json:"user_ident" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,password_strength"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func TestValidateRequest(t *testing.T) {
	err := ValidateRequest(signUp{
		Name:            "An",
		UserIdent:       "an@example.com",
		Password:        "Abc12$",
		ConfirmPassword: "Abc12$",
	})
	assert.NoError(t, err)

	err = ValidateRequest(signUp{
		UserIdent:       "not-an-email",
		Password:        "abcdef",
		ConfirmPassword: "abcdeg",
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, fieldMessages["name.required"], verr.Fields["name"])
	assert.Equal(t, fieldMessages["user_ident.email"], verr.Fields["user_ident"])
	assert.Equal(t, fieldMessages["password.password_strength"], verr.Fields["password"])
	assert.Equal(t, fieldMessages["confirmPassword.eqfield"], verr.Fields["confirmPassword"])
}

func TestPasswordStrong(t *testing.T) {
	assert.True(t, PasswordStrong("Abc12$"))
	assert.True(t, PasswordStrong("Abc 12"))
	assert.False(t, PasswordStrong("Abc123"))
	assert.False(t, PasswordStrong("abc12$"))
	assert.False(t, PasswordStrong("ABC12$"))
	assert.False(t, PasswordStrong("Abcde$"))
}

func TestErrorHandlerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewFromCore(core)))
	app.Get("/fiber", func(ctx *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/raw", func(ctx *fiber.Ctx) error { return errors.New("db password leaked") })
	app.Get("/invalid", func(ctx *fiber.Ctx) error {
		return &ValidationError{Fields: map[string]string{"name": "required"}}
	})

	decode := func(path string) (int, BaseResponse[map[string]string]) {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(res.Body)
		var out BaseResponse[map[string]string]
		require.NoError(t, json.Unmarshal(body, &out))
		return res.StatusCode, out
	}

	code, body := decode("/fiber")
	assert.Equal(t, fiber.StatusTeapot, code)
	assert.Equal(t, "short and stout", body.Message)

	code, body = decode("/raw")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.NotContains(t, body.Message, "password")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Unhandled error", logs.All()[0].Message)
	assert.Equal(t, "db password leaked", logs.All()[0].ContextMap()["error"])

	code, body = decode("/invalid")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "required", body.Data["name"])
	assert.Equal(t, 1, logs.Len())
}

func TestClientIDMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ClientIDMiddleware(false))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString(ClientID(ctx)) })

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	require.NotEmpty(t, body)

	var minted *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == constant.ClientIDCookie {
			minted = c
		}
	}
	require.NotNil(t, minted)
	assert.Equal(t, string(body), minted.Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constant.ClientIDCookie, Value: minted.Value})
	res, err = app.Test(req)
	require.NoError(t, err)
	again, _ := io.ReadAll(res.Body)
	assert.Equal(t, minted.Value, string(again))
	assert.Empty(t, res.Cookies())
}

func TestIdentityMiddleware(t *testing.T) {
	parse := func(token string) (string, error) {
		if token == "good" {
			return "user-1", nil
		}
		return "", errors.New("bad token")
	}
	app := fiber.New()
	app.Get("/info", IdentityMiddleware(parse), func(ctx *fiber.Ctx) error {
		return ctx.SendString(IdentityUserID(ctx))
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/info", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	assert.JSONEq(t, `{"error":"Unauthorized","message":"Authentication required"}`, string(body))

	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	req.AddCookie(&http.Cookie{Name: constant.IdentityCookie, Value: "good"})
	res, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(res.Body)
	assert.Equal(t, "user-1", string(body))

	req = httptest.NewRequest(http.MethodGet, "/info", nil)
	req.Header.Set("Authorization", "Bearer nope")
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}
