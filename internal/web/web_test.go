package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAuth struct {
	Authenticated bool
	DisplayName   string
}

func TestPagesRenderEveryPage(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	for _, name := range pageNames {
		body, err := pages.Render(name, map[string]any{
			"Title": name,
			"Auth":  testAuth{},
			"Chat":  map[string]any{"SessionID": "sid", "Messages": []any{}, "Loading": false},
			"Media": nil,
		})
		require.NoError(t, err, name)
		assert.Contains(t, string(body), "<title>"+name+" · MediChat</title>")
	}
}

func TestPagesEscapeUserText(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	body, err := pages.Render("home", map[string]any{
		"Title": "x",
		"Auth":  testAuth{Authenticated: true, DisplayName: "<b>Lan</b>"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), "&lt;b&gt;Lan&lt;/b&gt;")
}

func TestPagesUnknownPage(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	_, err = pages.Render("missing", nil)
	assert.Error(t, err)
}

func renderChat(t *testing.T, media map[string]any) string {
	t.Helper()
	pages, err := NewPages()
	require.NoError(t, err)

	body, err := pages.Render("chat", map[string]any{
		"Title": "chat",
		"Auth":  testAuth{},
		"Chat":  map[string]any{"SessionID": "sid", "Messages": []any{}, "Loading": false},
		"Media": media,
	})
	require.NoError(t, err)
	return string(body)
}

func TestLoginFormShowsFieldErrors(t *testing.T) {
	body := renderChat(t, nil)

	assert.Contains(t, body, `class="login" method="post" action="/api/auth/login" data-api data-reload`)
	assert.Contains(t, body, `data-field="user_ident"`)
	assert.Contains(t, body, `data-field="password"`)
	assert.Contains(t, body, `class="form-error"`)
	assert.Contains(t, body, `data-authenticated="false"`)
	assert.Contains(t, body, "window.medichat = { send: send }")
}

func TestDetectionSliderResubmits(t *testing.T) {
	body := renderChat(t, map[string]any{"Mode": "detection", "Threshold": 0.5, "File": nil, "Result": nil})

	assert.Contains(t, body, `<form class="threshold" method="post" action="/api/media/confidence" data-api>`)
	assert.Contains(t, body, `value="0.5"`)
	assert.Contains(t, body, `slider.addEventListener("change"`)
	assert.Contains(t, body, "window.medichat.send(slider.form)")
	assert.Contains(t, body, `<form class="upload" method="post"`)
}

func TestMediaControlsFollowMode(t *testing.T) {
	body := renderChat(t, map[string]any{"Mode": "classification", "Threshold": 0.35, "File": nil, "Result": nil})
	assert.Contains(t, body, `<form class="threshold is-hidden"`)
	assert.Contains(t, body, `<form class="upload" method="post"`)

	body = renderChat(t, nil)
	assert.Contains(t, body, `<form class="upload is-hidden"`)
	assert.Contains(t, body, `<form class="threshold is-hidden"`)
	assert.Contains(t, body, `value="0.35"`)
}
