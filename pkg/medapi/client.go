// Package medapi talks to the external chat/vision backend.
package medapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	LoginEndpoint         = "/login"
	LogoutEndpoint        = "/logout"
	ProfileEndpoint       = "/user/me"
	CheckAccountEndpoint  = "/user/check-exist"
	CreateAccountEndpoint = "/user/create"
	ChatEndpoint          = "/chat"
	ClassifyEndpoint      = "/medical/classify"
	DetectEndpoint        = "/medical/detect"
	SegmentEndpoint       = "/medical/segment"

	// AccessTokenCookie is also sent to the backend on authenticated calls.
	AccessTokenCookie = "access_token"

	maxErrorBody = 4 << 10
)

var (
	// ErrInvalidCredentials covers every failed login; callers cannot tell 401 from 500.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnexpectedResponse is returned when a 2xx body does not have the expected shape.
	ErrUnexpectedResponse = errors.New("unexpected response shape")
	// ErrBackendUnavailable wraps transport level failures.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Endpoint, e.Code, e.Body)
}

// API is the set of backend calls the front-end services depend on.
type API interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, accessToken string) (Profile, error)
	CheckAccount(ctx context.Context, ident string) (bool, error)
	CreateAccount(ctx context.Context, req AccountRequest) (*TokenPair, error)
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Classify(ctx context.Context, file Upload) (AnalysisResult, error)
	Detect(ctx context.Context, file Upload, confidence float64) (AnalysisResult, error)
	Segment(ctx context.Context, file Upload) (AnalysisResult, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient builds a client for baseURL. A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tracer:     otel.Tracer("medichat-web/medapi"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// AssetURL resolves a backend relative path such as "/images/x_annotated.png".
func (c *Client) AssetURL(path string) string {
	return ResolveAssetURL(c.baseURL, path)
}

// ResolveAssetURL joins a backend relative path onto baseURL. Absolute URLs
// and data URLs are returned unchanged.
func ResolveAssetURL(baseURL, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "data:") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(baseURL, "/") + path
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func withBearer(req *http.Request, accessToken string) {
	if accessToken == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: accessToken})
}

// send executes req inside a span and returns the body of a 2xx response.
// Non-2xx answers come back as *StatusError.
func (c *Client) send(ctx context.Context, name string, req *http.Request) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.path", req.URL.Path),
	)

	res, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, name, err)
	}
	defer res.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		span.SetStatus(codes.Error, res.Status)
		return nil, &StatusError{Endpoint: req.URL.Path, Code: res.StatusCode, Body: string(snippet)}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: read %s body: %v", ErrBackendUnavailable, name, err)
	}
	return data, nil
}
