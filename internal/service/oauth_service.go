package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"medichat-web/internal/config"
	"medichat-web/internal/constant"
	"medichat-web/internal/entity"
	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/repository/contract"
	"medichat-web/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	identityTTL       = 24 * time.Hour
)

var ErrOAuthNotConfigured = errors.New("google sign-in is not configured")

type OAuthLogin struct {
	IdentityToken string
	User          *entity.ServiceUser
}

type IOAuthService interface {
	// GetLoginURL returns the consent URL and the state to remember for the callback.
	GetLoginURL() (string, string, error)
	HandleCallback(ctx context.Context, code string) (*OAuthLogin, error)
	// ParseIdentity validates an identity token and returns its user id.
	ParseIdentity(token string) (string, error)
}

type oauthService struct {
	conf        *oauth2.Config
	userInfoURL string
	secret      []byte
	users       contract.ServiceUserRepository
	publisher   IPublisherService
	logger      logger.ILogger
}

func NewOAuthService(
	cfg config.AuthConfig,
	users contract.ServiceUserRepository,
	publisher IPublisherService,
	log logger.ILogger,
) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
	return newOAuthService(conf, googleUserInfoURL, cfg.JWTSecret, users, publisher, log)
}

func newOAuthService(
	conf *oauth2.Config,
	userInfoURL string,
	secret string,
	users contract.ServiceUserRepository,
	publisher IPublisherService,
	log logger.ILogger,
) *oauthService {
	return &oauthService{
		conf:        conf,
		userInfoURL: userInfoURL,
		secret:      []byte(secret),
		users:       users,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *oauthService) GetLoginURL() (string, string, error) {
	if s.conf.ClientID == "" {
		return "", "", ErrOAuthNotConfigured
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	return s.conf.AuthCodeURL(state), state, nil
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (s *oauthService) HandleCallback(ctx context.Context, code string) (*OAuthLogin, error) {
	if s.conf.ClientID == "" {
		return nil, ErrOAuthNotConfigured
	}

	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	gu, err := s.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	user := &entity.ServiceUser{
		UserId: gu.ID,
		Email:  gu.Email,
		Name:   gu.Name,
	}
	if err := s.users.EnsureWithCredit(ctx, user); err != nil {
		return nil, fmt.Errorf("ensure service user: %w", err)
	}

	s.logger.Info("OAuthService", "Google sign-in", map[string]interface{}{
		"user_id":         user.UserId,
		"service_user_id": user.Id.String(),
	})
	s.publisher.PublishEvent(ctx, events.New(constant.EventServiceUserUpserted, map[string]interface{}{
		"user_id": user.UserId,
	}))

	signed, err := s.signIdentity(user.UserId, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign identity: %w", err)
	}

	return &OAuthLogin{IdentityToken: signed, User: user}, nil
}

func (s *oauthService) signIdentity(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(identityTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *oauthService) fetchUser(ctx context.Context, token *oauth2.Token) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned HTTP %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading user info: %w", err)
	}

	var gu googleUser
	if err := json.Unmarshal(content, &gu); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	if gu.ID == "" {
		return nil, errors.New("user info without id")
	}
	return &gu, nil
}

func (s *oauthService) ParseIdentity(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidIdentity
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", ErrInvalidIdentity
	}
	return userID, nil
}
