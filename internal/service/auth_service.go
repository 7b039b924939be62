package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medichat-web/internal/constant"
	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/repository/memory"
	"medichat-web/internal/session"
	"medichat-web/pkg/events"
	"medichat-web/pkg/medapi"
)

type AuthState string

const (
	AuthIdle          AuthState = "idle"
	AuthSubmitting    AuthState = "submitting"
	AuthAuthenticated AuthState = "authenticated"
	AuthFailed        AuthState = "failed"
)

type IAuthService interface {
	Login(ctx context.Context, jar session.CookieJar, clientID string, req *dto.LoginRequest) (medapi.Profile, error)
	Logout(ctx context.Context, jar session.CookieJar, clientID string)
	CreateAccount(ctx context.Context, jar session.CookieJar, clientID string, req *dto.CreateAccountRequest) (medapi.Profile, error)
	State(ctx context.Context, jar session.CookieJar, clientID string) *dto.AuthStateResponse
}

type authSession struct {
	state AuthState
}

type authService struct {
	api       medapi.API
	vault     *session.Vault
	sessions  *memory.SessionRepository[authSession]
	publisher IPublisherService
	notifier  LiveNotifier
	logger    logger.ILogger
}

func NewAuthService(
	api medapi.API,
	vault *session.Vault,
	publisher IPublisherService,
	notifier LiveNotifier,
	log logger.ILogger,
) IAuthService {
	return &authService{
		api:       api,
		vault:     vault,
		sessions:  memory.NewSessionRepository[authSession](),
		publisher: publisher,
		notifier:  notifier,
		logger:    log,
	}
}

func loginFieldErrors(err error, message string) *FieldErrors {
	return &FieldErrors{
		Err: err,
		Fields: map[string]string{
			"user_ident": message,
			"password":   message,
		},
	}
}

// setState replaces the entry instead of mutating it so readers need no lock.
func (s *authService) setState(clientID string, state AuthState) {
	s.sessions.Save(clientID, &authSession{state: state})
}

func (s *authService) Login(ctx context.Context, jar session.CookieJar, clientID string, req *dto.LoginRequest) (medapi.Profile, error) {
	ident := req.Identifier()
	if ident == "" || strings.TrimSpace(req.Password) == "" {
		return nil, loginFieldErrors(ErrMissingCredentials, constant.LoginRequiredFieldMessage)
	}

	unlock := s.vault.Lock(clientID)
	defer unlock()

	s.setState(clientID, AuthSubmitting)

	pair, err := s.api.Login(ctx, ident, req.Password)
	if err != nil {
		s.setState(clientID, AuthFailed)
		s.logger.Warn("AuthService", "Login rejected", map[string]interface{}{
			"client_id": clientID,
			"error":     err,
		})
		s.publisher.PublishEvent(ctx, events.New(constant.EventLoginFailed, map[string]interface{}{
			"client_id": clientID,
		}))
		return nil, loginFieldErrors(err, constant.LoginFailedMessage)
	}

	s.vault.StoreToken(jar, pair)
	return s.loadProfile(ctx, jar, clientID, pair.AccessToken, constant.EventLoginSucceeded)
}

// loadProfile finishes a sign-in once the token is stored. When the profile
// cannot be fetched the token cookie is intentionally left in place and the
// client ends up in the failed state holding a token without a profile.
func (s *authService) loadProfile(ctx context.Context, jar session.CookieJar, clientID, accessToken, eventType string) (medapi.Profile, error) {
	profile, err := s.api.Me(ctx, accessToken)
	if err != nil {
		s.setState(clientID, AuthFailed)
		s.logger.Warn("AuthService", "Token stored but profile fetch failed", map[string]interface{}{
			"client_id": clientID,
			"error":     err,
		})
		s.publisher.PublishEvent(ctx, events.New(constant.EventProfileUnavailable, map[string]interface{}{
			"client_id": clientID,
		}))
		s.notifier.Notify(clientID, constant.LiveEventAuthUpdated, s.snapshot(ctx, jar, clientID))
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	s.vault.StoreProfile(ctx, clientID, profile)
	s.setState(clientID, AuthAuthenticated)

	s.logger.Info("AuthService", "Signed in", map[string]interface{}{
		"client_id": clientID,
		"role":      profile.Role(),
	})
	s.publisher.PublishEvent(ctx, events.New(eventType, map[string]interface{}{
		"client_id": clientID,
		"role":      profile.Role(),
	}))
	s.notifier.Notify(clientID, constant.LiveEventAuthUpdated, s.snapshot(ctx, jar, clientID))

	return profile, nil
}

func (s *authService) Logout(ctx context.Context, jar session.CookieJar, clientID string) {
	unlock := s.vault.Lock(clientID)
	defer unlock()

	if token := s.vault.AccessToken(jar); token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.logger.Warn("AuthService", "Backend logout failed, clearing local state anyway", map[string]interface{}{
				"client_id": clientID,
				"error":     err,
			})
		}
	}

	s.vault.Clear(ctx, jar, clientID)
	s.setState(clientID, AuthIdle)

	s.publisher.PublishEvent(ctx, events.New(constant.EventLogout, map[string]interface{}{
		"client_id": clientID,
	}))
	s.notifier.Notify(clientID, constant.LiveEventAuthUpdated, s.snapshot(ctx, jar, clientID))
}

// CreateAccount expects a request that already passed form validation.
func (s *authService) CreateAccount(ctx context.Context, jar session.CookieJar, clientID string, req *dto.CreateAccountRequest) (medapi.Profile, error) {
	ident := strings.TrimSpace(req.UserIdent)

	unlock := s.vault.Lock(clientID)
	defer unlock()

	exists, err := s.api.CheckAccount(ctx, ident)
	if err != nil {
		return nil, fmt.Errorf("check account: %w", err)
	}
	if exists {
		return nil, &FieldErrors{
			Err:    ErrAccountExists,
			Fields: map[string]string{"user_ident": constant.AccountExistsMessage},
		}
	}

	s.setState(clientID, AuthSubmitting)

	pair, err := s.api.CreateAccount(ctx, medapi.AccountRequest{
		Name:      strings.TrimSpace(req.Name),
		UserIdent: ident,
		Password:  req.Password,
	})
	if err != nil {
		s.setState(clientID, AuthFailed)
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.vault.StoreToken(jar, pair)
	return s.loadProfile(ctx, jar, clientID, pair.AccessToken, constant.EventAccountCreated)
}

func (s *authService) State(ctx context.Context, jar session.CookieJar, clientID string) *dto.AuthStateResponse {
	return s.snapshot(ctx, jar, clientID)
}

func (s *authService) snapshot(ctx context.Context, jar session.CookieJar, clientID string) *dto.AuthStateResponse {
	state := AuthIdle
	if sess, ok := s.sessions.Get(clientID); ok {
		state = sess.state
	}

	res := &dto.AuthStateResponse{}
	if s.vault.IsAuthenticated(ctx, jar, clientID) {
		profile, _ := s.vault.Profile(ctx, clientID)
		state = AuthAuthenticated
		res.Authenticated = true
		res.Profile = profile
		res.DisplayName = profile.DisplayName()
		res.Role = profile.Role()
	} else if state == AuthAuthenticated {
		// Cookie or profile vanished outside of a logout.
		state = AuthIdle
	}
	res.State = string(state)
	return res
}

// IsLoginRejection reports whether err came from a refused sign-in rather
// than missing input or an unreachable backend.
func IsLoginRejection(err error) bool {
	return errors.Is(err, medapi.ErrInvalidCredentials)
}
