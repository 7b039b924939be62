package session

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	// PlaceholderRefreshToken is stored when the backend issues no refresh token.
	PlaceholderRefreshToken = "null"
)

// TokenStore keeps the bearer token in site-wide cookies. No expiry is set;
// the cookies live as long as the browser session keeps them.
type TokenStore struct{}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) SetTokens(jar CookieJar, access, refresh string) {
	if refresh == "" {
		refresh = PlaceholderRefreshToken
	}
	jar.SetCookie(AccessTokenCookie, access)
	jar.SetCookie(RefreshTokenCookie, refresh)
}

func (s *TokenStore) ClearTokens(jar CookieJar) {
	jar.ClearCookie(AccessTokenCookie)
	jar.ClearCookie(RefreshTokenCookie)
}

func (s *TokenStore) HasToken(jar CookieJar) bool {
	return jar.Cookie(AccessTokenCookie) != ""
}

func (s *TokenStore) AccessToken(jar CookieJar) string {
	return jar.Cookie(AccessTokenCookie)
}
