package dto

import "strings"

// LoginRequest accepts the form field names of the login modal and the
// backend's own "username".
type LoginRequest struct {
	UserIdent string `json:"user_ident" form:"user_ident"`
	Username  string `json:"username" form:"username"`
	Password  string `json:"password" form:"password"`
}

func (r *LoginRequest) Identifier() string {
	if ident := strings.TrimSpace(r.UserIdent); ident != "" {
		return ident
	}
	return strings.TrimSpace(r.Username)
}

type CreateAccountRequest struct {
	Name            string `json:"name" form:"name" validate:"required"`
	UserIdent       string `json:"user_ident" form:"user_ident" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=6,password_strength"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
}

type AuthStateResponse struct {
	State         string                 `json:"state"`
	Authenticated bool                   `json:"authenticated"`
	DisplayName   string                 `json:"display_name,omitempty"`
	Role          string                 `json:"role,omitempty"`
	Profile       map[string]interface{} `json:"profile,omitempty"`
}

type GoogleLoginResponse struct {
	URL string `json:"url"`
}
