package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrMissingCredentials = errors.New("identifier and password are required")
	ErrProfileUnavailable = errors.New("profile unavailable after sign-in")
	ErrAccountExists      = errors.New("account already exists")

	ErrUnknownMode     = errors.New("unknown analysis mode")
	ErrNoModeSelected  = errors.New("no analysis mode selected")
	ErrNotAnImage      = errors.New("file is not an image")
	ErrAnalysisFailed  = errors.New("analysis failed")
	ErrNotSignedIn     = errors.New("not signed in")
	ErrInvalidIdentity = errors.New("invalid identity token")
)

// FieldErrors carries per-field messages for a form, keyed by field name.
type FieldErrors struct {
	Err    error
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return e.Err.Error() + " (" + strings.Join(names, ", ") + ")"
}

func (e *FieldErrors) Unwrap() error {
	return e.Err
}
