package entity

import (
	"time"

	"github.com/google/uuid"
)

// ServiceUser links an identity provider account to its product data.
type ServiceUser struct {
	Id        uuid.UUID
	UserId    string
	Email     string
	Name      string
	CreatedAt time.Time
}

type Credit struct {
	Id            uuid.UUID
	ServiceUserId uuid.UUID
	Balance       int64
	UpdatedAt     time.Time
}
