package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByExternalUserID matches the identity provider's user id.
type ByExternalUserID struct {
	UserID string
}

func (s ByExternalUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type CreditOf struct {
	ServiceUserID uuid.UUID
}

func (s CreditOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("service_user_id = ?", s.ServiceUserID)
}

type WithCredits struct{}

func (WithCredits) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Credits")
}
