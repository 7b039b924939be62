package model

import (
	"time"

	"github.com/google/uuid"
)

type ServiceUser struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Email     string    `gorm:"type:varchar(255)"`
	Name      string    `gorm:"type:varchar(255)"`
	Credits   *Credit   `gorm:"foreignKey:ServiceUserId"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ServiceUser) TableName() string {
	return "service_users"
}

type Credit struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServiceUserId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Balance       int64     `gorm:"not null;default:0"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Credit) TableName() string {
	return "credits"
}
