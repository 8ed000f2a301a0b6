package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room — именованный канал чата. Комната приватная тогда и только тогда,
// когда при создании был задан пароль.
type Room struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null" json:"name"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null" json:"owner_id"`
	IsPublic     bool      `gorm:"not null" json:"access"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Идентификаторы генерируем на стороне приложения, чтобы модель работала
// и без postgres-дефолтов.
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
