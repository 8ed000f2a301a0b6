package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chat-rooms/internal/models"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := d.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (d *Database) FindRoomMembers(ctx context.Context, roomID uuid.UUID) ([]models.User, error) {
	var users []models.User
	if err := d.db.WithContext(ctx).Where("room_id = ?", roomID).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserRoom назначает или снимает комнату пользователя. roomID == nil —
// глобальная отвязка, в какой бы комнате пользователь ни находился.
func (d *Database) SetUserRoom(ctx context.Context, userID uuid.UUID, roomID *uuid.UUID) (int64, error) {
	res := d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("room_id", roomID)
	return res.RowsAffected, res.Error
}

func (d *Database) UpdateLastSeen(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now()).Error
}
