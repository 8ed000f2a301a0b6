package database

import (
	"context"

	"github.com/google/uuid"

	"chat-rooms/internal/models"
)

func (d *Database) SaveMessage(ctx context.Context, message *models.Message) error {
	return d.db.WithContext(ctx).Create(message).Error
}

// GetRoomMessages отдаёт последние limit сообщений комнаты, старые — первыми.
func (d *Database) GetRoomMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]models.Message, error) {
	var messages []models.Message

	err := d.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (d *Database) CountRoomMessages(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}
