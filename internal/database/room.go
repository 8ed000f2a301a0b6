package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chat-rooms/internal/models"
)

func (d *Database) CreateRoom(ctx context.Context, room *models.Room) error {
	return d.db.WithContext(ctx).Create(room).Error
}

func (d *Database) FindRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := d.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) FindRoomByName(ctx context.Context, name string) (*models.Room, error) {
	var room models.Room
	if err := d.db.WithContext(ctx).First(&room, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// ListRoomsAndUsers снимает обе коллекции внутри одной транзакции, чтобы
// заполненность комнат не считалась по устаревшему списку пользователей.
func (d *Database) ListRoomsAndUsers(ctx context.Context) ([]models.Room, []models.User, error) {
	var rooms []models.Room
	var users []models.User

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("created_at").Find(&rooms).Error; err != nil {
			return err
		}
		return tx.Find(&users).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return rooms, users, nil
}

func (d *Database) UpdateRoomName(ctx context.Context, id uuid.UUID, newName string) error {
	return d.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", id).
		Update("name", newName).Error
}

// DeleteRoomCascade атомарно удаляет сообщения комнаты, отвязывает её
// участников и удаляет саму запись. Возвращает число удалённых сообщений.
func (d *Database) DeleteRoomCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Message{}, "room_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		if err := tx.Model(&models.User{}).
			Where("room_id = ?", id).
			Update("room_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Room{}, "id = ?", id).Error
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
