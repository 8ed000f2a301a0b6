package services

import (
	"context"

	"github.com/google/uuid"

	"chat-rooms/internal/models"
)

// Store — срез слоя хранения, который нужен сервису комнат.
// Реализуется internal/database; отсутствие записи — gorm.ErrRecordNotFound.
type Store interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	FindRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	FindRoomByName(ctx context.Context, name string) (*models.Room, error)
	ListRoomsAndUsers(ctx context.Context) ([]models.Room, []models.User, error)
	UpdateRoomName(ctx context.Context, id uuid.UUID, newName string) error
	DeleteRoomCascade(ctx context.Context, id uuid.UUID) (int64, error)

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUsers(ctx context.Context) ([]models.User, error)
	FindRoomMembers(ctx context.Context, roomID uuid.UUID) ([]models.User, error)
	SetUserRoom(ctx context.Context, userID uuid.UUID, roomID *uuid.UUID) (int64, error)
}
