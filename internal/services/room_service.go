package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chat-rooms/internal/models"
)

const (
	minRoomNameLen = 3
	maxRoomNameLen = 20
)

// RoomService — жизненный цикл комнат и разрешение членства.
type RoomService struct {
	store Store
}

func NewRoomService(store Store) *RoomService {
	return &RoomService{store: store}
}

// AnnotatedRoom — комната с раскрытым владельцем и видимым составом
// по правилу доступа.
type AnnotatedRoom struct {
	models.Room
	Owner     *models.User  `json:"user,omitempty"`
	Occupancy int           `json:"users"`
	Members   []models.User `json:"members,omitempty"`
}

type CreateRoomParams struct {
	Name     string
	OwnerID  uuid.UUID
	Password string
}

// CreateRoom создает комнату. Приватность выводится только из наличия
// пароля в запросе.
func (s *RoomService) CreateRoom(ctx context.Context, p CreateRoomParams) (*AnnotatedRoom, error) {
	existing, err := s.store.FindRoomByName(ctx, p.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err)
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	room := &models.Room{
		Name:     p.Name,
		OwnerID:  p.OwnerID,
		IsPublic: p.Password == "",
	}
	if !room.IsPublic {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash room password: %w", err)
		}
		room.PasswordHash = string(hash)
	}

	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, storeErr(err)
	}

	out := &AnnotatedRoom{Room: *room, Occupancy: 0}
	// Владельца раскрываем по возможности: его отсутствие не срывает создание.
	if owner, err := s.store.GetUser(ctx, p.OwnerID); err == nil {
		out.Owner = owner
	}

	return out, nil
}

// ListRooms возвращает все комнаты с владельцем и заполненностью.
// Пустой список — успешный результат.
func (s *RoomService) ListRooms(ctx context.Context) ([]AnnotatedRoom, error) {
	rooms, users, err := s.store.ListRoomsAndUsers(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return annotateRooms(rooms, users), nil
}

// annotateRooms — два прохода, O(rooms+users): сначала индексируем
// пользователей, затем размечаем комнаты. Никаких вложенных сканов.
func annotateRooms(rooms []models.Room, users []models.User) []AnnotatedRoom {
	byID := make(map[uuid.UUID]*models.User, len(users))
	memberCount := make(map[uuid.UUID]int, len(users))
	for i := range users {
		u := &users[i]
		byID[u.ID] = u
		if u.RoomID != nil {
			memberCount[*u.RoomID]++
		}
	}

	out := make([]AnnotatedRoom, len(rooms))
	for i := range rooms {
		room := rooms[i]
		out[i] = AnnotatedRoom{
			Room:      room,
			Owner:     byID[room.OwnerID],
			Occupancy: occupancy(&room, memberCount[room.ID], len(users)),
		}
	}
	return out
}

// GetRoom возвращает комнату с видимым составом. Только чтение.
func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*AnnotatedRoom, error) {
	room, err := s.store.FindRoomByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return s.annotateOne(ctx, room)
}

func (s *RoomService) annotateOne(ctx context.Context, room *models.Room) (*AnnotatedRoom, error) {
	out := &AnnotatedRoom{Room: *room}

	if room.IsPublic {
		members, err := s.store.FindRoomMembers(ctx, room.ID)
		if err != nil {
			return nil, storeErr(err)
		}
		out.Members = visibleMembers(room, members, nil)
		out.Occupancy = occupancy(room, len(members), 0)
		return out, nil
	}

	all, err := s.store.FindUsers(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	out.Members = visibleMembers(room, nil, all)
	out.Occupancy = occupancy(room, 0, len(all))
	return out, nil
}

// RenameRoom меняет имя комнаты и возвращает её с фактическим составом
// (без поправки на приватность, как и раньше).
func (s *RoomService) RenameRoom(ctx context.Context, oldName, newName string) (*AnnotatedRoom, error) {
	if len(newName) < minRoomNameLen || len(newName) > maxRoomNameLen {
		return nil, fmt.Errorf("%w: new room name must be between 3 and 20 characters", ErrValidation)
	}

	room, err := s.store.FindRoomByName(ctx, oldName)
	if err != nil {
		return nil, storeErr(err)
	}

	if err := s.store.UpdateRoomName(ctx, room.ID, newName); err != nil {
		return nil, storeErr(err)
	}
	room.Name = newName

	members, err := s.store.FindRoomMembers(ctx, room.ID)
	if err != nil {
		return nil, storeErr(err)
	}

	return &AnnotatedRoom{Room: *room, Occupancy: len(members), Members: members}, nil
}

// DeleteRoom удаляет комнату по имени вместе с её сообщениями и отвязывает
// участников; возвращает снимок комнаты до удаления.
func (s *RoomService) DeleteRoom(ctx context.Context, name string) (*models.Room, error) {
	room, err := s.store.FindRoomByName(ctx, name)
	if err != nil {
		return nil, storeErr(err)
	}

	if _, err := s.store.DeleteRoomCascade(ctx, room.ID); err != nil {
		return nil, storeErr(err)
	}

	return room, nil
}

// JoinRoom помещает пользователя в комнату (из какой бы он ни пришёл)
// и возвращает её с обновлённой заполненностью.
func (s *RoomService) JoinRoom(ctx context.Context, roomID, userID uuid.UUID) (*AnnotatedRoom, error) {
	room, err := s.store.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, storeErr(err)
	}

	id := room.ID
	n, err := s.store.SetUserRoom(ctx, userID, &id)
	if err != nil {
		return nil, storeErr(err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return s.annotateOne(ctx, room)
}

// LeaveRoom выводит пользователя из его текущей комнаты и возвращает её
// с обновлённой заполненностью.
func (s *RoomService) LeaveRoom(ctx context.Context, userID uuid.UUID) (*AnnotatedRoom, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if user.RoomID == nil {
		return nil, ErrNotFound
	}

	room, err := s.store.FindRoomByID(ctx, *user.RoomID)
	if err != nil {
		return nil, storeErr(err)
	}

	if _, err := s.store.SetUserRoom(ctx, userID, nil); err != nil {
		return nil, storeErr(err)
	}

	return s.annotateOne(ctx, room)
}

// RemoveUserGlobally снимает пользователя с любой комнаты (глобальная отвязка,
// не привязанная к конкретной комнате) и возвращает полный список комнат
// с пересчитанной заполненностью.
func (s *RoomService) RemoveUserGlobally(ctx context.Context, userID uuid.UUID) ([]AnnotatedRoom, error) {
	n, err := s.store.SetUserRoom(ctx, userID, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return s.ListRooms(ctx)
}

// VerifyRoomPassword проверяет пароль приватной комнаты.
// Для публичной комнаты проверка всегда успешна.
func (s *RoomService) VerifyRoomPassword(ctx context.Context, name, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	room, err := s.store.FindRoomByName(ctx, name)
	if err != nil {
		return storeErr(err)
	}
	if room.IsPublic {
		return nil
	}

	if bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(password)) != nil {
		return fmt.Errorf("%w: invalid password", ErrValidation)
	}
	return nil
}
