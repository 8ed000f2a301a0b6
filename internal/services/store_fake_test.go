package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chat-rooms/internal/models"
)

// fakeStore — хранилище в памяти для тестов сервиса.
type fakeStore struct {
	rooms    []*models.Room
	users    []*models.User
	messages []*models.Message
	failing  bool
}

var errStoreDown = errors.New("connection refused")

func (f *fakeStore) CreateRoom(_ context.Context, room *models.Room) error {
	if f.failing {
		return errStoreDown
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	stored := *room
	f.rooms = append(f.rooms, &stored)
	return nil
}

func (f *fakeStore) FindRoomByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	if f.failing {
		return nil, errStoreDown
	}
	for _, r := range f.rooms {
		if r.ID == id {
			room := *r
			return &room, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) FindRoomByName(_ context.Context, name string) (*models.Room, error) {
	if f.failing {
		return nil, errStoreDown
	}
	for _, r := range f.rooms {
		if r.Name == name {
			room := *r
			return &room, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ListRoomsAndUsers(_ context.Context) ([]models.Room, []models.User, error) {
	if f.failing {
		return nil, nil, errStoreDown
	}
	rooms := make([]models.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		rooms = append(rooms, *r)
	}
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	return rooms, users, nil
}

func (f *fakeStore) UpdateRoomName(_ context.Context, id uuid.UUID, newName string) error {
	if f.failing {
		return errStoreDown
	}
	for _, r := range f.rooms {
		if r.ID == id {
			r.Name = newName
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStore) DeleteRoomCascade(_ context.Context, id uuid.UUID) (int64, error) {
	if f.failing {
		return 0, errStoreDown
	}

	var deleted int64
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.RoomID == id {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.messages = kept

	for _, u := range f.users {
		if u.RoomID != nil && *u.RoomID == id {
			u.RoomID = nil
		}
	}

	for i, r := range f.rooms {
		if r.ID == id {
			f.rooms = append(f.rooms[:i], f.rooms[i+1:]...)
			break
		}
	}

	return deleted, nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.failing {
		return nil, errStoreDown
	}
	for _, u := range f.users {
		if u.ID == id {
			user := *u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) FindUsers(_ context.Context) ([]models.User, error) {
	if f.failing {
		return nil, errStoreDown
	}
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeStore) FindRoomMembers(_ context.Context, roomID uuid.UUID) ([]models.User, error) {
	if f.failing {
		return nil, errStoreDown
	}
	members := make([]models.User, 0)
	for _, u := range f.users {
		if u.RoomID != nil && *u.RoomID == roomID {
			members = append(members, *u)
		}
	}
	return members, nil
}

func (f *fakeStore) SetUserRoom(_ context.Context, userID uuid.UUID, roomID *uuid.UUID) (int64, error) {
	if f.failing {
		return 0, errStoreDown
	}
	for _, u := range f.users {
		if u.ID == userID {
			u.RoomID = roomID
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) addUser(username string) *models.User {
	user := &models.User{ID: uuid.New(), Username: username, Email: username + "@test.local"}
	f.users = append(f.users, user)
	return user
}

func (f *fakeStore) addMessage(roomID, userID uuid.UUID, body string) {
	f.messages = append(f.messages, &models.Message{
		ID:     uuid.New(),
		RoomID: roomID,
		UserID: userID,
		Body:   body,
	})
}

func (f *fakeStore) countMessages(roomID uuid.UUID) int {
	n := 0
	for _, m := range f.messages {
		if m.RoomID == roomID {
			n++
		}
	}
	return n
}
