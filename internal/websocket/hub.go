package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-rooms/internal/models"
)

// FrameType определяет типы кадров
type FrameType string

const (
	TypePing FrameType = "ping"
	TypePong FrameType = "pong"

	TypeMessage FrameType = "message"

	TypeRoomRenamed FrameType = "room_renamed"
	TypeRoomDeleted FrameType = "room_deleted"
)

type Frame struct {
	Type      FrameType `json:"type"`
	RoomID    uuid.UUID `json:"room_id,omitempty"`
	UserID    uuid.UUID `json:"user_id,omitempty"`
	Body      string    `json:"body,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// historyLimit — сколько последних сообщений комнаты получает клиент
// при подключении.
const historyLimit = 50

// MessageStore — то, что hub'у нужно от хранилища.
type MessageStore interface {
	SaveMessage(ctx context.Context, message *models.Message) error
	GetRoomMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]models.Message, error)
}

// Hub держит подключённых клиентов по комнатам. Клиент состоит ровно
// в одной комнате — как и пользователь в модели данных.
type Hub struct {
	clients map[uuid.UUID]*Client
	rooms   map[uuid.UUID]map[uuid.UUID]*Client

	store MessageStore

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(store MessageStore) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[uuid.UUID]map[uuid.UUID]*Client),
		store:      store,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)
			h.sendHistory(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub и закрывает все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.rooms = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if _, ok := h.rooms[client.RoomID]; !ok {
		h.rooms[client.RoomID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[client.RoomID][client.ID] = client

	log.Printf("Client registered: %s (user %s, room %s)", client.ID, client.UserID, client.RoomID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	delete(h.clients, client.ID)
	if room, ok := h.rooms[client.RoomID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, client.RoomID)
		}
	}
	close(client.Send)

	log.Printf("Client unregistered: %s (user %s)", client.ID, client.UserID)
}

// Broadcast рассылает кадр всем клиентам комнаты
func (h *Hub) Broadcast(roomID uuid.UUID, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[roomID] {
		if err := client.enqueue(data); err != nil {
			log.Printf("Drop frame for client %s: %v", client.ID, err)
		}
	}
}

// sendHistory выдаёт новому клиенту последние сообщения его комнаты,
// старые — первыми.
func (h *Hub) sendHistory(client *Client) {
	messages, err := h.store.GetRoomMessages(h.ctx, client.RoomID, historyLimit)
	if err != nil {
		log.Printf("Failed to load history for room %s: %v", client.RoomID, err)
		return
	}

	for _, m := range messages {
		data, err := json.Marshal(Frame{
			Type:      TypeMessage,
			RoomID:    m.RoomID,
			UserID:    m.UserID,
			Body:      m.Body,
			Timestamp: m.CreatedAt,
		})
		if err != nil {
			continue
		}
		if err := client.enqueue(data); err != nil {
			log.Printf("Drop history for client %s: %v", client.ID, err)
			return
		}
	}
}

// NotifyRoomRenamed уведомляет участников о новом имени комнаты
func (h *Hub) NotifyRoomRenamed(roomID uuid.UUID, newName string) {
	h.Broadcast(roomID, Frame{
		Type:      TypeRoomRenamed,
		RoomID:    roomID,
		Body:      newName,
		Timestamp: time.Now(),
	})
}

// NotifyRoomDeleted уведомляет участников и выкидывает их из комнаты
func (h *Hub) NotifyRoomDeleted(roomID uuid.UUID) {
	h.Broadcast(roomID, Frame{
		Type:      TypeRoomDeleted,
		RoomID:    roomID,
		Timestamp: time.Now(),
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomID)
}

// RoomUsers возвращает подключённых пользователей комнаты
func (h *Hub) RoomUsers(roomID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	users := make([]uuid.UUID, 0)
	for _, client := range h.rooms[roomID] {
		if !seen[client.UserID] {
			seen[client.UserID] = true
			users = append(users, client.UserID)
		}
	}
	return users
}

func (h *Hub) ping() {
	data, err := json.Marshal(Frame{Type: TypePing, Timestamp: time.Now()})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		_ = client.enqueue(data)
	}
}
