package websocket

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-rooms/internal/models"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер кадра
	maxFrameSize = 64 * 1024
)

type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	RoomID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, roomID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		RoomID: roomID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
	}
}

// ReadPump читает кадры клиента: сообщения сохраняются в хранилище
// и рассылаются остальным участникам комнаты
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame Frame
		if err := c.Conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch frame.Type {
		case TypePong:
			continue

		case TypeMessage:
			if err := c.handleMessage(frame); err != nil {
				log.Printf("Error handling message: %v", err)
			}
		}
	}
}

func (c *Client) handleMessage(frame Frame) error {
	if strings.TrimSpace(frame.Body) == "" {
		return ErrEmptyBody
	}

	msg := &models.Message{
		RoomID:    c.RoomID,
		UserID:    c.UserID,
		Body:      frame.Body,
		CreatedAt: time.Now(),
	}
	if err := c.Hub.store.SaveMessage(context.Background(), msg); err != nil {
		return err
	}

	c.Hub.Broadcast(c.RoomID, Frame{
		Type:      TypeMessage,
		RoomID:    c.RoomID,
		UserID:    c.UserID,
		Body:      frame.Body,
		Timestamp: msg.CreatedAt,
	})
	return nil
}

// enqueue ставит кадр в очередь отправки, не блокируя hub.
func (c *Client) enqueue(data []byte) error {
	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// WritePump отправляет кадры клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
