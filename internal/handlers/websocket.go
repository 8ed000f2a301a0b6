package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-rooms/internal/middleware"
	"chat-rooms/internal/services"
	ws "chat-rooms/internal/websocket"
)

// WSHandler апгрейдит соединение и подключает клиента к его комнате
type WSHandler struct {
	hub      *ws.Hub
	rooms    *services.RoomService
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, rooms *services.RoomService) *WSHandler {
	return &WSHandler{
		hub:   hub,
		rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: проверять origin в проде
				return true
			},
		},
	}
}

func (h *WSHandler) Serve(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Query("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	// Комната должна существовать до апгрейда
	if _, err := h.rooms.GetRoom(c.Request.Context(), roomID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, userID, roomID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
