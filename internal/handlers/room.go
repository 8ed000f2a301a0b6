package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat-rooms/internal/handlers/dto"
	"chat-rooms/internal/middleware"
	"chat-rooms/internal/services"
	"chat-rooms/internal/websocket"
)

type RoomHandler struct {
	rooms *services.RoomService
	hub   *websocket.Hub
}

func NewRoomHandler(rooms *services.RoomService, hub *websocket.Hub) *RoomHandler {
	return &RoomHandler{rooms: rooms, hub: hub}
}

// respondError отображает ошибки сервиса на статусы HTTP
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrNameTaken), errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// ListRooms отдаёт все комнаты с владельцем и заполненностью
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// roomPresenceResponse добавляет к комнате подключённых по WebSocket
type roomPresenceResponse struct {
	*services.AnnotatedRoom
	OnlineUsers []uuid.UUID `json:"online_users"`
}

// GetRoom отдаёт комнату с видимым составом
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, err := h.rooms.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roomPresenceResponse{
		AnnotatedRoom: room,
		OnlineUsers:   h.hub.RoomUsers(room.ID),
	})
}

// CreateRoom создает комнату; приватность определяется наличием пароля
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), services.CreateRoomParams{
		Name:     req.Name,
		OwnerID:  userID,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// VerifyPassword проверяет пароль приватной комнаты перед входом
func (h *RoomHandler) VerifyPassword(c *gin.Context) {
	var req dto.VerifyRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rooms.VerifyRoomPassword(c.Request.Context(), req.Name, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RenameRoom переименовывает комнату и сообщает её участникам
func (h *RoomHandler) RenameRoom(c *gin.Context) {
	var req dto.RenameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.RenameRoom(c.Request.Context(), req.OldName, req.NewName)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.NotifyRoomRenamed(room.ID, room.Name)

	c.JSON(http.StatusOK, room)
}

// DeleteRoom удаляет комнату с каскадом сообщений и отвязкой участников
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	room, err := h.rooms.DeleteRoom(c.Request.Context(), c.Param("room_name"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.NotifyRoomDeleted(room.ID)

	c.JSON(http.StatusOK, room)
}

// JoinRoom помещает текущего пользователя в комнату
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	roomID := uuid.MustParse(req.RoomID)

	room, err := h.rooms.JoinRoom(c.Request.Context(), roomID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// LeaveRoom выводит текущего пользователя из его комнаты
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	room, err := h.rooms.LeaveRoom(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// RemoveUserGlobally отвязывает произвольного пользователя от любой комнаты
// и возвращает полный список комнат
func (h *RoomHandler) RemoveUserGlobally(c *gin.Context) {
	var req dto.RemoveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := uuid.MustParse(req.UserID)

	rooms, err := h.rooms.RemoveUserGlobally(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}
