package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"chat-rooms/internal/handlers"
	"chat-rooms/internal/middleware"
	"chat-rooms/pkg/auth"
)

func APIEndpoints(r *gin.Engine, authH *handlers.AuthHandler, roomH *handlers.RoomHandler, wsH *handlers.WSHandler, jwtMgr *auth.JWTManager, rdb *redis.Client) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// Room endpoints
	api := r.Group("/api/room", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("", roomH.ListRooms)
		api.GET("/:room_id", roomH.GetRoom)
		api.POST("", roomH.CreateRoom)
		api.POST("/verify", roomH.VerifyPassword)
		api.POST("/update/name", roomH.RenameRoom)
		api.POST("/join", roomH.JoinRoom)
		api.POST("/remove/users", roomH.LeaveRoom)
		api.PUT("/remove/users/all", roomH.RemoveUserGlobally)
		api.DELETE("/:room_name", roomH.DeleteRoom)
	}

	// WebSocket endpoint
	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.Serve)
}
