package dto

// По запросу на каждую операцию — отдельная типизированная структура,
// никаких нетипизированных мешков полей.

type CreateRoomRequest struct {
	Name     string `json:"room_name" binding:"required,min=3,max=20"`
	Password string `json:"password"`
}

type VerifyRoomRequest struct {
	Name     string `json:"room_name" binding:"required"`
	Password string `json:"password"`
}

type RenameRoomRequest struct {
	OldName string `json:"room_name" binding:"required"`
	NewName string `json:"new_room_name" binding:"required"`
}

type JoinRoomRequest struct {
	RoomID string `json:"room_id" binding:"required,uuid"`
}

type RemoveUserRequest struct {
	UserID string `json:"userid" binding:"required,uuid"`
}
