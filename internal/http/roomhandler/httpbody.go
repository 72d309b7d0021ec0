package roomhandler

type CreateRoomBody struct {
	Name string `json:"name" binding:"required" example:"gophers"`
}

type RoomListResponse struct {
	Rooms []string `json:"rooms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
