package roomhandler

import (
	"errors"
	"net/http"

	"chatrelaygo/internal/chat"

	"github.com/gin-gonic/gin"
)

// Handler exposes the room registry over plain HTTP, mirroring the
// create_room / room-list WS events for non-socket clients.
type Handler struct {
	reg *chat.Registry
	svc chat.IChatService
}

func New(reg *chat.Registry, svc chat.IChatService) *Handler {
	return &Handler{reg: reg, svc: svc}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/rooms", h.list)
	r.POST("/rooms", h.create)
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, RoomListResponse{Rooms: h.reg.RoomNames()})
}

// create registers a room and pushes the refreshed room list to every
// connected WS client, same semantics as the create_room event.
func (h *Handler) create(c *gin.Context) {
	var body CreateRoomBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.svc.CreateRoom(body.Name); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, chat.ErrRoomExists) {
			status = http.StatusConflict
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, RoomListResponse{Rooms: h.reg.RoomNames()})
}
