package ws

import (
	"net/http"
	"time"

	"chatrelaygo/internal/chat"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second // must be < pongWait
)

type WsServer struct {
	hub       *Hub
	router    *Router
	chatSvc   chat.IChatService
	readLimit int64
}

func NewWsServer(h *Hub, chatSvc chat.IChatService, readLimit int64) *WsServer {
	srv := &WsServer{
		hub:       h,
		router:    NewRouter(),
		chatSvc:   chatSvc,
		readLimit: readLimit,
	}
	srv.registerHandlers() // ← all WS events configured here
	return srv
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // dev-only
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(s.readLimit)

	// ─────────────────── Client connected ────────────────────────
	connID := uuid.NewString()
	wsConn := &clientConn{rawConn: rawConn}
	s.hub.Add(connID, wsConn)

	// Initial room list.
	s.chatSvc.Connected(connID)

	go s.reader(connID, wsConn)
	go s.pinger(wsConn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	Register(s.router, "join_room",
		func(c *ConnContext, req JoinRoomRequest) error {
			return s.chatSvc.JoinRoom(c.ConnID, req.Username, req.Room)
		},
	)
	Register(s.router, "create_room",
		func(c *ConnContext, roomName string) error {
			return s.chatSvc.CreateRoom(roomName)
		},
	)
	Register(s.router, "switch_room",
		func(c *ConnContext, req SwitchRoomRequest) error {
			return s.chatSvc.SwitchRoom(c.ConnID, req.NewRoom)
		},
	)
	Register(s.router, "send_message",
		func(c *ConnContext, text string) error {
			return s.chatSvc.SendMessage(c.ConnID, text)
		},
	)
	Register(s.router, "private_message",
		func(c *ConnContext, req PrivateMessageRequest) error {
			return s.chatSvc.PrivateMessage(c.ConnID, req.TargetUsername, req.Message)
		},
	)
	Register(s.router, "typing",
		func(c *ConnContext, isTyping bool) error {
			return s.chatSvc.Typing(c.ConnID, isTyping)
		},
	)
}

func (s *WsServer) reader(connID string, conn *clientConn) {
	defer func() {
		s.hub.Remove(connID)
		s.chatSvc.Disconnected(connID)
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{ConnID: connID, Server: s}

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		// Guarded no-ops (no session yet, unknown target, duplicate
		// room) and malformed payloads are dropped here; nothing is
		// written back to the client.
		if err := s.router.dispatch(cc, env); err != nil {
			zap.L().Debug("ws.dispatch",
				zap.String("conn_id", connID),
				zap.String("event", env.Event),
				zap.Error(err),
			)
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			conn.close()
			return
		}
	}
}
