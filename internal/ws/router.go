package ws

import (
	"encoding/json"
	"errors"
	"sync"
)

// ConnContext carries per-connection identity into handlers.
type ConnContext struct {
	ConnID string
	Server *WsServer
}

// internal (untyped) handler signature.
type rawHandler func(c *ConnContext, body json.RawMessage) error

// Router keeps a map[event]handler, à-la gin.Engine. Handlers are
// fire-and-forget: an error is logged by the reader loop, never surfaced
// to the client.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]rawHandler
}

func NewRouter() *Router { return &Router{handlers: make(map[string]rawHandler)} }

var errUnknownEvent = errors.New("unknown_event")

// Register binds an event to a strongly-typed handler. A malformed body is
// reported as a decode error and dropped before the handler runs.
func Register[Req any](
	r *Router,
	event string,
	h func(c *ConnContext, req Req) error,
) {
	if event == "" {
		panic("ws router: empty event")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[event] = func(c *ConnContext, body json.RawMessage) error {
		var req Req
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return err
			}
		}
		return h(c, req)
	}
}

// dispatch is called by the server's reader loop.
func (r *Router) dispatch(c *ConnContext, env Envelope) error {
	r.mu.RLock()
	h, ok := r.handlers[env.Event]
	r.mu.RUnlock()
	if !ok {
		return errUnknownEvent
	}
	return h(c, env.Body)
}
