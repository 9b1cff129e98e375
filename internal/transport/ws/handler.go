package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"promptcraft/internal/domain"
	"promptcraft/internal/pkg/logger"
)

// Close codes for handshake failures.
const (
	closeMissingToken = 4001
	closeInvalidToken = 4002
	closeUserInactive = 4003
)

type inboundMessage struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

// Handler upgrades GET /ws?token=... connections and attaches them to the
// hub. Browsers cannot set headers on websocket dials, so the token rides
// the query string.
type Handler struct {
	hub      *Hub
	validate func(token string) (uuid.UUID, error)
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewHandler(hub *Hub, validate func(token string) (uuid.UUID, error), allowedOrigins []string, log *logger.Logger) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = true
	}

	return &Handler{
		hub:      hub,
		validate: validate,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
	}
}

func (h *Handler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	token := c.Query("token")
	if token == "" {
		closeWith(conn, closeMissingToken, "missing token")
		return
	}

	userID, err := h.validate(token)
	if err != nil {
		code := closeInvalidToken
		if errors.Is(err, domain.ErrUserInactive) {
			code = closeUserInactive
		}
		closeWith(conn, code, err.Error())
		return
	}

	ch := newChannel(conn)
	h.hub.Attach(userID, ch)
	h.log.Info("websocket connected", "user", userID)

	ch.Send(domain.NewEvent("connected", gin.H{"userId": userID}))

	go h.readPump(conn, userID, ch)
}

// readPump consumes client frames until the connection dies. Clients may
// send ping and subscribe messages; everything else is ignored.
func (h *Handler) readPump(conn *websocket.Conn, userID uuid.UUID, ch *wsChannel) {
	defer func() {
		h.hub.Detach(userID, ch)
		h.log.Info("websocket disconnected", "user", userID)
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongTimeout))

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if ev, ok := reply(msg); ok {
			ch.Send(ev)
		}
	}
}

// reply maps an inbound client message to its response event. Unknown types
// get no reply.
func reply(msg inboundMessage) (domain.Event, bool) {
	switch msg.Type {
	case "ping":
		return domain.NewEvent("pong", gin.H{"timestamp": time.Now().UTC()}), true
	case "subscribe":
		channels := msg.Channels
		if channels == nil {
			channels = []string{}
		}
		return domain.NewEvent("subscribed", gin.H{"channels": channels}), true
	}
	return domain.Event{}, false
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(writeTimeout))
	conn.Close()
}
