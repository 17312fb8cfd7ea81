package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/api/middleware"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/monitoring"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	sendBufferSize = 32
)

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
	role   domain.Role
}

type delivery struct {
	payload []byte
	// userID 0 targets every admin.
	userID uint
}

// NotificationHub fans notifications out to websocket clients. Run owns the client set.
type NotificationHub struct {
	upgrader   websocket.Upgrader
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	deliver    chan delivery
	done       chan struct{}
}

func NewNotificationHub(allowedOrigins []string) *NotificationHub {
	return &NotificationHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

func (h *NotificationHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			monitoring.SetNotificationClients(0)
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			monitoring.SetNotificationClients(len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			monitoring.SetNotificationClients(len(h.clients))
		case d := <-h.deliver:
			for c := range h.clients {
				if !d.matches(c) {
					continue
				}
				select {
				case c.send <- d.payload:
				default:
					// Slow consumer.
					close(c.send)
					delete(h.clients, c)
				}
			}
			monitoring.SetNotificationClients(len(h.clients))
		}
	}
}

func (d delivery) matches(c *client) bool {
	if d.userID == 0 {
		return c.role == domain.RoleAdmin
	}

	return c.userID == d.userID
}

func (h *NotificationHub) NotifyUser(userID uint, n domain.Notification) {
	h.enqueue(userID, n)
}

func (h *NotificationHub) NotifyAdmins(n domain.Notification) {
	h.enqueue(0, n)
}

func (h *NotificationHub) enqueue(userID uint, n domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		zap.L().Error("failed to encode notification", zap.Error(err))
		return
	}

	select {
	case h.deliver <- delivery{payload: payload, userID: userID}:
	default:
		zap.L().Warn("notification dropped", zap.String("type", string(n.Type)), zap.Uint("user_id", userID))
	}
}

// HandleWebSocket godoc
// @Summary      Subscribe to live notifications
// @Description  Upgrades to a websocket that streams payment and event notifications for the caller. Admins also receive approval queue updates. Browsers may pass the token as a query parameter.
// @Tags         notifications
// @Produce      json
// @Param        token  query     string  false  "JWT when the Authorization header cannot be set"
// @Success      101    {object}  domain.Notification
// @Failure      401    {object}  response.Err
// @Router       /notifications/ws [get]
// @Security BearerAuth
func (h *NotificationHub) HandleWebSocket(ctx *gin.Context) {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("Not authorized, no token"))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader already wrote the HTTP error.
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: actor.ID,
		role:   actor.Role,
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; clients do not send notifications.
func (c *client) readPump(h *NotificationHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("websocket closed", zap.Uint("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}
