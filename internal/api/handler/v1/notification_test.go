package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventhub-api/internal/domain"
)

func newHubServer(t *testing.T) (*NotificationHub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewNotificationHub(nil)
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", func(ctx *gin.Context) {
		id, _ := strconv.Atoi(ctx.Query("id"))
		ctx.Set("actor", domain.Actor{ID: uint(id), Role: domain.Role(ctx.Query("role"))})
		ctx.Next()
	}, hub.HandleWebSocket)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dialHub(t *testing.T, url string) <-chan domain.Notification {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	received := make(chan domain.Notification, 64)
	go func() {
		defer close(received)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var n domain.Notification
			if json.Unmarshal(data, &n) == nil {
				received <- n
			}
		}
	}()

	return received
}

func TestNotificationHub_RoutesByRecipient(t *testing.T) {
	hub, url := newHubServer(t)

	admin := dialHub(t, url+"?id=1&role=admin")
	user := dialHub(t, url+"?id=7&role=user")

	var first struct{ admin, user *domain.Notification }
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	// Registration happens after the upgrade returns, so keep publishing until both
	// clients have been reached.
	for first.admin == nil || first.user == nil {
		select {
		case n := <-admin:
			if first.admin == nil {
				first.admin = &n
			}
		case n := <-user:
			if first.user == nil {
				first.user = &n
			}
		case <-tick.C:
			hub.NotifyAdmins(domain.Notification{Type: domain.NotificationPaymentSubmitted, PaymentID: 3})
			hub.NotifyUser(7, domain.Notification{Type: domain.NotificationPaymentApproved, PaymentID: 3})
			hub.NotifyUser(8, domain.Notification{Type: domain.NotificationPaymentRejected, PaymentID: 4})
		case <-deadline:
			t.Fatal("notifications not delivered")
		}
	}

	assert.Equal(t, domain.NotificationPaymentSubmitted, first.admin.Type)
	assert.Equal(t, domain.NotificationPaymentApproved, first.user.Type)
	assert.Equal(t, uint(3), first.user.PaymentID)
}

func TestNotificationHub_RequiresActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewNotificationHub(nil)

	router := gin.New()
	router.GET("/ws", hub.HandleWebSocket)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized, no token")
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://app.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))
}
