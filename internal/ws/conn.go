package ws

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/whisperbox/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Client is one websocket connection owned by a user
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// originChecker allows browser dials from the configured public origin only.
// Requests without an Origin header (non-browser clients) pass, and an
// unset base URL leaves the check open for local development.
func originChecker(baseURL string) func(r *http.Request) bool {
	allowed, err := url.Parse(baseURL)
	if err != nil || allowed.Host == "" {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, allowed.Host)
	}
}

// Serve upgrades a connection to the live inbox feed. Browsers cannot set
// headers on websocket dials, so the token is also accepted as a query
// parameter.
func Serve(hub *Hub, authService *service.AuthService, baseURL string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: originChecker(baseURL),
	}
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			authz := c.GetHeader("Authorization")
			if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
				token = authz[7:]
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, sendBuffer),
			userID: claims.UserID,
		}
		hub.register(client)

		go client.writePump()
		go client.readPump()
	}
}

// readPump discards inbound frames; the feed is push-only. It exists to
// process control frames and detect closed connections.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
