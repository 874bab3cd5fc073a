package websocket

import (
	"context"
	"log"
	"net/http"
	"time"

	"wanderhub/services"
	"wanderhub/utils"

	"github.com/gin-gonic/gin"
)

const snapshotTimeout = 5 * time.Second

// InboxStream pushes a user's notification inbox over a websocket. A full
// snapshot is sent on connect and again whenever the inbox changes.
type InboxStream struct {
	hub           *hub
	notifications *services.NotificationService
	jwtSecret     string
}

func NewInboxStream(notifications *services.NotificationService, jwtSecret string) *InboxStream {
	return &InboxStream{hub: newHub(), notifications: notifications, jwtSecret: jwtSecret}
}

type inboxSnapshot struct {
	Type          string `json:"type"`
	Notifications any    `json:"notifications"`
	Unread        int64  `json:"unread"`
}

// NotifyUser implements services.InboxNotifier.
func (s *InboxStream) NotifyUser(userID string) {
	snap, err := s.snapshot(userID)
	if err != nil {
		log.Printf("inbox snapshot for %s failed: %v", userID, err)
		return
	}
	s.hub.broadcast(userID, snap)
}

func (s *InboxStream) snapshot(userID string) (inboxSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	items, err := s.notifications.Inbox(ctx, userID)
	if err != nil {
		return inboxSnapshot{}, err
	}
	unread, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return inboxSnapshot{}, err
	}
	return inboxSnapshot{Type: "notifications", Notifications: items, Unread: unread}, nil
}

// Handler upgrades the connection and streams inbox snapshots. Auth uses a
// token query parameter since browsers cannot set headers on websockets.
func (s *InboxStream) Handler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	userID, err := utils.ValidateToken(s.jwtSecret, token)
	if err != nil {
		log.Printf("websocket connection failed: invalid token - %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	cl := newClient(conn)
	s.hub.add(userID, cl)
	defer func() {
		s.hub.remove(userID, cl)
		conn.Close()
	}()

	if snap, err := s.snapshot(userID); err == nil {
		if err := cl.send(snap); err != nil {
			return
		}
	}

	// Hold the connection open; clients send nothing of interest.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
