package websocket

import (
	"context"
	"log"
	"net/http"

	"wanderhub/models"
	"wanderhub/services"

	"github.com/gin-gonic/gin"
)

// CommentStream pushes the live comment list for one content item. Comments
// are public, so no auth is required to subscribe.
type CommentStream struct {
	hub        *hub
	engagement *services.EngagementService
}

func NewCommentStream(engagement *services.EngagementService) *CommentStream {
	return &CommentStream{hub: newHub(), engagement: engagement}
}

func commentKey(contentType models.ContentType, contentID string) string {
	return string(contentType) + "/" + contentID
}

type commentSnapshot struct {
	Type     string           `json:"type"`
	Comments []models.Comment `json:"comments"`
}

// PublishComments implements services.CommentPublisher.
func (s *CommentStream) PublishComments(contentType models.ContentType, contentID string) {
	snap, err := s.snapshot(contentType, contentID)
	if err != nil {
		log.Printf("comment snapshot for %s/%s failed: %v", contentType, contentID, err)
		return
	}
	s.hub.broadcast(commentKey(contentType, contentID), snap)
}

func (s *CommentStream) snapshot(contentType models.ContentType, contentID string) (commentSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	comments, err := s.engagement.ListComments(ctx, contentType, contentID)
	if err != nil {
		return commentSnapshot{}, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return commentSnapshot{Type: "comments", Comments: comments}, nil
}

func (s *CommentStream) Handler(c *gin.Context) {
	contentType := models.ContentType(c.Param("contentType"))
	if !contentType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type"})
		return
	}
	contentID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	key := commentKey(contentType, contentID)
	cl := newClient(conn)
	s.hub.add(key, cl)
	defer func() {
		s.hub.remove(key, cl)
		conn.Close()
	}()

	if snap, err := s.snapshot(contentType, contentID); err == nil {
		if err := cl.send(snap); err != nil {
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
