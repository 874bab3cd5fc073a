package controllers

import (
	"errors"
	"net/http"

	"wanderhub/middlewares"
	"wanderhub/models"
	"wanderhub/services"

	"github.com/gin-gonic/gin"
)

type EngagementController struct {
	engagement *services.EngagementService
}

func NewEngagementController(engagement *services.EngagementService) *EngagementController {
	return &EngagementController{engagement: engagement}
}

func contentTypeParam(c *gin.Context) (models.ContentType, bool) {
	t := models.ContentType(c.Param("contentType"))
	if !t.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown content type"})
		return "", false
	}
	return t, true
}

// ToggleLike flips the like state for the current user on a content item.
func (ec *EngagementController) ToggleLike(c *gin.Context) {
	contentType, ok := contentTypeParam(c)
	if !ok {
		return
	}
	userID := middlewares.CurrentUserID(c)

	state, err := ec.engagement.ToggleLike(c.Request.Context(), contentType, c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	message := "Liked"
	if !state.Liked {
		message = "Unliked"
	}
	c.JSON(http.StatusOK, gin.H{"liked": state.Liked, "count": state.Count, "message": message})
}

// GetLikes returns the like count and the current user's like state.
func (ec *EngagementController) GetLikes(c *gin.Context) {
	contentType, ok := contentTypeParam(c)
	if !ok {
		return
	}
	contentID := c.Param("id")
	userID := middlewares.CurrentUserID(c)

	liked := false
	if userID != "" {
		var err error
		liked, err = ec.engagement.Liked(c.Request.Context(), contentType, contentID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check like state"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment creates a comment on a content item.
func (ec *EngagementController) AddComment(c *gin.Context) {
	contentType, ok := contentTypeParam(c)
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	userID := middlewares.CurrentUserID(c)

	comment, err := ec.engagement.AddComment(c.Request.Context(), contentType, c.Param("id"), userID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrEmptyComment) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments returns a content item's comments, newest first.
func (ec *EngagementController) ListComments(c *gin.Context) {
	contentType, ok := contentTypeParam(c)
	if !ok {
		return
	}

	comments, err := ec.engagement.ListComments(c.Request.Context(), contentType, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// DeleteComment removes the current user's own comment.
func (ec *EngagementController) DeleteComment(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)
	err := ec.engagement.DeleteComment(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotCommentOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Comment not found or you don't have permission"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
