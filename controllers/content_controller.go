package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"wanderhub/middlewares"
	"wanderhub/services"
	"wanderhub/store"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	content  *services.ContentService
	trending *services.TrendingService
}

func NewContentController(content *services.ContentService, trending *services.TrendingService) *ContentController {
	return &ContentController{content: content, trending: trending}
}

func feedLimit(c *gin.Context) int64 {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	return limit
}

func (cc *ContentController) deleteError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotContentOwner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not found or you don't have permission"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete"})
}

// Stories

func (cc *ContentController) CreateStory(c *gin.Context) {
	var req services.NewStory
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	story, err := cc.content.CreateStory(c.Request.Context(), middlewares.CurrentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create story"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"story": story})
}

func (cc *ContentController) ListStories(c *gin.Context) {
	stories, err := cc.content.ListStories(c.Request.Context(), feedLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func (cc *ContentController) GetStory(c *gin.Context) {
	story, err := cc.content.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch story"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"story": story})
}

func (cc *ContentController) DeleteStory(c *gin.Context) {
	if err := cc.content.DeleteStory(c.Request.Context(), c.Param("id"), middlewares.CurrentUserID(c)); err != nil {
		cc.deleteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story deleted successfully"})
}

// Routes

func (cc *ContentController) CreateRoute(c *gin.Context) {
	var req services.NewRoute
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	route, err := cc.content.CreateRoute(c.Request.Context(), middlewares.CurrentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create route"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": route})
}

func (cc *ContentController) ListRoutes(c *gin.Context) {
	routes, err := cc.content.ListRoutes(c.Request.Context(), feedLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch routes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

func (cc *ContentController) GetRoute(c *gin.Context) {
	route, err := cc.content.GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch route"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

func (cc *ContentController) DeleteRoute(c *gin.Context) {
	if err := cc.content.DeleteRoute(c.Request.Context(), c.Param("id"), middlewares.CurrentUserID(c)); err != nil {
		cc.deleteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}

// TrendingRoutes returns the routes with the most like activity.
func (cc *ContentController) TrendingRoutes(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	routes, err := cc.trending.TopRoutes(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trending routes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// Posts

func (cc *ContentController) CreatePost(c *gin.Context) {
	var req services.NewPost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	post, err := cc.content.CreatePost(c.Request.Context(), middlewares.CurrentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (cc *ContentController) ListPosts(c *gin.Context) {
	posts, err := cc.content.ListPosts(c.Request.Context(), feedLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (cc *ContentController) GetPost(c *gin.Context) {
	post, err := cc.content.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (cc *ContentController) DeletePost(c *gin.Context) {
	if err := cc.content.DeletePost(c.Request.Context(), c.Param("id"), middlewares.CurrentUserID(c)); err != nil {
		cc.deleteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// SharePost bumps the post's share counter.
func (cc *ContentController) SharePost(c *gin.Context) {
	shares, err := cc.content.SharePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares})
}
