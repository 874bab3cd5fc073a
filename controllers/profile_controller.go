package controllers

import (
	"errors"
	"net/http"

	"wanderhub/middlewares"
	"wanderhub/services"
	"wanderhub/store"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	users *services.UserService
}

func NewProfileController(users *services.UserService) *ProfileController {
	return &ProfileController{users: users}
}

// Me returns the caller's own profile.
func (pc *ProfileController) Me(c *gin.Context) {
	user, err := pc.users.Get(c.Request.Context(), middlewares.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (pc *ProfileController) GetUser(c *gin.Context) {
	user, err := pc.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := pc.users.UpdateProfile(c.Request.Context(), middlewares.CurrentUserID(c), req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

type usernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// ClaimUsername reserves a unique handle for the caller.
func (pc *ProfileController) ClaimUsername(c *gin.Context) {
	var req usernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	username, err := pc.users.ClaimUsername(c.Request.Context(), middlewares.CurrentUserID(c), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Username is already taken"})
		case errors.Is(err, services.ErrInvalidUsername):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim username"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}

func (pc *ProfileController) Follow(c *gin.Context) {
	err := pc.users.Follow(c.Request.Context(), middlewares.CurrentUserID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Followed"})
}

func (pc *ProfileController) Unfollow(c *gin.Context) {
	if err := pc.users.Unfollow(c.Request.Context(), middlewares.CurrentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}
