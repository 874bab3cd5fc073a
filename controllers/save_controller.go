package controllers

import (
	"errors"
	"net/http"

	"wanderhub/middlewares"
	"wanderhub/models"
	"wanderhub/services"

	"github.com/gin-gonic/gin"
)

type SaveController struct {
	saves *services.SaveService
}

func NewSaveController(saves *services.SaveService) *SaveController {
	return &SaveController{saves: saves}
}

// ToggleSave bookmarks a route for the caller, or removes the bookmark.
func (sc *SaveController) ToggleSave(c *gin.Context) {
	saved, err := sc.saves.ToggleSave(c.Request.Context(), c.Param("id"), middlewares.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrRouteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update saved routes"})
		return
	}
	message := "Route saved"
	if !saved {
		message = "Route removed from saved"
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved, "message": message})
}

func (sc *SaveController) GetSaved(c *gin.Context) {
	saved, err := sc.saves.Saved(c.Request.Context(), c.Param("id"), middlewares.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (sc *SaveController) ListSaved(c *gin.Context) {
	saves, err := sc.saves.ListSaved(c.Request.Context(), middlewares.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved routes"})
		return
	}
	if saves == nil {
		saves = []models.Save{}
	}
	c.JSON(http.StatusOK, gin.H{"saves": saves})
}
