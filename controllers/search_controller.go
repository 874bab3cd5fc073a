package controllers

import (
	"net/http"

	"wanderhub/services"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	search *services.SearchService
}

func NewSearchController(search *services.SearchService) *SearchController {
	return &SearchController{search: search}
}

// Search matches recent stories, routes and posts against the q parameter.
func (sc *SearchController) Search(c *gin.Context) {
	results, err := sc.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stories": results.Stories,
		"routes":  results.Routes,
		"posts":   results.Posts,
	})
}
