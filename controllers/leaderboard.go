package controllers

import (
	"net/http"

	"submission-portal-api/config"
	"submission-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns each rater's top five rated submissions, highest
// rating first. An optional ?rater= query narrows the result to one board.
func GetLeaderboard(c *gin.Context) {
	roster := config.Raters()
	if rater := c.Query("rater"); rater != "" {
		if !config.IsRater(rater) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown rater"})
			return
		}
		roster = []string{rater}
	}

	svc := services.NewLeaderboardService(nil)

	boards, err := svc.Boards(roster)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"leaderboards": boards,
	})
}
