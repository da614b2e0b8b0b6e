package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"submission-portal-api/config"
	"submission-portal-api/monitor"
	"submission-portal-api/services"

	"github.com/gin-gonic/gin"
)

// AssignRaters runs one assignment pass: every unassigned submission is
// distributed round-robin across the roster, least-loaded raters first.
func AssignRaters(c *gin.Context) {
	svc := services.NewAssignmentService(nil)

	result, err := svc.AssignNew(config.Raters())
	if err != nil {
		if errors.Is(err, services.ErrNothingToAssign) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "No new submissions to assign.",
			})
			return
		}
		if errors.Is(err, services.ErrEmptyRoster) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "No raters configured. Set the RATERS list before assigning.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assignment pass failed"})
		return
	}

	monitor.AssignmentsMade.Add(float64(result.Assigned))

	message := fmt.Sprintf("%d new submission(s) have been assigned!", result.Assigned)
	if result.Failed > 0 {
		message = fmt.Sprintf("%d of %d assignments saved; %d failed.",
			result.Assigned, result.Planned, result.Failed)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.Failed == 0,
		"message": message,
		"result":  result,
	})
}

type saveRatingRequest struct {
	Rating string `json:"rating" binding:"required"`
}

// SaveRating records an operator-entered score for one submission.
// The value must parse as an integer in [1,10]; anything else is rejected
// without a store write.
func SaveRating(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	var req saveRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid rating between 1 and 10."})
		return
	}

	rating, err := strconv.Atoi(req.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid rating between 1 and 10."})
		return
	}

	svc := services.NewAssignmentService(nil)
	updated, err := svc.SaveRating(submissionID, rating)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRatingOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid rating between 1 and 10."})
		case errors.Is(err, services.ErrSubmissionMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating."})
		}
		return
	}

	if updated {
		monitor.RatingsSaved.Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Rating saved successfully!",
		"updated": updated,
	})
}
