package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"submission-portal-api/models"
	"submission-portal-api/services"

	"github.com/gin-gonic/gin"
)

// ExportSubmissionsCSV streams the full submission set as a CSV download in
// assignment order.
func ExportSubmissionsCSV(c *gin.Context) {
	svc := services.NewAssignmentService(nil)

	submissions, err := svc.Snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	filename := fmt.Sprintf("submissions_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := writeSubmissionsCSV(c.Writer, submissions); err != nil {
		// Headers are already out; nothing left to do but log via gin recovery.
		_ = c.Error(err)
	}
}

// writeSubmissionsCSV renders the snapshot as CSV rows. Unassigned and unrated
// submissions get empty cells; timestamps use RFC 3339.
func writeSubmissionsCSV(w io.Writer, submissions []models.Submission) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{
		"submission_id", "team_name", "team_number", "leader_email",
		"file_name", "file_url", "assigned_rater", "rating", "submitted_at",
	}); err != nil {
		return err
	}

	for _, sub := range submissions {
		rater := ""
		if sub.AssignedRater != nil {
			rater = *sub.AssignedRater
		}
		rating := ""
		if sub.Rating != nil {
			rating = strconv.Itoa(*sub.Rating)
		}
		if err := writer.Write([]string{
			strconv.Itoa(sub.SubmissionID),
			sub.TeamName,
			sub.TeamNumber,
			sub.LeaderEmail,
			sub.FileName,
			sub.FileURL,
			rater,
			rating,
			sub.SubmittedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
