package controllers

import (
	"errors"
	"io"
	"net/http"

	"submission-portal-api/models"
	"submission-portal-api/monitor"
	"submission-portal-api/services"

	"github.com/gin-gonic/gin"
)

// ===================== SUBMISSION INTAKE =====================

// CreateSubmission runs the intake pipeline for one team's project upload.
// Multipart fields: team_name, team_number, file.
func CreateSubmission(c *gin.Context) {
	teamName := c.PostForm("team_name")
	teamNumber := c.PostForm("team_number")

	file, err := c.FormFile("file")
	if err != nil {
		file = nil // presence check reports the missing-field message
	}

	monitor.SubmissionsReceived.Inc()

	intake := services.NewIntakeService(nil,
		services.NewRosterService(""),
		services.NewStorageService("", ""),
		services.NewNotifyService(""))

	submission, err := intake.Submit(c.Request.Context(), services.IntakeRequest{
		TeamName:   teamName,
		TeamNumber: teamNumber,
		File:       file,
	})
	if err != nil {
		status, kind := intakeErrorStatus(err)
		monitor.SubmissionsRejected.WithLabelValues(kind).Inc()
		c.JSON(status, gin.H{
			"success": false,
			"message": intakeErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Submission successful! A confirmation email has been sent.",
		"submission": submission,
	})
}

// intakeErrorStatus maps a pipeline failure to an HTTP status and the metric
// label for its kind.
func intakeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrMissingField):
		return http.StatusBadRequest, "missing_field"
	case errors.Is(err, services.ErrUnknownTeam):
		return http.StatusBadRequest, "unknown_team"
	case errors.Is(err, services.ErrNameMismatch):
		return http.StatusBadRequest, "name_mismatch"
	case errors.Is(err, services.ErrAlreadySubmitted):
		return http.StatusConflict, "already_submitted"
	case errors.Is(err, services.ErrUploadFailed):
		return http.StatusBadGateway, "upload_failed"
	case errors.Is(err, services.ErrRecordWriteFailed):
		return http.StatusInternalServerError, "record_write_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// intakeErrorMessage strips wrapping detail down to the fixed user-facing
// message for the failure kind.
func intakeErrorMessage(err error) string {
	for _, kind := range []error{
		services.ErrMissingField,
		services.ErrUnknownTeam,
		services.ErrNameMismatch,
		services.ErrAlreadySubmitted,
		services.ErrUploadFailed,
		services.ErrRecordWriteFailed,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "An error occurred during submission. Please try again."
}

// ===================== ADMIN DASHBOARD =====================

// GetSubmissions returns all submissions in assignment order (oldest first).
func GetSubmissions(c *gin.Context) {
	svc := services.NewAssignmentService(nil)

	submissions, err := svc.Snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
		"unassigned":  unassignedCount(submissions),
	})
}

// StreamSubmissions pushes full ordered snapshots to the dashboard over SSE
// whenever the collection changes. Closing the connection tears down the
// subscription; writes already in flight elsewhere still land and show up in
// a later snapshot.
func StreamSubmissions(c *gin.Context) {
	watcher := services.NewSubmissionWatcher(nil, 0)
	snapshots, cancel := watcher.Subscribe(c.Request.Context())
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		snapshot, ok := <-snapshots
		if !ok {
			return false
		}
		c.SSEvent("submissions", gin.H{
			"submissions": snapshot,
			"total":       len(snapshot),
		})
		return true
	})
}

func unassignedCount(submissions []models.Submission) int {
	count := 0
	for _, sub := range submissions {
		if !sub.IsAssigned() {
			count++
		}
	}
	return count
}
