package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"submission-portal-api/config"
	"submission-portal-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// confirmationSubject and confirmationBody form the fixed template the relay
// sends for every submission.
const confirmationSubject = "Submission Received - September Sprint"

const confirmationBody = `<h2>Thank You For Your Submission!</h2>
<p>This is a confirmation that your team, <strong>%s</strong>, has successfully submitted its project for the <b>September Sprint</b>.</p>
<p>Our raters will review it shortly. Good luck!</p>
<br/>
<p>- The Organizing Committee</p>`

type confirmationRequest struct {
	TeamName    string `json:"teamName"`
	LeaderEmail string `json:"leaderEmail"`
}

var sendMailFunc = config.SendMail

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter()

	port := os.Getenv("EMAIL_SERVER_PORT")
	if port == "" {
		port = "10000"
	}

	log.Printf("Email server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start email server:", err)
	}
}

func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	// Health check route
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Email server is running and ready.")
	})

	router.POST("/send-confirmation", sendConfirmation)

	return router
}

// sendConfirmation responds instantly; the actual send runs as a detached task.
func sendConfirmation(c *gin.Context) {
	var req confirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TeamName == "" || req.LeaderEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing fields.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission received. Confirmation email is being sent.",
	})

	deliveryID := uuid.New().String()
	go sendConfirmationEmail(deliveryID, req.TeamName, req.LeaderEmail)
}

// sendConfirmationEmail performs the background send and logs the outcome.
func sendConfirmationEmail(deliveryID, teamName, leaderEmail string) {
	html := fmt.Sprintf(confirmationBody, template.HTMLEscapeString(teamName))

	if err := sendMailFunc([]string{leaderEmail}, confirmationSubject, html); err != nil {
		log.Printf("[%s] failed to send confirmation to %s: %v", deliveryID, leaderEmail, err)
		return
	}
	log.Printf("[%s] confirmation email sent to %s", deliveryID, leaderEmail)
}
