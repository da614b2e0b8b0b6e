package routes

import (
	"submission-portal-api/controllers"
	"submission-portal-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Student-facing intake
			public.POST("/submissions", controllers.CreateSubmission)

			// Leaderboard is public read-only
			public.GET("/leaderboard", controllers.GetLeaderboard)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Submission Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Operator profile
			protected.GET("/profile", controllers.GetProfile)

			// Admin dashboard
			admin := protected.Group("/admin")
			{
				admin.GET("/submissions", controllers.GetSubmissions)
				admin.GET("/submissions/stream", controllers.StreamSubmissions)
				admin.GET("/submissions/export", controllers.ExportSubmissionsCSV)
				admin.POST("/assignments", controllers.AssignRaters)
				admin.PUT("/submissions/:id/rating", controllers.SaveRating)
			}
		}
	}
}
