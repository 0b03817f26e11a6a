package routes

import (
	"notification-hub/controllers"
	"notification-hub/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	notifications *controllers.NotificationController,
	ingest *controllers.IngestController,
	subscriptions *controllers.SubscribeController,
) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Notification Hub API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			items := protected.Group("/notifications")
			{
				// Queries
				items.GET("", notifications.GetAll)
				items.GET("/recent", notifications.GetRecent)
				items.GET("/:id", notifications.GetByID)

				// CRUD
				items.POST("", notifications.Create)
				items.PUT("/:id", notifications.Update)
				items.DELETE("/:id", notifications.Delete)

				// Producer ingestion
				items.POST("/ingest", ingest.Ingest)
				items.POST("/ingest/stream", ingest.IngestStream)

				// Live delivery
				items.GET("/subscribe", subscriptions.SubscribeAll)
				items.GET("/subscribe/users/:userId", subscriptions.SubscribeUser)
				items.GET("/subscribe/groups/:groupId", subscriptions.SubscribeGroup)

				// Publish without persisting
				items.POST("/broadcast", subscriptions.Broadcast)
				items.POST("/broadcast/users/:userId", subscriptions.BroadcastToUser)
				items.POST("/broadcast/groups/:groupId", subscriptions.BroadcastToGroup)
			}
		}
	}
}
