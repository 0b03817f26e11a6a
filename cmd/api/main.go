package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"notification-hub/config"
	"notification-hub/controllers"
	"notification-hub/hub"
	"notification-hub/middleware"
	"notification-hub/routes"
	"notification-hub/services"
	"notification-hub/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Process-wide state, constructed once and passed explicitly
	notificationStore := store.NewNotificationStore()
	notificationService := services.NewNotificationService(notificationStore)
	broadcastHub := hub.New()

	notificationController := controllers.NewNotificationController(notificationService, broadcastHub)
	ingestController := controllers.NewIngestController(notificationService, broadcastHub)
	subscribeController := controllers.NewSubscribeController(broadcastHub)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	routes.SetupRoutes(router, notificationController, ingestController, subscribeController)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	// Closing the hub ends every open subscriber stream so Shutdown can
	// drain the remaining connections.
	broadcastHub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
