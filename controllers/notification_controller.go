package controllers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"notification-hub/config"
	"notification-hub/hub"
	"notification-hub/models"
	"notification-hub/services"
)

// NotificationController serves the REST surface over the notification
// service and republishes newly created records to live subscribers.
type NotificationController struct {
	service *services.NotificationService
	hub     *hub.Hub
}

func NewNotificationController(service *services.NotificationService, h *hub.Hub) *NotificationController {
	return &NotificationController{service: service, hub: h}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// GetAll returns every notification sorted by creation time.
func (ctrl *NotificationController) GetAll(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.service.ListAll())
}

// GetRecent returns the notifications from the last N days (default 2).
func (ctrl *NotificationController) GetRecent(c *gin.Context) {
	days := 2
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("days"))); err == nil && v > 0 {
		days = v
	}
	c.JSON(http.StatusOK, ctrl.service.ListRecent(days))
}

// GetByID returns one notification or 404.
func (ctrl *NotificationController) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	n, err := ctrl.service.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, n)
}

// Create validates, persists and then publishes the new notification to the
// general topic.
func (ctrl *NotificationController) Create(c *gin.Context) {
	var req models.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	n, err := ctrl.service.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctrl.publishStored(n)
	c.JSON(http.StatusCreated, n)
}

// Update overwrites title/message and, when supplied, the type.
func (ctrl *NotificationController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	n, err := ctrl.service.Update(id, req)
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, n)
}

// Delete removes one notification by id.
func (ctrl *NotificationController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// publishStored pushes a persisted record to the general topic. A delivery
// problem never fails the producing request; ERROR-level records
// additionally escalate to the operator mailbox.
func (ctrl *NotificationController) publishStored(n models.Notification) {
	if _, err := ctrl.hub.BroadcastToAll(n.CreatedAt.Format(time.RFC3339), n.Type, n.Message); err != nil {
		log.Printf("broadcast of notification %d skipped: %v", n.ID, err)
	}
	if strings.EqualFold(n.Type, "ERROR") {
		go sendAlertSafe(n)
	}
}

func alertRecipients() []string {
	var to []string
	for _, r := range strings.Split(os.Getenv("ALERT_EMAIL_RECIPIENTS"), ",") {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	return to
}

func sendAlertSafe(n models.Notification) {
	to := alertRecipients()
	if len(to) == 0 {
		return
	}
	subject := fmt.Sprintf("[%s] %s", n.Type, n.Title)
	if err := config.SendMail(to, subject, buildAlertEmailHTML(n)); err != nil {
		log.Printf("alert email send failed (notification=%d to=%v): %v", n.ID, to, err)
	}
}

func buildAlertEmailHTML(n models.Notification) string {
	title := template.HTMLEscapeString(n.Title)
	message := template.HTMLEscapeString(n.Message)
	message = strings.ReplaceAll(strings.ReplaceAll(message, "\r\n", "\n"), "\r", "\n")
	message = strings.ReplaceAll(message, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <p style="margin:0 0 16px 0;font-size:16px;"><strong>%s</strong></p>
  <p style="margin:0;font-size:15px;word-break:break-word;">%s</p>
  <p style="margin:16px 0 0 0;font-size:12px;color:#6b7280;">notification #%d, created %s</p>
</div>
</body>
</html>`, title, title, message, n.ID, n.CreatedAt.Format("02/01/2006 15:04"))
}
