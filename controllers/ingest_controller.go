package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"notification-hub/hub"
	"notification-hub/models"
	"notification-hub/services"
)

// IngestController receives producer events, both one-at-a-time and as a
// stream, persists them and republishes them to live subscribers.
type IngestController struct {
	service *services.NotificationService
	hub     *hub.Hub
}

func NewIngestController(service *services.NotificationService, h *hub.Hub) *IngestController {
	return &IngestController{service: service, hub: h}
}

// Ingest accepts a single {level, content, date} event.
func (ctrl *IngestController) Ingest(c *gin.Context) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.IngestResponse{
			Success: false,
			Message: "Error: invalid payload",
		})
		return
	}

	log.Printf("received notification event: date=%s, level=%s", req.Date, req.Level)

	n, err := ctrl.service.CreateFromStream(req.Level, req.Content, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.IngestResponse{
			Success: false,
			Message: "Error: " + err.Error(),
		})
		return
	}

	ctrl.republish(req.Date, n)

	c.JSON(http.StatusOK, models.IngestResponse{
		Success:        true,
		Message:        "Notification stored successfully",
		NotificationID: strconv.FormatInt(n.ID, 10),
	})
}

// IngestStream accepts a newline-delimited JSON stream of events. Items are
// processed independently: a failed item is counted, not fatal. The response
// is one aggregate per stream; an aborted stream still reports everything
// processed before the abort.
func (ctrl *IngestController) IngestStream(c *gin.Context) {
	var successCount, failCount int
	var streamErr error

	dec := json.NewDecoder(c.Request.Body)
	for {
		var item models.IngestRequest
		if err := dec.Decode(&item); err != nil {
			if !errors.Is(err, io.EOF) {
				streamErr = err
			}
			break
		}

		n, err := ctrl.service.CreateFromStream(item.Level, item.Content, item.Date)
		if err != nil {
			log.Printf("stream item rejected: %v", err)
			failCount++
			continue
		}
		ctrl.republish(item.Date, n)
		successCount++
	}

	total := successCount + failCount
	msg := fmt.Sprintf("Processed %d notifications: %d success, %d failed", total, successCount, failCount)

	resp := models.IngestResponse{
		Success:        streamErr == nil && failCount == 0,
		Message:        msg,
		NotificationID: uuid.NewString(),
	}
	if streamErr != nil {
		resp.Message = fmt.Sprintf("Stream error: %v (%s)", streamErr, msg)
	}

	log.Printf("completed notification stream: %s", resp.Message)
	c.JSON(http.StatusOK, resp)
}

// republish pushes a freshly persisted event to the general topic, keeping
// the producer's own event date on the envelope.
func (ctrl *IngestController) republish(date string, n models.Notification) {
	if _, err := ctrl.hub.BroadcastToAll(date, n.Type, n.Message); err != nil {
		log.Printf("broadcast of notification %d skipped: %v", n.ID, err)
	}
}
