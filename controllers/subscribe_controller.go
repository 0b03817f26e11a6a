package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notification-hub/hub"
	"notification-hub/models"
)

// SubscribeController exposes the live delivery boundary: SSE subscriptions
// on the general topic, a user identity or a group identity, plus
// publish-only endpoints that push envelopes without persisting anything.
type SubscribeController struct {
	hub *hub.Hub
}

func NewSubscribeController(h *hub.Hub) *SubscribeController {
	return &SubscribeController{hub: h}
}

// SubscribeAll streams every notification published to the general topic.
func (ctrl *SubscribeController) SubscribeAll(c *gin.Context) {
	ctrl.stream(c, ctrl.hub.SubscribeAll())
}

// SubscribeUser streams notifications addressed to one user.
func (ctrl *SubscribeController) SubscribeUser(c *gin.Context) {
	ctrl.stream(c, ctrl.hub.SubscribeUser(c.Param("userId")))
}

// SubscribeGroup streams notifications addressed to one group.
func (ctrl *SubscribeController) SubscribeGroup(c *gin.Context) {
	ctrl.stream(c, ctrl.hub.SubscribeGroup(c.Param("groupId")))
}

func (ctrl *SubscribeController) stream(c *gin.Context, sub *hub.Subscription) {
	defer sub.Unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	// The channel closes on hub shutdown; the request context ends when
	// the subscriber disconnects. Either one terminates the stream.
	for {
		select {
		case env, ok := <-sub.C():
			if !ok {
				return
			}
			c.SSEvent("notification", env)
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// Broadcast publishes an envelope to the general topic without persisting.
func (ctrl *SubscribeController) Broadcast(c *gin.Context) {
	ctrl.publish(c, func(req models.IngestRequest) (models.Envelope, error) {
		return ctrl.hub.BroadcastToAll(req.Date, req.Level, req.Content)
	})
}

// BroadcastToUser publishes an envelope to one user's subscribers.
func (ctrl *SubscribeController) BroadcastToUser(c *gin.Context) {
	userID := c.Param("userId")
	ctrl.publish(c, func(req models.IngestRequest) (models.Envelope, error) {
		return ctrl.hub.SendToUser(userID, req.Date, req.Level, req.Content)
	})
}

// BroadcastToGroup publishes an envelope to one group's subscribers.
func (ctrl *SubscribeController) BroadcastToGroup(c *gin.Context) {
	groupID := c.Param("groupId")
	ctrl.publish(c, func(req models.IngestRequest) (models.Envelope, error) {
		return ctrl.hub.SendToGroup(groupID, req.Date, req.Level, req.Content)
	})
}

func (ctrl *SubscribeController) publish(c *gin.Context, send func(models.IngestRequest) (models.Envelope, error)) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	env, err := send(req)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, env)
}
