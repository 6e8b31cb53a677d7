package handlers

import (
	"errors"
	"net/http"

	eventSvc "ptaconnect/services/event"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateEventHandler creates an event. Route layer restricts this to board
// members and admins.
func CreateEventHandler(svc eventSvc.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req eventSvc.CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid event request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		event, err := svc.CreateEvent(memberID, req)
		if err != nil {
			var vErr utils.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
				return
			}
			logger.Error("Failed to create event", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

// GetEventHandler returns one event with its volunteer slots.
func GetEventHandler(svc eventSvc.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		event, err := svc.GetEvent(c.Param("id"))
		if err != nil {
			if utils.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
				return
			}
			logger.Error("Failed to load event", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

// ListEventsHandler lists upcoming events.
func ListEventsHandler(svc eventSvc.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		events, err := svc.ListUpcoming()
		if err != nil {
			logger.Error("Failed to list events", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

// RSVPHandler records or updates the member's RSVP for an event.
func RSVPHandler(svc eventSvc.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req struct {
			Status     string `json:"status"`
			GuestCount int    `json:"guestCount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		rsvp, err := svc.RSVP(c.Param("id"), memberID, req.Status, req.GuestCount)
		if err != nil {
			var vErr utils.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
				return
			}
			if utils.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
				return
			}
			logger.Error("Failed to record RSVP", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, rsvp)
	}
}

// VolunteerHandler signs the member up for a volunteer slot. A full slot is a
// 409.
func VolunteerHandler(svc eventSvc.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := svc.Volunteer(c.Param("id"), c.Param("slotId"), memberID); err != nil {
			if errors.Is(err, eventSvc.ErrSlotFull) {
				c.JSON(http.StatusConflict, gin.H{"error": "Volunteer slot is full"})
				return
			}
			if utils.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
				return
			}
			logger.Error("Failed to join volunteer slot", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "signed_up"})
	}
}

// WithdrawVolunteerHandler removes the member from a volunteer slot.
func WithdrawVolunteerHandler(svc eventSvc.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := svc.WithdrawVolunteer(c.Param("id"), c.Param("slotId"), memberID); err != nil {
			if utils.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
				return
			}
			logger.Error("Failed to leave volunteer slot", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "withdrawn"})
	}
}
