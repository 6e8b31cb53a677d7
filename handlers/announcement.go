package handlers

import (
	"errors"
	"net/http"
	"strconv"

	announcementSvc "ptaconnect/services/announcement"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SendAnnouncementHandler sends a board announcement to members who consented
// to email updates, plus a push broadcast. The route layer has already
// enforced the board role; the 400 here covers empty subject or body.
func SendAnnouncementHandler(svc announcementSvc.AnnouncementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req announcementSvc.SendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		ann, err := svc.Send(c.Request.Context(), memberID, req)
		if err != nil {
			var vErr utils.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
				return
			}
			logger.Error("Failed to send announcement", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusCreated, ann)
	}
}

// RecentAnnouncementsHandler lists recent announcements, newest first.
func RecentAnnouncementsHandler(svc announcementSvc.AnnouncementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		limit := 20
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		anns, err := svc.Recent(limit)
		if err != nil {
			logger.Error("Failed to list announcements", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"announcements": anns})
	}
}
