package handlers

import (
	"net/http"

	privacySvc "ptaconnect/services/privacy"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetPrivacySettingsHandler returns the member's privacy settings, creating
// the restrictive defaults on first read.
func GetPrivacySettingsHandler(svc privacySvc.PrivacyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		settings, err := svc.GetSettings(memberID)
		if err != nil {
			logger.Error("Failed to load privacy settings", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// UpdatePrivacySettingsHandler applies an allow-listed settings update.
func UpdatePrivacySettingsHandler(svc privacySvc.PrivacyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var update privacySvc.SettingsUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			logger.Error("Invalid privacy settings update", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		settings, err := svc.UpdateSettings(memberID, update)
		if err != nil {
			logger.Error("Failed to update privacy settings", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// RequestExportHandler queues a data export job and returns the request row
// for status polling.
func RequestExportHandler(svc privacySvc.PrivacyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		req, err := svc.RequestExport(memberID, c.ClientIP())
		if err != nil {
			logger.Error("Failed to create export request", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusAccepted, req)
	}
}

// RequestDeletionHandler queues an account deletion job.
func RequestDeletionHandler(svc privacySvc.PrivacyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		req, err := svc.RequestDeletion(memberID, c.ClientIP())
		if err != nil {
			logger.Error("Failed to create deletion request", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusAccepted, req)
	}
}

// DataRequestStatusHandler returns one data request row. Members can only see
// their own requests.
func DataRequestStatusHandler(svc privacySvc.PrivacyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		req, err := svc.GetDataRequest(c.Param("id"))
		if err != nil {
			if utils.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
				return
			}
			logger.Error("Failed to load data request", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		if req.MemberID != memberID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// RequeueStaleHandler re-enqueues data requests stuck in processing. Hit on a
// schedule behind the cron secret.
func RequeueStaleHandler(svc privacySvc.PrivacyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		if err := svc.RequeueStale(); err != nil {
			logger.Error("Failed to requeue stale data requests", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Requeue failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
