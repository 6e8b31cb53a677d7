package handlers

import (
	"errors"
	"net/http"

	consentSvc "ptaconnect/services/consent"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordConsentHandler records one consent decision for the authenticated
// member. COPPA parental consent is rejected before any write when no parent
// is attached.
func RecordConsentHandler(svc consentSvc.ConsentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req consentSvc.RecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid consent request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}
		req.MemberID = memberID
		req.IPAddress = c.ClientIP()
		req.UserAgent = c.GetHeader("User-Agent")

		record, err := svc.RecordConsent(c.Request.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, consentSvc.ErrParentRequired),
				errors.Is(err, consentSvc.ErrUnknownConsentType):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				logger.Error("Failed to record consent", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			}
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

// CurrentConsentHandler returns the latest decision for one consent type.
func CurrentConsentHandler(svc consentSvc.ConsentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		consentType := c.Param("type")
		granted, record, err := svc.CurrentConsent(memberID, consentType)
		if err != nil {
			logger.Error("Failed to look up consent", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"consentType": consentType,
			"granted":     granted,
			"record":      record,
		})
	}
}

// ConsentHistoryHandler returns the member's full consent trail, newest first.
func ConsentHistoryHandler(svc consentSvc.ConsentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		records, err := svc.ConsentHistory(memberID)
		if err != nil {
			logger.Error("Failed to load consent history", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
	}
}
