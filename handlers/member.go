package handlers

import (
	"errors"
	"net/http"

	"ptaconnect/models"
	memberSvc "ptaconnect/services/member"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterHandler creates a member account and returns a signed token.
func RegisterHandler(svc memberSvc.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req memberSvc.RegistrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid registration request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		resp, err := svc.Register(req)
		if err != nil {
			var vErr utils.ValidationError
			switch {
			case errors.As(err, &vErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
			case errors.Is(err, memberSvc.ErrEmailTaken):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				logger.Error("Member registration failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			}
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// LoginHandler authenticates a member and returns a signed token.
func LoginHandler(svc memberSvc.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid login request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		resp, err := svc.Authenticate(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, memberSvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			logger.Error("Login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetProfileHandler returns the authenticated member's profile.
func GetProfileHandler(svc memberSvc.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		member, err := svc.GetMemberByID(memberID)
		if err != nil {
			if utils.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
				return
			}
			logger.Error("Failed to get member profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, member)
	}
}

// UpdateProfileHandler applies allow-listed profile changes.
func UpdateProfileHandler(svc memberSvc.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var updates memberSvc.ProfileUpdate
		if err := c.ShouldBindJSON(&updates); err != nil {
			logger.Error("Invalid profile update request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		member, err := svc.UpdateProfile(memberID, updates)
		if err != nil {
			logger.Error("Failed to update profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, member)
	}
}

// DirectoryHandler lists members who opted in, filtered down to what each
// member chose to show.
func DirectoryHandler(svc memberSvc.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		entries, err := svc.Directory()
		if err != nil {
			logger.Error("Failed to build directory", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"members": entries})
	}
}

// RegisterDeviceHandler records a push-capable device for the member.
func RegisterDeviceHandler(svc memberSvc.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req struct {
			DeviceID string `json:"deviceId"`
			FCMToken string `json:"fcmToken"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.DeviceID == "" || req.FCMToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		device := models.Device{DeviceID: req.DeviceID, FCMToken: req.FCMToken}
		if err := svc.RegisterDevice(memberID, device); err != nil {
			logger.Error("Failed to register device", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "registered"})
	}
}

// SetRoleHandler changes a member's role. The route layer restricts this to
// admins.
func SetRoleHandler(svc memberSvc.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req struct {
			MemberID string `json:"memberId"`
			Role     string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.MemberID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		if err := svc.SetRole(req.MemberID, req.Role); err != nil {
			if errors.Is(err, memberSvc.ErrInvalidRole) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if utils.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
				return
			}
			logger.Error("Failed to set member role", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}
