package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	consentSvc "ptaconnect/services/consent"
	storageSvc "ptaconnect/services/storage"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// verifyParentHTTPReq is the HTTP payload for a parental verification attempt.
type verifyParentHTTPReq struct {
	ChildMemberID string            `json:"childMemberId" binding:"required"`
	BirthDate     string            `json:"birthDate" binding:"required"` // YYYY-MM-DD
	Method        string            `json:"method" binding:"required"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	Answers       map[string]string `json:"answers,omitempty"`
	DocumentID    string            `json:"documentId,omitempty"`
}

// VerifyParentHandler runs one parental identity verification strategy for a
// child account. The authenticated member is the claimed parent.
func VerifyParentHandler(svc consentSvc.ConsentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		parentID := memberIDFromContext(c)
		if parentID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req verifyParentHTTPReq
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid verification request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth date"})
			return
		}

		result, err := svc.VerifyParent(c.Request.Context(), consentSvc.VerifyParentRequest{
			ParentMemberID: parentID,
			ChildMemberID:  req.ChildMemberID,
			BirthDate:      birthDate,
			Method:         req.Method,
			PaymentMethod:  req.PaymentMethod,
			Answers:        req.Answers,
			DocumentID:     req.DocumentID,
			IPAddress:      c.ClientIP(),
			UserAgent:      c.GetHeader("User-Agent"),
		})
		if err != nil {
			var vErr utils.ValidationError
			switch {
			case errors.As(err, &vErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
			case errors.Is(err, consentSvc.ErrUnknownMethod):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, consentSvc.ErrVerificationFailed):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			default:
				logger.Error("Parental verification error", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			}
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// UploadDocumentHandler accepts a verification document (government ID scan or
// signed consent form) as multipart form data and stores it encrypted. The
// returned document ID goes into a later verify-parent request.
func UploadDocumentHandler(svc storageSvc.StorageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		file, err := c.FormFile("document")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		// Stage the upload in a temp file; the storage service encrypts it
		// before anything leaves the process.
		tmpPath := filepath.Join(os.TempDir(), "doc-"+uuid.NewString())
		if err := c.SaveUploadedFile(file, tmpPath); err != nil {
			logger.Error("Failed to stage uploaded document", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
			return
		}
		defer os.Remove(tmpPath)

		documentID, err := svc.UploadVerificationDocument(c.Request.Context(), tmpPath)
		if err != nil {
			logger.Error("Failed to upload verification document", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"documentId": documentID})
	}
}
