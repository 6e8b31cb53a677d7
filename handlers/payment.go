package handlers

import (
	"errors"
	"net/http"

	"ptaconnect/models"
	paymentSvc "ptaconnect/services/payment"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreatePaymentIntentHandler creates a Stripe payment intent for dues,
// donations, and event fees. Validation errors surface verbatim as 400; card
// declines surface with the processor's message; everything else gets a
// generic message at the classified status.
func CreatePaymentIntentHandler(svc paymentSvc.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req models.PaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid payment intent request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		resp, err := svc.CreateIntent(c.Request.Context(), paymentSvc.CreateIntentInput{
			MemberID:    memberID,
			Email:       req.Email,
			Amount:      req.Amount,
			PaymentType: req.PaymentType,
			RequestID:   req.RequestID,
			IPAddress:   c.ClientIP(),
		})
		if err != nil {
			var vErr utils.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
				return
			}
			var pErr *paymentSvc.ProcessorError
			if errors.As(err, &pErr) {
				logger.Warn("Payment intent rejected by processor",
					zap.Int("status", pErr.Status), zap.Error(err))
				c.JSON(pErr.Status, gin.H{"error": pErr.Message})
				return
			}
			logger.Error("Failed to create payment intent", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ListPaymentsHandler lists the authenticated member's payments.
func ListPaymentsHandler(svc paymentSvc.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		memberID := memberIDFromContext(c)
		if memberID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		payments, err := svc.PaymentsForMember(memberID)
		if err != nil {
			logger.Error("Failed to list payments", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": utils.SafeDBErrorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": payments})
	}
}
