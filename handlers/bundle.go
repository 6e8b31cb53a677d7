package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct so routes can be
// registered from a single place.
type HandlerBundle struct {
	// Member endpoints
	RegisterHandler       gin.HandlerFunc
	LoginHandler          gin.HandlerFunc
	GetProfileHandler     gin.HandlerFunc
	UpdateProfileHandler  gin.HandlerFunc
	DirectoryHandler      gin.HandlerFunc
	RegisterDeviceHandler gin.HandlerFunc
	SetRoleHandler        gin.HandlerFunc

	// Payment endpoints
	CreatePaymentIntentHandler gin.HandlerFunc
	ListPaymentsHandler        gin.HandlerFunc
	StripeWebhookHandler       gin.HandlerFunc

	// Consent and COPPA endpoints
	RecordConsentHandler  gin.HandlerFunc
	ConsentHistoryHandler gin.HandlerFunc
	CurrentConsentHandler gin.HandlerFunc
	VerifyParentHandler   gin.HandlerFunc
	UploadDocumentHandler gin.HandlerFunc

	// Privacy endpoints
	GetPrivacySettingsHandler    gin.HandlerFunc
	UpdatePrivacySettingsHandler gin.HandlerFunc
	RequestExportHandler         gin.HandlerFunc
	RequestDeletionHandler       gin.HandlerFunc
	DataRequestStatusHandler     gin.HandlerFunc

	// Event endpoints
	CreateEventHandler       gin.HandlerFunc
	GetEventHandler          gin.HandlerFunc
	ListEventsHandler        gin.HandlerFunc
	RSVPHandler              gin.HandlerFunc
	VolunteerHandler         gin.HandlerFunc
	WithdrawVolunteerHandler gin.HandlerFunc

	// Announcement endpoints
	SendAnnouncementHandler    gin.HandlerFunc
	RecentAnnouncementsHandler gin.HandlerFunc

	// Scheduled maintenance
	RequeueStaleHandler gin.HandlerFunc
}
