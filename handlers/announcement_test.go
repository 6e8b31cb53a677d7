package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ptaconnect/middleware"
	"ptaconnect/models"
	announcementSvc "ptaconnect/services/announcement"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// fakeAnnouncementService mirrors the service's validation of empty content.
type fakeAnnouncementService struct {
	sent []announcementSvc.SendRequest
}

func (f *fakeAnnouncementService) Send(_ context.Context, _ string, req announcementSvc.SendRequest) (*models.Announcement, error) {
	if req.Subject == "" || req.Body == "" {
		return nil, utils.NewValidationError("Invalid request data")
	}
	f.sent = append(f.sent, req)
	return &models.Announcement{ID: "ann-1", Subject: req.Subject, Body: req.Body}, nil
}

func (f *fakeAnnouncementService) Recent(int) ([]models.Announcement, error) {
	return nil, nil
}

// announcementRouter wires the handler behind the role middleware the way the
// route layer does, with an injectable identity.
func announcementRouter(svc announcementSvc.AnnouncementService, memberID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/announcements",
		func(c *gin.Context) {
			if memberID != "" {
				c.Set("memberID", memberID)
				c.Set("memberRole", role)
			}
			c.Next()
		},
		middleware.RequireRole(models.RoleBoard, "Unauthorized to send emails"),
		SendAnnouncementHandler(svc),
	)
	return router
}

func postAnnouncement(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/announcements", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSendAnnouncementUnauthenticated(t *testing.T) {
	t.Parallel()
	svc := &fakeAnnouncementService{}
	router := announcementRouter(svc, "", "")

	w := postAnnouncement(router, `{"subject":"Bake Sale","body":"Saturday 10am"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	assert.Empty(t, svc.sent)
}

func TestSendAnnouncementRequiresBoardRole(t *testing.T) {
	t.Parallel()
	svc := &fakeAnnouncementService{}
	router := announcementRouter(svc, "member-1", models.RoleMember)

	w := postAnnouncement(router, `{"subject":"Bake Sale","body":"Saturday 10am"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized to send emails"}`, w.Body.String())
	assert.Empty(t, svc.sent)
}

func TestSendAnnouncementEmptyContent(t *testing.T) {
	t.Parallel()
	svc := &fakeAnnouncementService{}
	router := announcementRouter(svc, "board-1", models.RoleBoard)

	w := postAnnouncement(router, `{"subject":"","body":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request data"}`, w.Body.String())
}

func TestSendAnnouncementBoardMemberSucceeds(t *testing.T) {
	t.Parallel()
	svc := &fakeAnnouncementService{}
	router := announcementRouter(svc, "board-1", models.RoleBoard)

	w := postAnnouncement(router, `{"subject":"Bake Sale","body":"Saturday 10am"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, svc.sent, 1)
}

func TestSendAnnouncementAdminAlsoAllowed(t *testing.T) {
	t.Parallel()
	svc := &fakeAnnouncementService{}
	router := announcementRouter(svc, "admin-1", models.RoleAdmin)

	w := postAnnouncement(router, `{"subject":"Budget vote","body":"Details inside"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}
