package privacy

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ptaconnect/config"
	"ptaconnect/models"
	"ptaconnect/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// memPrivacyRepo is an in-memory PrivacyRepository.
type memPrivacyRepo struct {
	settings map[string]*models.PrivacySettings
	requests map[string]*models.DataRequest
}

func newMemPrivacyRepo() *memPrivacyRepo {
	return &memPrivacyRepo{
		settings: make(map[string]*models.PrivacySettings),
		requests: make(map[string]*models.DataRequest),
	}
}

func (r *memPrivacyRepo) GetSettings(memberID string) (*models.PrivacySettings, error) {
	if s, ok := r.settings[memberID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memPrivacyRepo) UpsertSettings(settings *models.PrivacySettings) error {
	copied := *settings
	r.settings[settings.MemberID] = &copied
	return nil
}

func (r *memPrivacyRepo) SetDirectoryVisible(memberID string, visible bool) error {
	if s, ok := r.settings[memberID]; ok {
		s.DirectoryVisible = visible
	}
	return nil
}

func (r *memPrivacyRepo) CreateDataRequest(req *models.DataRequest) error {
	req.RequestedAt = time.Now()
	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *memPrivacyRepo) GetDataRequest(id string) (*models.DataRequest, error) {
	if req, ok := r.requests[id]; ok {
		copied := *req
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memPrivacyRepo) UpdateDataRequest(req *models.DataRequest) error {
	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *memPrivacyRepo) StaleProcessingRequests(olderThanMinutes int) ([]models.DataRequest, error) {
	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	var out []models.DataRequest
	for _, req := range r.requests {
		if req.Status == models.DataRequestProcessing && req.StartedAt != nil && req.StartedAt.Before(cutoff) {
			out = append(out, *req)
		}
	}
	return out, nil
}

// memMemberRepo tracks anonymization calls.
type memMemberRepo struct {
	members    map[string]*models.Member
	anonymized []string
}

func (r *memMemberRepo) GetByID(id string) (*models.Member, error) {
	if m, ok := r.members[id]; ok {
		return m, nil
	}
	return nil, mongo.ErrNoDocuments
}
func (r *memMemberRepo) GetByEmail(string) (*models.Member, error) { return nil, mongo.ErrNoDocuments }
func (r *memMemberRepo) GetAll() ([]models.Member, error) { return nil, nil }
func (r *memMemberRepo) Create(*models.Member) error { return nil }
func (r *memMemberRepo) Update(*models.Member) error { return nil }
func (r *memMemberRepo) Delete(string) error { return nil }
func (r *memMemberRepo) Anonymize(id string) error {
	r.anonymized = append(r.anonymized, id)
	return nil
}
func (r *memMemberRepo) UpsertDevice(string, models.Device) error { return nil }

// memConsentRepo serves empty consent history.
type memConsentRepo struct{}

func (memConsentRepo) InsertRecord(*models.ConsentRecord) error { return nil }
func (memConsentRepo) LatestRecord(string, string) (*models.ConsentRecord, error) {
	return nil, mongo.ErrNoDocuments
}
func (memConsentRepo) RecordsForMember(string) ([]models.ConsentRecord, error) { return nil, nil }
func (memConsentRepo) UpsertChildAccount(*models.ChildAccount) error { return nil }
func (memConsentRepo) GetChildAccount(string) (*models.ChildAccount, error) {
	return nil, mongo.ErrNoDocuments
}

// memPaymentRepo serves empty payment history.
type memPaymentRepo struct{}

func (memPaymentRepo) Create(*models.Payment) error { return nil }
func (memPaymentRepo) GetByIntentID(string) (*models.Payment, error) {
	return nil, mongo.ErrNoDocuments
}
func (memPaymentRepo) GetByMember(string) ([]models.Payment, error) { return nil, nil }
func (memPaymentRepo) UpdateStatusByIntentID(string, string, string) error { return nil }

// memEventRepo serves empty RSVP history.
type memEventRepo struct{}

func (memEventRepo) Create(*models.Event) error { return nil }
func (memEventRepo) GetByID(string) (*models.Event, error) { return nil, mongo.ErrNoDocuments }
func (memEventRepo) GetUpcoming() ([]models.Event, error) { return nil, nil }
func (memEventRepo) Update(*models.Event) error { return nil }
func (memEventRepo) Delete(string) error { return nil }
func (memEventRepo) UpsertRSVP(*models.RSVP) error { return nil }
func (memEventRepo) GetRSVPs(string) ([]models.RSVP, error) { return nil, nil }
func (memEventRepo) GetRSVPsForMember(string) ([]models.RSVP, error) { return nil, nil }
func (memEventRepo) JoinVolunteerSlot(string, string, string) error { return nil }
func (memEventRepo) LeaveVolunteerSlot(string, string, string) error { return nil }

// memQueue captures enqueued jobs and can be told to fail.
type memQueue struct {
	enqueued []string
	err      error
}

func (q *memQueue) EnqueueDataRequest(payload models.DataRequestTaskPayload) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, payload.RequestID)
	return nil
}

type nopAudit struct{}

func (nopAudit) Log(models.AuditEvent) {}

func newTestService() (*DefaultPrivacyService, *memPrivacyRepo, *memMemberRepo, *memQueue) {
	repo := newMemPrivacyRepo()
	members := &memMemberRepo{members: map[string]*models.Member{
		"member-1": {ID: "member-1", Email: "pat@example.com", FirstName: "Pat"},
	}}
	queue := &memQueue{}
	svc := &DefaultPrivacyService{
		Repo:        repo,
		MemberRepo:  members,
		ConsentRepo: memConsentRepo{},
		PaymentRepo: memPaymentRepo{},
		EventRepo:   memEventRepo{},
		Queue:       queue,
		Audit:       nopAudit{},
		Logger:      zap.NewNop(),
	}
	return svc, repo, members, queue
}

func setPIIKey(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig.PIIEncryptionKey = "test-pii-key-0123456789abcdef0123"
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestGetSettingsCreatesRestrictiveDefaults(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newTestService()

	settings, err := svc.GetSettings("member-1")
	require.NoError(t, err)

	// Every sharing flag starts off.
	assert.False(t, settings.ShowEmail)
	assert.False(t, settings.ShowPhone)
	assert.False(t, settings.ShowAddress)
	assert.False(t, settings.ShowChildren)
	assert.False(t, settings.DirectoryVisible)
	assert.False(t, settings.AllowPhotoSharing)
	assert.False(t, settings.AllowDataSharing)

	// The row is persisted, not recomputed per read.
	_, ok := repo.settings["member-1"]
	assert.True(t, ok)
}

func TestUpdateSettingsAppliesOnlySentFields(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService()

	on := true
	settings, err := svc.UpdateSettings("member-1", SettingsUpdate{
		ShowEmail:        &on,
		DirectoryVisible: &on,
	})
	require.NoError(t, err)
	assert.True(t, settings.ShowEmail)
	assert.True(t, settings.DirectoryVisible)
	assert.False(t, settings.ShowPhone, "fields not sent stay untouched")

	// A later partial update does not reset earlier choices.
	off := false
	settings, err = svc.UpdateSettings("member-1", SettingsUpdate{ShowEmail: &off})
	require.NoError(t, err)
	assert.False(t, settings.ShowEmail)
	assert.True(t, settings.DirectoryVisible)
}

func TestRequestExportCreatesPendingRowAndEnqueues(t *testing.T) {
	t.Parallel()
	svc, repo, _, queue := newTestService()

	req, err := svc.RequestExport("member-1", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.DataRequestPending, req.Status)
	assert.Equal(t, models.DataRequestExport, req.Kind)
	assert.Equal(t, []string{req.ID}, queue.enqueued)

	stored, err := repo.GetDataRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DataRequestPending, stored.Status)
}

func TestRequestExportSurvivesEnqueueFailure(t *testing.T) {
	t.Parallel()
	svc, repo, _, queue := newTestService()
	queue.err = errors.New("queue down")

	// The row must exist even when the enqueue is lost; the stale sweep is
	// the safety net.
	req, err := svc.RequestExport("member-1", "10.0.0.1")
	require.NoError(t, err)
	_, err = repo.GetDataRequest(req.ID)
	assert.NoError(t, err)
}

func TestProcessExportCompletesWithEncryptedResult(t *testing.T) {
	setPIIKey(t)
	svc, repo, _, _ := newTestService()

	req, err := svc.RequestExport("member-1", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.ProcessDataRequest(req.ID))

	stored, err := repo.GetDataRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DataRequestCompleted, stored.Status)
	require.NotNil(t, stored.StartedAt)
	require.NotNil(t, stored.CompletedAt)

	// The result decrypts back to the member's data.
	sealed, err := hex.DecodeString(stored.Result)
	require.NoError(t, err)
	raw, err := utils.Decrypt(sealed, utils.DataClassPII)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	member, ok := doc["member"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pat@example.com", member["email"])
}

func TestProcessDeletionAnonymizesAndResetsSettings(t *testing.T) {
	t.Parallel()
	svc, repo, members, _ := newTestService()

	// Give the member permissive settings first.
	on := true
	_, err := svc.UpdateSettings("member-1", SettingsUpdate{DirectoryVisible: &on})
	require.NoError(t, err)

	req, err := svc.RequestDeletion("member-1", "10.0.0.1")
	require.NoError(t, err)
	require.NoError(t, svc.ProcessDataRequest(req.ID))

	assert.Equal(t, []string{"member-1"}, members.anonymized)
	settings, err := svc.GetSettings("member-1")
	require.NoError(t, err)
	assert.False(t, settings.DirectoryVisible, "deletion resets settings to restrictive defaults")

	stored, err := repo.GetDataRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DataRequestCompleted, stored.Status)
}

func TestProcessDataRequestFailureRecorded(t *testing.T) {
	t.Parallel()
	svc, repo, members, _ := newTestService()
	delete(members.members, "member-1")

	req, err := svc.RequestExport("member-1", "10.0.0.1")
	require.NoError(t, err)

	err = svc.ProcessDataRequest(req.ID)
	require.Error(t, err)

	stored, err := repo.GetDataRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DataRequestFailed, stored.Status)
	assert.NotEmpty(t, stored.Error)
	require.NotNil(t, stored.CompletedAt)
}

func TestProcessDataRequestSkipsCompleted(t *testing.T) {
	setPIIKey(t)
	svc, repo, _, _ := newTestService()

	req, err := svc.RequestExport("member-1", "10.0.0.1")
	require.NoError(t, err)
	require.NoError(t, svc.ProcessDataRequest(req.ID))

	first, err := repo.GetDataRequest(req.ID)
	require.NoError(t, err)

	// A replayed task is a no-op.
	require.NoError(t, svc.ProcessDataRequest(req.ID))
	second, err := repo.GetDataRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
}

func TestRequeueStalePicksUpStuckRequests(t *testing.T) {
	t.Parallel()
	svc, repo, _, queue := newTestService()

	old := time.Now().Add(-time.Hour)
	stuck := &models.DataRequest{
		ID:        "req-stuck",
		MemberID:  "member-1",
		Kind:      models.DataRequestExport,
		Status:    models.DataRequestProcessing,
		StartedAt: &old,
	}
	require.NoError(t, repo.CreateDataRequest(stuck))
	require.NoError(t, repo.UpdateDataRequest(stuck))

	recent := time.Now().Add(-time.Minute)
	running := &models.DataRequest{
		ID:        "req-running",
		MemberID:  "member-1",
		Kind:      models.DataRequestExport,
		Status:    models.DataRequestProcessing,
		StartedAt: &recent,
	}
	require.NoError(t, repo.CreateDataRequest(running))
	require.NoError(t, repo.UpdateDataRequest(running))

	require.NoError(t, svc.RequeueStale())
	assert.Equal(t, []string{"req-stuck"}, queue.enqueued)
}
