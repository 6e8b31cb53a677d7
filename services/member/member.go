package member

import (
	"fmt"
	"strings"
	"time"

	"ptaconnect/models"
	"ptaconnect/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// Register creates a member with restrictive default privacy settings.
func (s *DefaultMemberService) Register(req RegistrationRequest) (*AuthResponse, error) {
	if err := utils.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if len(req.Password) < 8 {
		return nil, utils.NewValidationError("Password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, utils.NewValidationError("First and last name are required")
	}

	if existing, err := s.Repo.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &models.Member{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         models.RoleMember,
	}
	if err := s.Repo.Create(member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	// Everything off until the member opts in.
	settings := models.DefaultPrivacySettings(member.ID)
	if err := s.PrivacyRepo.UpsertSettings(&settings); err != nil {
		return nil, fmt.Errorf("failed to create default privacy settings: %w", err)
	}

	token, err := utils.GenerateToken(member.ID, member.Email, member.Role, tokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.Audit.Log(models.AuditEvent{
		Action:   "member.registered",
		MemberID: member.ID,
	})
	return &AuthResponse{
		ID:        member.ID,
		Token:     token,
		Email:     member.Email,
		FirstName: member.FirstName,
		LastName:  member.LastName,
		Role:      member.Role,
	}, nil
}

// Authenticate checks credentials and returns a signed token.
func (s *DefaultMemberService) Authenticate(email, password string) (*AuthResponse, error) {
	member, err := s.Repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil || member == nil || member.Anonymized {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(member.ID, member.Email, member.Role, tokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.Audit.Log(models.AuditEvent{
		Action:   "member.authenticated",
		MemberID: member.ID,
	})
	return &AuthResponse{
		ID:        member.ID,
		Token:     token,
		Email:     member.Email,
		FirstName: member.FirstName,
		LastName:  member.LastName,
		Role:      member.Role,
	}, nil
}

// GetMemberByID retrieves a member.
func (s *DefaultMemberService) GetMemberByID(id string) (*models.Member, error) {
	return s.Repo.GetByID(id)
}

// UpdateProfile applies allowed profile changes.
func (s *DefaultMemberService) UpdateProfile(memberID string, updates ProfileUpdate) (*models.Member, error) {
	member, err := s.Repo.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if updates.FirstName != nil {
		member.FirstName = strings.TrimSpace(*updates.FirstName)
	}
	if updates.LastName != nil {
		member.LastName = strings.TrimSpace(*updates.LastName)
	}
	if updates.Phone != nil {
		member.Phone = *updates.Phone
	}
	if updates.Address != nil {
		member.Address = *updates.Address
	}
	if err := s.Repo.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

// Directory lists opted-in members with per-field privacy filtering. Settings
// missing entirely means the member never opted in, so they are skipped.
func (s *DefaultMemberService) Directory() ([]models.DirectoryEntry, error) {
	members, err := s.Repo.GetAll()
	if err != nil {
		return nil, err
	}

	entries := make([]models.DirectoryEntry, 0, len(members))
	for _, m := range members {
		if m.Anonymized {
			continue
		}
		settings, err := s.PrivacyRepo.GetSettings(m.ID)
		if err != nil {
			if utils.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if !settings.DirectoryVisible {
			continue
		}
		entry := models.DirectoryEntry{
			ID:        m.ID,
			FirstName: m.FirstName,
			LastName:  m.LastName,
		}
		if settings.ShowEmail {
			entry.Email = m.Email
		}
		if settings.ShowPhone {
			entry.Phone = m.Phone
		}
		if settings.ShowAddress {
			entry.Address = m.Address
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RegisterDevice records a push-capable device for a member.
func (s *DefaultMemberService) RegisterDevice(memberID string, device models.Device) error {
	device.LastSeen = time.Now()
	return s.Repo.UpsertDevice(memberID, device)
}

// SetRole changes a member's role.
func (s *DefaultMemberService) SetRole(memberID, role string) error {
	switch role {
	case models.RoleMember, models.RoleBoard, models.RoleAdmin:
	default:
		return ErrInvalidRole
	}
	member, err := s.Repo.GetByID(memberID)
	if err != nil {
		return err
	}
	member.Role = role
	if err := s.Repo.Update(member); err != nil {
		return err
	}
	s.Audit.Log(models.AuditEvent{
		Action:   "member.role_changed",
		TargetID: memberID,
		Details:  map[string]string{"role": role},
	})
	return nil
}
