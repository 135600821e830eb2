package services

import (
	"context"
	"sync"
	"testing"

	"github.com/legalese-navigator/portal-backend/idp"
	"github.com/legalese-navigator/portal-backend/v1/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Consultation{},
		&models.Notification{},
		&models.NotificationJob{},
		&models.ActivityLogEntry{},
		&models.SystemStatusEntry{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// mockPublisher is a test implementation of NotificationPublisher
var _ NotificationPublisher = (*mockPublisher)(nil)

type mockPublisher struct {
	publishFunc func(event *models.NotificationEvent) error
	events      []*models.NotificationEvent
}

func (m *mockPublisher) Publish(event *models.NotificationEvent) error {
	if m.publishFunc != nil {
		if err := m.publishFunc(event); err != nil {
			return err
		}
	}
	m.events = append(m.events, event)
	return nil
}

// mockActivityRecorder records synchronously so tests can assert on entries
// without racing the fire-and-forget goroutine
var _ ActivityRecorder = (*mockActivityRecorder)(nil)

type mockActivityRecorder struct {
	mu      sync.Mutex
	entries []recordedActivity
}

type recordedActivity struct {
	actor        string
	activityType string
	resource     models.ResourceType
	resourceID   string
	status       models.ActivityStatus
}

func (m *mockActivityRecorder) Record(actor string, activityType string, resource models.ResourceType, resourceID string, status models.ActivityStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, recordedActivity{
		actor:        actor,
		activityType: activityType,
		resource:     resource,
		resourceID:   resourceID,
		status:       status,
	})
}

func (m *mockActivityRecorder) byType(activityType string) []recordedActivity {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []recordedActivity
	for _, e := range m.entries {
		if e.activityType == activityType {
			matched = append(matched, e)
		}
	}
	return matched
}

// mockIdpAPI is a test implementation of the identity provider contract
var _ idp.IdentityProviderAPI = (*mockIdpAPI)(nil)

type mockIdpAPI struct {
	listUsersFunc      func(ctx context.Context, search string) ([]idp.UserInfo, error)
	setUserEnabledFunc func(ctx context.Context, userId string, enabled bool) error
	createUserFunc     func(ctx context.Context, userInfo *idp.User) (*idp.UserInfo, error)
	assignRoleFunc     func(ctx context.Context, userId string, roleName string) error
}

func (m *mockIdpAPI) CreateUser(ctx context.Context, userInfo *idp.User) (*idp.UserInfo, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, userInfo)
	}
	return &idp.UserInfo{
		Id:          "usr_mock",
		Email:       userInfo.Email,
		FirstName:   userInfo.FirstName,
		LastName:    userInfo.LastName,
		PhoneNumber: userInfo.PhoneNumber,
		Enabled:     true,
	}, nil
}

func (m *mockIdpAPI) GetUser(ctx context.Context, userId string) (*idp.UserInfo, error) {
	return &idp.UserInfo{Id: userId}, nil
}

func (m *mockIdpAPI) UpdateUser(ctx context.Context, userId string, userInfo *idp.User) (*idp.UserInfo, error) {
	return &idp.UserInfo{Id: userId, Email: userInfo.Email}, nil
}

func (m *mockIdpAPI) DeleteUser(ctx context.Context, userId string) error {
	return nil
}

func (m *mockIdpAPI) ListUsers(ctx context.Context, search string) ([]idp.UserInfo, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx, search)
	}
	return []idp.UserInfo{}, nil
}

func (m *mockIdpAPI) SetUserEnabled(ctx context.Context, userId string, enabled bool) error {
	if m.setUserEnabledFunc != nil {
		return m.setUserEnabledFunc(ctx, userId, enabled)
	}
	return nil
}

func (m *mockIdpAPI) AssignRole(ctx context.Context, userId string, roleName string) error {
	if m.assignRoleFunc != nil {
		return m.assignRoleFunc(ctx, userId, roleName)
	}
	return nil
}

// Helper function to create string pointer
func stringPtr(s string) *string {
	return &s
}
