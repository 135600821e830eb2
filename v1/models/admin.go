package models

import "time"

// ActivityLogEntry is the admin-dashboard activity feed row. Entries are
// written by ActivityService as a side effect of write operations.
type ActivityLogEntry struct {
	ActivityID   string  `gorm:"primarykey;column:activity_id" json:"activityId"`
	ActivityType string  `gorm:"column:activity_type;not null" json:"activityType"`
	Description  string  `gorm:"column:description;not null" json:"description"`
	UserName     *string `gorm:"column:user_name" json:"userName,omitempty"`
	Details      *string `gorm:"column:details" json:"details,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (ActivityLogEntry) TableName() string {
	return "activity_log"
}

// SystemStatusEntry is the admin-dashboard per-service health row. Read-only
// from the API's perspective; rows are maintained by operations tooling.
type SystemStatusEntry struct {
	StatusID    string    `gorm:"primarykey;column:status_id" json:"statusId"`
	ServiceName string    `gorm:"column:service_name;not null" json:"serviceName"`
	Status      string    `gorm:"column:status;not null" json:"status"`
	LastUpdated time.Time `gorm:"column:last_updated;default:CURRENT_TIMESTAMP" json:"lastUpdated"`
}

// TableName sets the table name for GORM
func (SystemStatusEntry) TableName() string {
	return "system_status"
}

// Known system status values rendered by the admin console. Status is
// free-text in the store; anything else renders without a color mapping.
const (
	SystemStatusOperational   = "Operational"
	SystemStatusPartialOutage = "Partial Outage"
	SystemStatusMajorOutage   = "Major Outage"
)

// DashboardStats aggregates the counters shown at the top of the admin console
type DashboardStats struct {
	TotalConsultations    int64 `json:"totalConsultations"`
	PendingConsultations  int64 `json:"pendingConsultations"`
	ApprovedConsultations int64 `json:"approvedConsultations"`
	RejectedConsultations int64 `json:"rejectedConsultations"`
	TotalNotifications    int64 `json:"totalNotifications"`
	UnreadNotifications   int64 `json:"unreadNotifications"`
	TotalUsers            int   `json:"totalUsers"`
}

// DirectoryUser is the admin-facing view of an IdP account, returned by the
// user management listing
type DirectoryUser struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Phone        string  `json:"phone,omitempty"`
	Enabled      bool    `json:"enabled"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	LastSignInAt *string `json:"lastSignInAt,omitempty"`
}

// UserStatusRequest toggles an account between banned and active
type UserStatusRequest struct {
	Action string `json:"action"` // "ban" or "unban"
}

// CreateAdminRequest provisions a new admin account through the IdP
type CreateAdminRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}
