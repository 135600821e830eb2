package models

import "time"

// Notification represents an in-app message delivered to a specific user,
// generated as a side effect of consultation status changes
type Notification struct {
	NotificationID string `gorm:"primarykey;column:notification_id" json:"notificationId"`
	UserID         string `gorm:"column:user_id;not null;index" json:"userId"`
	Title          string `gorm:"column:title;not null" json:"title"`
	Message        string `gorm:"column:message;not null" json:"message"`
	IsRead         bool   `gorm:"column:is_read;not null;default:false" json:"isRead"`
	BaseModel
}

// TableName sets the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NotificationJob is the outbox row committed in the same transaction as a
// notification insert. The background worker delivers committed notifications
// to connected realtime clients, so a crash between commit and delivery never
// loses an event.
type NotificationJob struct {
	JobID          string                `gorm:"primarykey;column:job_id" json:"jobId"`
	NotificationID string                `gorm:"column:notification_id;not null" json:"notificationId"`
	UserID         string                `gorm:"column:user_id;not null" json:"userId"`
	Status         NotificationJobStatus `gorm:"column:status;not null;default:pending" json:"status"`
	RetryCount     int                   `gorm:"column:retry_count;not null;default:0" json:"retryCount"`
	MaxRetries     int                   `gorm:"column:max_retries;not null;default:5" json:"maxRetries"`
	NextRetryAt    *time.Time            `gorm:"column:next_retry_at" json:"nextRetryAt,omitempty"`
	Error          *string               `gorm:"column:error" json:"error,omitempty"`
	ProcessedAt    *time.Time            `gorm:"column:processed_at" json:"processedAt,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (NotificationJob) TableName() string {
	return "notification_jobs"
}

// NotificationResponse is the API representation of a notification
type NotificationResponse struct {
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	IsRead         bool   `json:"isRead"`
	CreatedAt      string `json:"createdAt"`
}

// NotificationEvent is the payload pushed over the realtime channel when a
// notification row is committed
type NotificationEvent struct {
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	CreatedAt      string `json:"createdAt"`
}
