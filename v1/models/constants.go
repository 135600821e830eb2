package models

// ConsultationStatus represents the moderation status of a consultation request
type ConsultationStatus string

const (
	ConsultationStatusPending  ConsultationStatus = "pending"
	ConsultationStatusApproved ConsultationStatus = "approved"
	ConsultationStatusRejected ConsultationStatus = "rejected"
)

// IsValid checks if the status is one of the known values
func (s ConsultationStatus) IsValid() bool {
	switch s {
	case ConsultationStatusPending, ConsultationStatusApproved, ConsultationStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is legal. Decisions are
// terminal: once approved or rejected, a consultation cannot be reopened or
// flipped to the other decision.
func (s ConsultationStatus) CanTransitionTo(next ConsultationStatus) bool {
	if s != ConsultationStatusPending {
		return false
	}
	return next == ConsultationStatusApproved || next == ConsultationStatusRejected
}

// NotificationJobStatus represents the status of a notification delivery job
type NotificationJobStatus string

const (
	NotificationJobStatusPending    NotificationJobStatus = "pending"
	NotificationJobStatusProcessing NotificationJobStatus = "processing"
	NotificationJobStatusCompleted  NotificationJobStatus = "completed"
	NotificationJobStatusFailed     NotificationJobStatus = "failed"
)

// ActivityStatus represents the outcome recorded in the activity log
type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusFailure ActivityStatus = "failure"
)

// ResourceType represents different resource types for activity logging
type ResourceType string

const (
	ResourceTypeConsultations ResourceType = "CONSULTATIONS"
	ResourceTypeNotifications ResourceType = "NOTIFICATIONS"
	ResourceTypeTemplates     ResourceType = "TEMPLATES"
	ResourceTypeUsers         ResourceType = "USERS"
)

// Notification titles produced by consultation decisions
const (
	NotificationTitleConsultationApproved = "Consultation Approved"
	NotificationTitleConsultationRejected = "Consultation Rejected"
)

// ConsultationExcerptLength is the number of characters of the original
// consultation message embedded in a decision notification
const ConsultationExcerptLength = 30

// Field length constraints remain as regular constants
const (
	MaxNameLength    = 255
	MaxMessageLength = 5000
	MaxEmailLength   = 320 // RFC 3696 specification
	MaxPhoneLength   = 15  // E.164 format
)
