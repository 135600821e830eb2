package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsultationStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status ConsultationStatus
		want   bool
	}{
		{"Pending", ConsultationStatusPending, true},
		{"Approved", ConsultationStatusApproved, true},
		{"Rejected", ConsultationStatusRejected, true},
		{"Unknown", ConsultationStatus("archived"), false},
		{"Empty", ConsultationStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestConsultationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from ConsultationStatus
		to   ConsultationStatus
		want bool
	}{
		{"pending to approved", ConsultationStatusPending, ConsultationStatusApproved, true},
		{"pending to rejected", ConsultationStatusPending, ConsultationStatusRejected, true},
		{"pending to pending", ConsultationStatusPending, ConsultationStatusPending, false},
		{"approved is terminal", ConsultationStatusApproved, ConsultationStatusRejected, false},
		{"rejected is terminal", ConsultationStatusRejected, ConsultationStatusApproved, false},
		{"approved cannot reopen", ConsultationStatusApproved, ConsultationStatusPending, false},
		{"pending to unknown", ConsultationStatusPending, ConsultationStatus("archived"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
