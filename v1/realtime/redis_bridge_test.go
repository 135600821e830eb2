package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalese-navigator/portal-backend/v1/models"
)

type capturingSink struct {
	events     []*models.NotificationEvent
	publishErr error
}

func (s *capturingSink) Publish(event *models.NotificationEvent) error {
	s.events = append(s.events, event)
	return s.publishErr
}

func TestRedisBridge_HandleMessage(t *testing.T) {
	t.Run("delivers decoded events to the local hub", func(t *testing.T) {
		sink := &capturingSink{}
		bridge := &RedisBridge{hub: sink}

		bridge.handleMessage(`{"notificationId":"ntf_1","userId":"user-1","title":"Consultation Approved","message":"approved"}`)

		require.Len(t, sink.events, 1)
		assert.Equal(t, "ntf_1", sink.events[0].NotificationID)
		assert.Equal(t, "user-1", sink.events[0].UserID)
		assert.Equal(t, "Consultation Approved", sink.events[0].Title)
	})

	t.Run("skips malformed payloads", func(t *testing.T) {
		sink := &capturingSink{}
		bridge := &RedisBridge{hub: sink}

		bridge.handleMessage(`not json`)

		assert.Empty(t, sink.events)
	})

	t.Run("delivery failure does not stop the subscriber", func(t *testing.T) {
		sink := &capturingSink{publishErr: assert.AnError}
		bridge := &RedisBridge{hub: sink}

		bridge.handleMessage(`{"notificationId":"ntf_1","userId":"user-1"}`)
		bridge.handleMessage(`{"notificationId":"ntf_2","userId":"user-1"}`)

		assert.Len(t, sink.events, 2)
	})
}

func TestNewRedisBridge_UnreachableServer(t *testing.T) {
	bridge, err := NewRedisBridge("127.0.0.1:1", "", 0, NewHub())
	require.Error(t, err)
	assert.Nil(t, bridge)
	assert.Contains(t, err.Error(), "redis ping failed")
}
