package websocket

import (
	"testing"

	"github.com/asseto/trackgo/internal/models"
	"github.com/asseto/trackgo/internal/services/rma"
)

func TestNotificationType(t *testing.T) {
	cases := []struct {
		eventType string
		want      string
	}{
		{rma.EventExpiryAlert, models.NotificationExpiry},
		{rma.EventRMARejected, models.NotificationWarning},
		{rma.EventRMAApproved, models.NotificationSuccess},
		{rma.EventRMACreated, models.NotificationInfo},
		{rma.EventRMAStatusUpdated, models.NotificationInfo},
	}
	for _, tc := range cases {
		if got := notificationType(rma.Event{Type: tc.eventType}); got != tc.want {
			t.Errorf("notificationType(%s) = %q, want %q", tc.eventType, got, tc.want)
		}
	}
}

func TestHubClientCount(t *testing.T) {
	h := NewHub()
	if h.ClientCount() != 0 {
		t.Errorf("New hub should have no clients, got %d", h.ClientCount())
	}
}
