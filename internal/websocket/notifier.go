package websocket

import (
	"log"

	"github.com/asseto/trackgo/internal/database"
	"github.com/asseto/trackgo/internal/models"
	"github.com/asseto/trackgo/internal/services/rma"
	"gorm.io/datatypes"
)

// Notifier implements the lifecycle engine's event sink: every event is
// persisted as a notification (so offline clients can catch up) and
// pushed to connected clients. Both paths are fire-and-forget; failures
// are logged and never propagated to the caller.
type Notifier struct {
	hub *Hub
	db  *database.DB
}

// NewNotifier creates an event sink backed by the hub and the
// notifications table
func NewNotifier(hub *Hub, db *database.DB) *Notifier {
	return &Notifier{hub: hub, db: db}
}

// Emit persists and delivers one event. Admin-channel events reach only
// admin clients; everything else is broadcast.
func (n *Notifier) Emit(event rma.Event) {
	n.persist(event)

	switch event.Channel {
	case rma.ChannelAdmin:
		n.hub.BroadcastAdmins(event)
	default:
		n.hub.Broadcast(event)
	}
}

func (n *Notifier) persist(event rma.Event) {
	notif := models.Notification{
		Message: event.Message,
		Type:    notificationType(event),
	}

	if event.Context != nil {
		notif.Metadata = datatypes.JSONMap(event.Context)
		if id, ok := event.Context["deviceId"].(string); ok && id != "" {
			notif.DeviceID = &id
		}
	}
	if event.RMANumber != "" {
		if notif.Metadata == nil {
			notif.Metadata = datatypes.JSONMap{}
		}
		notif.Metadata["rmaNumber"] = event.RMANumber
	}

	if err := n.db.Create(&notif).Error; err != nil {
		log.Printf("⚠️ Failed to persist notification: %v", err)
	}
}

func notificationType(event rma.Event) string {
	switch event.Type {
	case rma.EventExpiryAlert:
		return models.NotificationExpiry
	case rma.EventRMARejected:
		return models.NotificationWarning
	case rma.EventRMAApproved:
		return models.NotificationSuccess
	default:
		return models.NotificationInfo
	}
}
