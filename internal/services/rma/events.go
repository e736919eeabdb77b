package rma

import "time"

// Event types emitted by the lifecycle engine
const (
	EventRMACreated       = "rma_created"
	EventRMAStatusUpdated = "rma_status_updated"
	EventRMAApproved      = "rma_approved"
	EventRMARejected      = "rma_rejected"
	EventExpiryAlert      = "expiry_alert"
)

// Delivery channels. The admin channel mirrors the creation event to
// administrator dashboards only.
const (
	ChannelNotification = "notification"
	ChannelAdmin        = "admin:newRMA"
	ChannelExpiry       = "expiry-alert"
)

// Event is the payload announced to the event transport after a state
// change has been durably written.
type Event struct {
	Channel   string                 `json:"channel"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title,omitempty"`
	Message   string                 `json:"message"`
	RMANumber string                 `json:"rmaNumber,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Emitter delivers events to connected clients. Implementations must be
// fire-and-forget: a delivery failure never rolls back or blocks the
// state change that produced the event.
type Emitter interface {
	Emit(Event)
}

// NopEmitter discards all events. Used where no transport is wired.
type NopEmitter struct{}

func (NopEmitter) Emit(Event) {}
