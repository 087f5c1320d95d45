package sse

import (
	"time"

	"github.com/GTDGit/customer_portal/internal/models"
)

// ActivityNotifier is what services use to publish live activity.
type ActivityNotifier interface {
	OrderCreated(order *models.Order)
	ChatInteraction(entry models.InteractionLog, action string)
}

// HubNotifier publishes through a Hub.
type HubNotifier struct {
	hub *Hub
	now func() time.Time
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub, now: time.Now}
}

func (n *HubNotifier) OrderCreated(order *models.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	total := order.TotalAmount
	n.hub.Broadcast(&ActivityEvent{
		Event:       EventOrderCreated,
		CustomerID:  order.CustomerID,
		OrderID:     order.ID,
		Status:      string(order.Status),
		TotalAmount: &total,
		Timestamp:   n.now().UTC(),
	})
}

// ChatInteraction publishes that a customer chatted; message text is not
// included.
func (n *HubNotifier) ChatInteraction(entry models.InteractionLog, action string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&ActivityEvent{
		Event:      EventChatInteraction,
		CustomerID: entry.CustomerID,
		Channel:    entry.Channel,
		Action:     action,
		Timestamp:  n.now().UTC(),
	})
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) OrderCreated(*models.Order)                    {}
func (NopNotifier) ChatInteraction(models.InteractionLog, string) {}
