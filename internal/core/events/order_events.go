package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeOrderPlaced           = "order.placed"
	EventTypeOrderApproved         = "order.approved"
	EventTypeOrderRejected         = "order.rejected"
	EventTypeOrderTrackingAppended = "order.tracking_appended"
	EventTypeUserSuspended         = "user.suspended"
)

// AllEventTypes lists every event the service emits.
var AllEventTypes = []string{
	EventTypeOrderPlaced,
	EventTypeOrderApproved,
	EventTypeOrderRejected,
	EventTypeOrderTrackingAppended,
	EventTypeUserSuspended,
}

func newBase(eventType string, at time.Time, data map[string]interface{}) BaseEvent {
	if at.IsZero() {
		at = time.Now()
	}
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: at.UTC(),
		Data:      data,
	}
}

type OrderPlacedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	OwnerID   string `json:"owner_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func NewOrderPlacedEvent(orderID, ownerID, productID string, quantity int, at time.Time) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseEvent: newBase(EventTypeOrderPlaced, at, map[string]interface{}{
			"order_id":   orderID,
			"owner_id":   ownerID,
			"product_id": productID,
			"quantity":   quantity,
		}),
		OrderID:   orderID,
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  quantity,
	}
}

// OrderDecidedEvent is emitted for both approval and rejection.
type OrderDecidedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	OwnerID   string `json:"owner_id"`
	DecidedBy string `json:"decided_by"`
	Status    string `json:"status"`
}

func NewOrderApprovedEvent(orderID, ownerID, decidedBy string, at time.Time) *OrderDecidedEvent {
	return newDecided(EventTypeOrderApproved, "Approved", orderID, ownerID, decidedBy, at)
}

func NewOrderRejectedEvent(orderID, ownerID, decidedBy string, at time.Time) *OrderDecidedEvent {
	return newDecided(EventTypeOrderRejected, "Rejected", orderID, ownerID, decidedBy, at)
}

func newDecided(eventType, status, orderID, ownerID, decidedBy string, at time.Time) *OrderDecidedEvent {
	return &OrderDecidedEvent{
		BaseEvent: newBase(eventType, at, map[string]interface{}{
			"order_id":   orderID,
			"owner_id":   ownerID,
			"decided_by": decidedBy,
			"status":     status,
		}),
		OrderID:   orderID,
		OwnerID:   ownerID,
		DecidedBy: decidedBy,
		Status:    status,
	}
}

type TrackingAppendedEvent struct {
	BaseEvent
	OrderID    string `json:"order_id"`
	Stage      string `json:"stage"`
	Location   string `json:"location"`
	RecordedBy string `json:"recorded_by"`
}

func NewTrackingAppendedEvent(orderID, stage, location, recordedBy string, at time.Time) *TrackingAppendedEvent {
	return &TrackingAppendedEvent{
		BaseEvent: newBase(EventTypeOrderTrackingAppended, at, map[string]interface{}{
			"order_id":    orderID,
			"stage":       stage,
			"location":    location,
			"recorded_by": recordedBy,
		}),
		OrderID:    orderID,
		Stage:      stage,
		Location:   location,
		RecordedBy: recordedBy,
	}
}

type UserSuspendedEvent struct {
	BaseEvent
	UserID      string `json:"user_id"`
	SuspendedBy string `json:"suspended_by"`
	Reason      string `json:"reason"`
}

func NewUserSuspendedEvent(userID, suspendedBy, reason string, at time.Time) *UserSuspendedEvent {
	return &UserSuspendedEvent{
		BaseEvent: newBase(EventTypeUserSuspended, at, map[string]interface{}{
			"user_id":      userID,
			"suspended_by": suspendedBy,
			"reason":       reason,
		}),
		UserID:      userID,
		SuspendedBy: suspendedBy,
		Reason:      reason,
	}
}
