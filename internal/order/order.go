package order

import (
	"encoding/json"
	"time"

	orderDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/order"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Order is a buyer's purchase request. Status only moves from Pending to one of the
// terminal states; CurrentStatus mirrors the newest tracking entry.
type Order struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id"`
	OwnerEmail      string          `json:"owner_email"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	Status          Status          `json:"status"`
	CurrentStatus   string          `json:"current_status"`
	CreatedAt       time.Time       `json:"created_at"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	TrackingHistory []TrackingEntry `json:"tracking_history"`
}

type TrackingEntry struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	Location   string    `json:"location"`
	Note       string    `json:"note,omitempty"`
	RecordedBy string    `json:"recorded_by,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (o *Order) IsPending() bool {
	return o.Status == StatusPending
}

func (o *Order) IsOwnedBy(userID string) bool {
	return o.OwnerID == userID
}

func ToDataModel(o *Order) *orderDatamodel.Order {
	m := &orderDatamodel.Order{
		ID:            o.ID,
		OwnerID:       o.OwnerID,
		OwnerEmail:    o.OwnerEmail,
		ProductID:     o.ProductID,
		Quantity:      o.Quantity,
		Payload:       string(o.Payload),
		Status:        string(o.Status),
		CurrentStatus: o.CurrentStatus,
		CreatedAt:     o.CreatedAt,
		ApprovedAt:    o.ApprovedAt,
		RejectedAt:    o.RejectedAt,
		UpdatedAt:     o.CreatedAt,
	}
	return m
}

func FromDataModel(m *orderDatamodel.Order) *Order {
	o := &Order{
		ID:              m.ID,
		OwnerID:         m.OwnerID,
		OwnerEmail:      m.OwnerEmail,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		Status:          Status(m.Status),
		CurrentStatus:   m.CurrentStatus,
		CreatedAt:       m.CreatedAt,
		ApprovedAt:      m.ApprovedAt,
		RejectedAt:      m.RejectedAt,
		TrackingHistory: FromTrackingDataModels(m.TrackingHistory),
	}
	if m.Payload != "" {
		o.Payload = json.RawMessage(m.Payload)
	}
	return o
}

func FromDataModelSlice(models []*orderDatamodel.Order) []*Order {
	result := make([]*Order, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}

func FromTrackingDataModels(entries []orderDatamodel.TrackingEntry) []TrackingEntry {
	result := make([]TrackingEntry, len(entries))
	for i, e := range entries {
		result[i] = TrackingEntry{
			ID:         e.ID,
			Status:     e.Stage,
			Location:   e.Location,
			Note:       e.Note,
			RecordedBy: e.RecordedBy,
			Timestamp:  e.RecordedAt,
		}
	}
	return result
}
