package order

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/core/common/validation"
	orderDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/order"
	"github.com/frahmantamala/garments-tracker/internal/core/events"
)

// RepositoryAPI defines the data access methods for orders. Implementations return
// internal.ErrOrderNotFound for unknown ids and STORE_UNAVAILABLE errors otherwise.
type RepositoryAPI interface {
	Create(ctx context.Context, o *orderDatamodel.Order) error
	// GetByID preloads the tracking history in append order.
	GetByID(ctx context.Context, id string) (*orderDatamodel.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*orderDatamodel.Order, error)
	ListByStatus(ctx context.Context, status string) ([]*orderDatamodel.Order, error)
	ListAll(ctx context.Context) ([]*orderDatamodel.Order, error)
	// TransitionStatus moves an order from one status to another only if it is still
	// in from. It returns internal.ErrInvalidTransition when the order exists in
	// another status.
	TransitionStatus(ctx context.Context, id, from, to string, at time.Time) error
	// AppendTracking sets current_status and inserts the entry in one transaction.
	AppendTracking(ctx context.Context, entry *orderDatamodel.TrackingEntry) error
}

type Authorizer interface {
	Authorize(ctx context.Context, actor internal.Identity, op access.Operation) error
}

// Service handles the order lifecycle
type Service struct {
	repo      RepositoryAPI
	authz     Authorizer
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new order service
func NewService(repo RepositoryAPI, authz Authorizer, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		authz:     authz,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// PlaceOrder creates a Pending order owned by actor with an empty tracking history.
func (s *Service) PlaceOrder(ctx context.Context, actor internal.Identity, dto PlaceOrderDTO) (*Order, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpOrderPlace); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o := &Order{
		ID:              uuid.NewString(),
		OwnerID:         actor.UserID,
		OwnerEmail:      actor.Email,
		ProductID:       strings.TrimSpace(dto.ProductID),
		Quantity:        dto.Quantity,
		Payload:         dto.Payload,
		Status:          StatusPending,
		CreatedAt:       now,
		TrackingHistory: []TrackingEntry{},
	}

	if err := s.repo.Create(ctx, ToDataModel(o)); err != nil {
		s.logger.Error("failed to create order", "error", err, "user_id", actor.UserID)
		return nil, err
	}

	s.logger.Info("order placed",
		"order_id", o.ID,
		"user_id", actor.UserID,
		"product_id", o.ProductID,
		"quantity", o.Quantity)
	s.publish(ctx, events.NewOrderPlacedEvent(o.ID, o.OwnerID, o.ProductID, o.Quantity, now))

	return o, nil
}

// ListOwnOrders returns the caller's orders, newest first.
func (s *Service) ListOwnOrders(ctx context.Context, actor internal.Identity) ([]*Order, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpOrderListOwn); err != nil {
		return nil, err
	}

	models, err := s.repo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to list own orders", "error", err, "user_id", actor.UserID)
		return nil, err
	}
	return FromDataModelSlice(models), nil
}

// ListPending returns the review queue, oldest first.
func (s *Service) ListPending(ctx context.Context, actor internal.Identity) ([]*Order, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpOrderListPending); err != nil {
		return nil, err
	}

	models, err := s.repo.ListByStatus(ctx, string(StatusPending))
	if err != nil {
		s.logger.Error("failed to list pending orders", "error", err)
		return nil, err
	}
	return FromDataModelSlice(models), nil
}

// ListAll returns every order, newest first.
func (s *Service) ListAll(ctx context.Context, actor internal.Identity) ([]*Order, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpOrderListAll); err != nil {
		return nil, err
	}

	models, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list orders", "error", err)
		return nil, err
	}
	return FromDataModelSlice(models), nil
}

// GetOrder returns one order with its tracking history to its owner, a manager or an admin.
func (s *Service) GetOrder(ctx context.Context, actor internal.Identity, id string) (*Order, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpOrderRead); err != nil {
		return nil, err
	}
	return s.readable(ctx, actor, id)
}

// GetTracking returns the history in append order. An order without entries yields an
// empty slice.
func (s *Service) GetTracking(ctx context.Context, actor internal.Identity, id string) ([]TrackingEntry, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpOrderTrackingRead); err != nil {
		return nil, err
	}

	o, err := s.readable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return o.TrackingHistory, nil
}

func (s *Service) Approve(ctx context.Context, actor internal.Identity, id string) (*Order, error) {
	return s.decide(ctx, actor, id, access.OpOrderApprove, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, actor internal.Identity, id string) (*Order, error) {
	return s.decide(ctx, actor, id, access.OpOrderReject, StatusRejected)
}

// AppendTracking records a production stage. It is allowed in every coarse status.
func (s *Service) AppendTracking(ctx context.Context, actor internal.Identity, id string, dto TrackingDTO) (*Order, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpOrderTrack); err != nil {
		return nil, err
	}
	if err := validation.ValidateID("id", id); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := &orderDatamodel.TrackingEntry{
		OrderID:    id,
		Stage:      strings.TrimSpace(dto.Status),
		Location:   strings.TrimSpace(dto.Location),
		Note:       dto.Note,
		RecordedBy: actor.UserID,
		RecordedAt: now,
	}
	if err := s.repo.AppendTracking(ctx, entry); err != nil {
		s.logger.Error("failed to append tracking entry", "error", err, "order_id", id)
		return nil, err
	}

	s.logger.Info("tracking appended", "order_id", id, "stage", entry.Stage, "manager_id", actor.UserID)
	s.publish(ctx, events.NewTrackingAppendedEvent(id, entry.Stage, entry.Location, actor.UserID, now))

	return s.load(ctx, id)
}

func (s *Service) decide(ctx context.Context, actor internal.Identity, id string, op access.Operation, to Status) (*Order, error) {
	if err := s.authz.Authorize(ctx, actor, op); err != nil {
		return nil, err
	}
	if err := validation.ValidateID("id", id); err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if err := s.repo.TransitionStatus(ctx, id, string(StatusPending), string(to), at); err != nil {
		if internal.KindOf(err) == internal.ErrorTypeConflict {
			s.logger.Warn("order is not pending", "order_id", id, "target_status", to)
		} else {
			s.logger.Error("failed to update order status", "error", err, "order_id", id)
		}
		return nil, err
	}

	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order decided", "order_id", id, "status", to, "manager_id", actor.UserID)
	if to == StatusApproved {
		s.publish(ctx, events.NewOrderApprovedEvent(id, o.OwnerID, actor.UserID, at))
	} else {
		s.publish(ctx, events.NewOrderRejectedEvent(id, o.OwnerID, actor.UserID, at))
	}
	return o, nil
}

// readable loads an order and applies the read rule: buyers only see their own orders.
func (s *Service) readable(ctx context.Context, actor internal.Identity, id string) (*Order, error) {
	if err := validation.ValidateID("id", id); err != nil {
		return nil, err
	}

	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch access.Role(actor.Role) {
	case access.RoleManager, access.RoleAdmin:
		return o, nil
	}
	if !o.IsOwnedBy(actor.UserID) {
		s.logger.Warn("unauthorized access to order", "order_id", id, "user_id", actor.UserID)
		return nil, internal.ErrForbidden
	}
	return o, nil
}

func (s *Service) load(ctx context.Context, id string) (*Order, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(m), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
