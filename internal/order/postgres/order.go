package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/garments-tracker/internal"
	orderDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/order"
	"github.com/frahmantamala/garments-tracker/internal/order"
)

// OrderRepository implements the order.RepositoryAPI interface using GORM
type OrderRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB, timeout time.Duration) order.RepositoryAPI {
	return &OrderRepository{db: db, timeout: timeout}
}

func (r *OrderRepository) Create(ctx context.Context, o *orderDatamodel.Order) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Omit("TrackingHistory").Create(o).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*orderDatamodel.Order, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var o orderDatamodel.Order
	err := r.withHistory(ctx).Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// ListByOwner retrieves a buyer's orders, newest first
func (r *OrderRepository) ListByOwner(ctx context.Context, ownerID string) ([]*orderDatamodel.Order, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var orders []*orderDatamodel.Order
	err := r.withHistory(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// ListByStatus retrieves orders in a status, oldest first
func (r *OrderRepository) ListByStatus(ctx context.Context, status string) ([]*orderDatamodel.Order, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var orders []*orderDatamodel.Order
	err := r.withHistory(ctx).
		Where("status = ?", status).
		Order("created_at ASC"). // FIFO for review
		Find(&orders).Error
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*orderDatamodel.Order, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var orders []*orderDatamodel.Order
	if err := r.withHistory(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// TransitionStatus is a compare-and-set on the status column. Of two concurrent
// decisions on the same Pending order exactly one updates a row.
func (r *OrderRepository) TransitionStatus(ctx context.Context, id, from, to string, at time.Time) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch order.Status(to) {
	case order.StatusApproved:
		updates["approved_at"] = at
	case order.StatusRejected:
		updates["rejected_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&orderDatamodel.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&orderDatamodel.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return internal.ErrOrderNotFound
	}
	return internal.ErrInvalidTransition
}

// AppendTracking updates current_status first so the order row lock serializes
// concurrent appends, then inserts the entry.
func (r *OrderRepository) AppendTracking(ctx context.Context, entry *orderDatamodel.TrackingEntry) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&orderDatamodel.Order{}).
			Where("id = ?", entry.OrderID).
			Updates(map[string]interface{}{
				"current_status": entry.Stage,
				"updated_at":     entry.RecordedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrOrderNotFound
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *OrderRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("TrackingHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func translate(err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return internal.ErrOrderNotFound
	}
	return internal.NewStoreUnavailableError(err)
}
