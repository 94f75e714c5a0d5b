package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/garments-tracker/internal"
	userDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/garments-tracker/internal/user"
)

// UserRepository implements the user.RepositoryAPI interface using GORM
type UserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewUserRepository creates a new user repository. A zero timeout uses the default
// query timeout.
func NewUserRepository(db *gorm.DB, timeout time.Duration) user.RepositoryAPI {
	return &UserRepository{db: db, timeout: timeout}
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.User, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var users []*userDatamodel.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *UserRepository) UpdateRoleAndStatus(ctx context.Context, id, role, status string, clearSuspension bool) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	updates := map[string]interface{}{
		"role":       role,
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if clearSuspension {
		updates["suspend_reason"] = nil
		updates["suspend_feedback"] = nil
		updates["suspended_at"] = nil
	}

	return r.update(ctx, id, updates)
}

func (r *UserRepository) Suspend(ctx context.Context, id, reason, feedback string, at time.Time) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.update(ctx, id, map[string]interface{}{
		"status":           "suspended",
		"suspend_reason":   reason,
		"suspend_feedback": feedback,
		"suspended_at":     at,
		"updated_at":       at,
	})
}

func (r *UserRepository) update(ctx context.Context, id string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return internal.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return internal.ErrDuplicateAccount.WithCause(err)
	default:
		return internal.NewStoreUnavailableError(err)
	}
}
