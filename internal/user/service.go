package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/garments-tracker/internal/core/events"
)

// RepositoryAPI translates store failures into the internal error taxonomy:
// ErrUserNotFound, ErrDuplicateAccount, or a STORE_UNAVAILABLE error.
type RepositoryAPI interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	FindByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	List(ctx context.Context) ([]*userDatamodel.User, error)
	UpdateRoleAndStatus(ctx context.Context, id, role, status string, clearSuspension bool) error
	Suspend(ctx context.Context, id, reason, feedback string, at time.Time) error
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, actor internal.Identity, op access.Operation) error
}

type Service struct {
	repo      RepositoryAPI
	hasher    PasswordHasher
	authz     Authorizer
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, authz Authorizer, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		authz:     authz,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates an active account and returns its id.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	if _, err := s.repo.FindByEmail(ctx, dto.Email); err == nil {
		return "", internal.ErrDuplicateAccount
	} else if internal.KindOf(err) != internal.ErrorTypeNotFound {
		return "", err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return "", internal.ErrInternal.WithCause(err)
	}

	now := s.now().UTC()
	m := &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: hash,
		Role:         dto.Role,
		Status:       string(access.StatusActive),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index still catches a concurrent registration that passed the pre-check.
	if err := s.repo.Create(ctx, m); err != nil {
		return "", err
	}

	s.logger.Info("user registered", "user_id", m.ID, "role", m.Role)
	return m.ID, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return NewAccounts(s.repo).FindByEmail(ctx, email)
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	if err := validation.ValidateID("id", id); err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(m), nil
}

func (s *Service) ListUsers(ctx context.Context, actor internal.Identity) ([]*User, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpUserList); err != nil {
		return nil, err
	}

	models, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]*User, 0, len(models))
	for _, m := range models {
		users = append(users, FromDataModel(m))
	}
	return users, nil
}

// SetRoleAndStatus changes an account's role and status. Reactivating an account drops
// its suspension metadata.
func (s *Service) SetRoleAndStatus(ctx context.Context, actor internal.Identity, id string, dto UpdateAccountDTO) (*User, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpUserManage); err != nil {
		return nil, err
	}
	if err := validation.ValidateID("id", id); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	reactivate := access.Status(dto.Status) == access.StatusActive
	if err := s.repo.UpdateRoleAndStatus(ctx, id, dto.Role, dto.Status, reactivate); err != nil {
		return nil, err
	}

	s.logger.Info("account updated", "user_id", id, "role", dto.Role, "status", dto.Status, "by", actor.UserID)
	return s.GetByID(ctx, id)
}

func (s *Service) Suspend(ctx context.Context, actor internal.Identity, id string, dto SuspendDTO) (*User, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpUserSuspend); err != nil {
		return nil, err
	}
	if err := validation.ValidateID("id", id); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if err := s.repo.Suspend(ctx, id, strings.TrimSpace(dto.Reason), strings.TrimSpace(dto.Feedback), at); err != nil {
		return nil, err
	}

	s.logger.Info("account suspended", "user_id", id, "by", actor.UserID)
	s.publish(ctx, events.NewUserSuspendedEvent(id, actor.UserID, dto.Reason, at))

	return s.GetByID(ctx, id)
}

// publish logs delivery failures instead of returning them.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "event_id", event.EventID(), "error", err)
	}
}
