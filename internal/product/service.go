package product

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/core/common/validation"
	productDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/product"
)

type RepositoryAPI interface {
	ListHome(ctx context.Context, limit int) ([]*productDatamodel.Product, error)
	ListAll(ctx context.Context) ([]*productDatamodel.Product, error)
	GetByID(ctx context.Context, id string) (*productDatamodel.Product, error)
	Create(ctx context.Context, p *productDatamodel.Product) error
	Update(ctx context.Context, p *productDatamodel.Product) error
	Delete(ctx context.Context, id string) error
}

type Authorizer interface {
	Authorize(ctx context.Context, actor internal.Identity, op access.Operation) error
}

type Service struct {
	repo   RepositoryAPI
	authz  Authorizer
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, authz Authorizer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		authz:  authz,
		logger: logger,
	}
}

func (s *Service) ListHome(ctx context.Context) ([]*Product, error) {
	models, err := s.repo.ListHome(ctx, HomeLimit)
	if err != nil {
		s.logger.Error("failed to get home products", "error", err)
		return nil, err
	}
	return FromDataModelSlice(models), nil
}

func (s *Service) ListAll(ctx context.Context) ([]*Product, error) {
	models, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to get products", "error", err)
		return nil, err
	}
	return FromDataModelSlice(models), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	if err := validation.ValidateID("id", id); err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(m), nil
}

// Create adds a catalog entry. Suspended managers are refused.
func (s *Service) Create(ctx context.Context, actor internal.Identity, dto ProductDTO) (*Product, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpProductCreate); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Product{ID: uuid.NewString(), CreatedBy: actor.UserID, CreatedAt: now, UpdatedAt: now}
	p.Apply(dto)

	if err := s.repo.Create(ctx, ToDataModel(p)); err != nil {
		return nil, err
	}

	s.logger.Info("product created", "product_id", p.ID, "manager_id", actor.UserID)
	return p, nil
}

func (s *Service) Update(ctx context.Context, actor internal.Identity, id string, dto ProductDTO) (*Product, error) {
	if err := s.authz.Authorize(ctx, actor, access.OpProductUpdate); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(dto)
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, ToDataModel(p)); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", "product_id", p.ID, "manager_id", actor.UserID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actor internal.Identity, id string) error {
	if err := s.authz.Authorize(ctx, actor, access.OpProductDelete); err != nil {
		return err
	}
	if err := validation.ValidateID("id", id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", "product_id", id, "manager_id", actor.UserID)
	return nil
}
