package user

import (
	"context"

	"github.com/frahmantamala/garments-tracker/internal/core/common/validation"
)

// Accounts reads account records without authorization. The guard and login use it
// to see the live role and status of a caller.
type Accounts struct {
	repo RepositoryAPI
}

func NewAccounts(repo RepositoryAPI) *Accounts {
	return &Accounts{repo: repo}
}

func (a *Accounts) FindByEmail(ctx context.Context, email string) (*User, error) {
	m, err := a.repo.FindByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return FromDataModel(m), nil
}
