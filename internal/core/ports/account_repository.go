package ports

import (
	"context"

	"github.com/saam/backend/internal/core/domain"
)

// AccountRepository is the credential store. Implementations must enforce
// email uniqueness and report a violation as domain.ErrAccountAlreadyExists.
// Lookups that miss return domain.ErrAccountNotFound.
type AccountRepository interface {
	// Save persists the account, assigning an ID when it has none.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
}
