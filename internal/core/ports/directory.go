package ports

import (
	"context"

	"github.com/accessdesk/user-portal/internal/core/domain"
)

// Directory defines persistence operations for roles and accounts. It is
// the only component allowed to mutate the backing store; every write is
// durable before the call returns.
type Directory interface {
	// FindRoleByName returns the role with the given name, or nil when no
	// such role exists. A backing-store failure is returned as an error,
	// never folded into a nil result.
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
	// SaveRole persists a role, assigning its ID when new. Saving an
	// existing name returns the stored row unchanged: role labels are
	// immutable.
	SaveRole(ctx context.Context, role *domain.Role) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)

	// ExistsByEmail reports whether an account with the email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByEmail returns the account with its role set, or nil when the
	// email is unknown.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	// Save creates an account with its role associations; returns
	// domain.ErrDuplicateKey when the email is already taken.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// Update rewrites an existing account; returns domain.ErrAccountNotFound
	// when the id does not exist.
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// DeleteByID removes the account and its role associations. Shared
	// role rows are never cascaded into. Returns domain.ErrAccountNotFound
	// when the id does not exist.
	DeleteByID(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]domain.Account, error)
}
