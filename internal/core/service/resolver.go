package service

import (
	"context"
	"fmt"

	"github.com/accessdesk/user-portal/internal/core/domain"
	"github.com/accessdesk/user-portal/internal/core/ports"
)

// Resolver is the seam the authentication pipeline calls on every login
// attempt: it loads an account's credential/role projection by principal
// email.
type Resolver struct {
	directory ports.Directory
}

func NewResolver(directory ports.Directory) *Resolver {
	return &Resolver{directory: directory}
}

// LoadPrincipal returns the read-only view used for credential
// verification. It fails with domain.ErrPrincipalNotFound when the email
// matches no account; a backing-store failure is surfaced as-is, never as
// a false "not found".
func (r *Resolver) LoadPrincipal(ctx context.Context, email string) (domain.AccountView, error) {
	account, err := r.directory.FindByEmail(ctx, email)
	if err != nil {
		return domain.AccountView{}, fmt.Errorf("load principal: %w", err)
	}
	if account == nil {
		return domain.AccountView{}, fmt.Errorf("load principal %q: %w", email, domain.ErrPrincipalNotFound)
	}

	return domain.AccountView{
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Roles:        account.RoleNames(),
		Enabled:      true,
	}, nil
}
