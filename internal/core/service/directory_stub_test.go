package service

import (
	"context"
	"sync"

	"github.com/accessdesk/user-portal/internal/core/domain"
)

// stubDirectory is an in-memory Directory used across the service tests.
// It enforces the same uniqueness rules as the real store and is safe for
// concurrent use so bootstrap race behavior can be exercised.
type stubDirectory struct {
	mu       sync.Mutex
	roles    map[string]*domain.Role
	accounts map[string]*domain.Account
	nextRole int64
	nextAcct int64

	// failWith, when set, makes every operation fail. Used to check that
	// store errors surface instead of turning into false negatives.
	failWith error
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		roles:    make(map[string]*domain.Role),
		accounts: make(map[string]*domain.Account),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Roles = append([]domain.Role(nil), a.Roles...)
	return &clone
}

func (d *stubDirectory) FindRoleByName(_ context.Context, name string) (*domain.Role, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return nil, d.failWith
	}
	if r, ok := d.roles[name]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (d *stubDirectory) SaveRole(_ context.Context, role *domain.Role) (*domain.Role, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return nil, d.failWith
	}
	if existing, ok := d.roles[role.Name]; ok {
		clone := *existing
		return &clone, nil
	}
	d.nextRole++
	stored := &domain.Role{ID: d.nextRole, Name: role.Name}
	d.roles[role.Name] = stored
	clone := *stored
	return &clone, nil
}

func (d *stubDirectory) ListRoles(_ context.Context) ([]domain.Role, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return nil, d.failWith
	}
	out := make([]domain.Role, 0, len(d.roles))
	for _, r := range d.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (d *stubDirectory) ExistsByEmail(_ context.Context, email string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return false, d.failWith
	}
	_, ok := d.accounts[email]
	return ok, nil
}

func (d *stubDirectory) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return nil, d.failWith
	}
	return cloneAccount(d.accounts[email]), nil
}

func (d *stubDirectory) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return nil, d.failWith
	}
	for _, a := range d.accounts {
		if a.ID == id {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

func (d *stubDirectory) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return nil, d.failWith
	}
	if _, ok := d.accounts[account.Email]; ok {
		return nil, domain.ErrDuplicateKey
	}
	d.nextAcct++
	stored := cloneAccount(account)
	stored.ID = d.nextAcct
	d.accounts[stored.Email] = stored
	return cloneAccount(stored), nil
}

func (d *stubDirectory) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return nil, d.failWith
	}
	for email, a := range d.accounts {
		if a.ID == account.ID {
			if email != account.Email {
				if _, taken := d.accounts[account.Email]; taken {
					return nil, domain.ErrDuplicateKey
				}
				delete(d.accounts, email)
			}
			stored := cloneAccount(account)
			d.accounts[stored.Email] = stored
			return cloneAccount(stored), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (d *stubDirectory) DeleteByID(_ context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	for email, a := range d.accounts {
		if a.ID == id {
			delete(d.accounts, email)
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

func (d *stubDirectory) ListAll(_ context.Context) ([]domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return nil, d.failWith
	}
	out := make([]domain.Account, 0, len(d.accounts))
	for _, a := range d.accounts {
		out = append(out, *cloneAccount(a))
	}
	return out, nil
}

func (d *stubDirectory) counts() (roles, accounts int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.roles), len(d.accounts)
}
