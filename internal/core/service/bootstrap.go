package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/accessdesk/user-portal/internal/api/metrics"
	"github.com/accessdesk/user-portal/internal/core/domain"
	"github.com/accessdesk/user-portal/internal/core/ports"
)

// seedAccount describes one of the fixed accounts created at startup.
type seedAccount struct {
	firstName string
	lastName  string
	age       int
	email     string
	cacheKey  string
	roleName  string
}

var seedAccounts = []seedAccount{
	{"Admin", "Administrator", 30, "admin@admin.com", CacheKeyAdmin, domain.RoleAdmin},
	{"Regular", "User", 25, "user@user.com", CacheKeyUser, domain.RoleUser},
	{"Test", "User", 28, "test@test.com", CacheKeyTest, domain.RoleUser},
}

var seedRoles = []string{domain.RoleAdmin, domain.RoleUser}

// Bootstrapper ensures the fixed role set and seed accounts exist. Run is
// idempotent: any number of invocations, sequential or from concurrently
// starting replicas, converge on the same end state.
type Bootstrapper struct {
	directory ports.Directory
	cache     *CredentialCache
	log       zerolog.Logger
}

func NewBootstrapper(directory ports.Directory, cache *CredentialCache, log zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{directory: directory, cache: cache, log: log}
}

// Run seeds roles then accounts. The credential cache must be warmed
// first; anything else is a startup-ordering bug and aborts. A duplicate
// key raced in by another replica is treated as already-exists; every
// other persistence failure is fatal, and retry is achieved by re-invoking
// Run after the store recovers.
func (b *Bootstrapper) Run(ctx context.Context) error {
	if !b.cache.IsInitialized() {
		return fmt.Errorf("bootstrap: %w", domain.ErrCacheNotInitialized)
	}

	roles := make(map[string]*domain.Role, len(seedRoles))
	for _, name := range seedRoles {
		role, err := b.ensureRole(ctx, name)
		if err != nil {
			return fmt.Errorf("bootstrap role %s: %w", name, err)
		}
		roles[name] = role
	}

	for _, seed := range seedAccounts {
		if err := b.ensureAccount(ctx, seed, roles[seed.roleName]); err != nil {
			return fmt.Errorf("bootstrap account %s: %w", seed.email, err)
		}
	}

	b.log.Info().Msg("bootstrap completed")
	return nil
}

func (b *Bootstrapper) ensureRole(ctx context.Context, name string) (*domain.Role, error) {
	existing, err := b.directory.FindRoleByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		b.log.Debug().Str("role", name).Msg("role already exists")
		return existing, nil
	}

	created, err := b.directory.SaveRole(ctx, &domain.Role{Name: name})
	if errors.Is(err, domain.ErrDuplicateKey) {
		// Another replica created it between lookup and save.
		b.log.Debug().Str("role", name).Msg("role created concurrently, re-reading")
		reread, err := b.directory.FindRoleByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if reread == nil {
			return nil, fmt.Errorf("role %s missing after duplicate-key save", name)
		}
		return reread, nil
	}
	if err != nil {
		return nil, err
	}
	metrics.BootstrapCreationsTotal.WithLabelValues("role").Inc()
	b.log.Info().Str("role", name).Msg("created role")
	return created, nil
}

func (b *Bootstrapper) ensureAccount(ctx context.Context, seed seedAccount, role *domain.Role) error {
	exists, err := b.directory.ExistsByEmail(ctx, seed.email)
	if err != nil {
		return err
	}
	if exists {
		b.log.Debug().Str("email", seed.email).Msg("seed account already exists")
		return nil
	}

	hashed, err := b.cache.Get(seed.cacheKey)
	if err != nil {
		return err
	}

	account := &domain.Account{
		FirstName:    seed.firstName,
		LastName:     seed.lastName,
		Age:          seed.age,
		Email:        seed.email,
		PasswordHash: hashed,
		Roles:        []domain.Role{*role},
	}

	if _, err := b.directory.Save(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			b.log.Debug().Str("email", seed.email).Msg("seed account created concurrently")
			return nil
		}
		return err
	}

	metrics.BootstrapCreationsTotal.WithLabelValues("account").Inc()
	b.log.Info().Str("email", seed.email).Str("role", role.Name).Msg("created seed account")
	return nil
}
