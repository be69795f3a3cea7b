package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/accessdesk/user-portal/internal/core/domain"
	"github.com/accessdesk/user-portal/internal/core/ports"
)

// AccountService carries the admin and self-service account workflows. It
// owns two invariants the storage layer cannot enforce alone: the stored
// password is always encoded, and an account never ends up with zero
// roles.
type AccountService struct {
	directory ports.Directory
	codec     ports.Codec
	log       zerolog.Logger
}

func NewAccountService(directory ports.Directory, codec ports.Codec, log zerolog.Logger) *AccountService {
	return &AccountService{directory: directory, codec: codec, log: log}
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.directory.ListAll(ctx)
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.directory.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.directory.ListRoles(ctx)
}

// CreateAccount builds and persists a new account from an admin request.
// The raw password is mandatory and always hashed; the role list must
// resolve to at least one known role.
func (s *AccountService) CreateAccount(ctx context.Context, input ports.AccountInput) (*domain.Account, error) {
	if !domain.ValidEmail(input.Email) || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	roles, err := s.resolveRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("create account: no valid roles: %w", domain.ErrInvalidInput)
	}

	hashed, err := s.codec.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Age:          input.Age,
		Email:        input.Email,
		PasswordHash: hashed,
		Roles:        roles,
	}

	created, err := s.directory.Save(ctx, account)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("email", created.Email).Int64("id", created.ID).Msg("created account")
	return created, nil
}

// UpdateAccount rewrites an existing account. An empty password keeps the
// stored hash; a role list resolving to nothing keeps the previous role
// set, so an update can never strip an account down to zero roles.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, input ports.AccountInput) (*domain.Account, error) {
	existing, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.ValidEmail(input.Email) {
		return nil, domain.ErrInvalidInput
	}

	hash := existing.PasswordHash
	if input.Password != "" {
		hash, err = s.codec.Hash(input.Password)
		if err != nil {
			return nil, err
		}
	}

	roles, err := s.resolveRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = existing.Roles
	}

	account := &domain.Account{
		ID:           id,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Age:          input.Age,
		Email:        input.Email,
		PasswordHash: hash,
		Roles:        roles,
	}

	updated, err := s.directory.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("id", id).Msg("updated account")
	return updated, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.directory.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Msg("deleted account")
	return nil
}

// resolveRoles maps role names to stored roles, skipping unknown names. A
// store failure is surfaced, never treated as "role missing".
func (s *AccountService) resolveRoles(ctx context.Context, names []string) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(names))
	for _, name := range names {
		role, err := s.directory.FindRoleByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve role %s: %w", name, err)
		}
		if role == nil {
			s.log.Warn().Str("role", name).Msg("ignoring unknown role name")
			continue
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
