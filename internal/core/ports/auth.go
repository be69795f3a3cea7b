package ports

import (
	"context"

	"github.com/accessdesk/user-portal/internal/core/domain"
)

// Codec performs one-way password hashing and verification.
type Codec interface {
	// Hash encodes a raw password with a fresh salt. Two calls on the same
	// input produce different outputs; both verify.
	Hash(raw string) (string, error)
	// Verify never returns an error: any malformed input is a mismatch.
	Verify(raw, encoded string) bool
}

// PrincipalResolver loads the account projection the authentication
// pipeline verifies credentials against.
type PrincipalResolver interface {
	LoadPrincipal(ctx context.Context, email string) (domain.AccountView, error)
}

// AuthService implements login, registration and session-token issuance.
type AuthService interface {
	// Login verifies credentials and returns a signed session token, the
	// authenticated view and the post-login destination. All failures
	// surface as domain.ErrInvalidCredentials except throttling.
	Login(ctx context.Context, email, password string) (token string, view domain.AccountView, destination string, err error)
	// Register creates a standard-role account from self-service signup.
	Register(ctx context.Context, firstName, lastName string, age int, email, password string) (*domain.Account, error)
}

// AccountService implements the admin and self-service account workflows.
type AccountService interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	CreateAccount(ctx context.Context, input AccountInput) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id int64, input AccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
}

// AccountInput carries the fields of a create/update request. Password is
// raw material: the service always hashes, never stores it as given. An
// empty Password on update keeps the stored hash.
type AccountInput struct {
	FirstName string
	LastName  string
	Age       int
	Email     string
	Password  string
	Roles     []string
}
