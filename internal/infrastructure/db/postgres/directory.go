package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/accessdesk/user-portal/internal/core/domain"
)

// Directory is the SQL implementation of ports.Directory. Every write runs
// in a single transaction; unique-constraint violations are translated to
// domain.ErrDuplicateKey and sql.ErrNoRows to the appropriate not-found
// form at this boundary, so callers never see driver errors.
type Directory struct {
	db *sql.DB
}

func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	const q = `SELECT id, name FROM roles WHERE name = $1`
	var role domain.Role
	if err := d.db.QueryRowContext(ctx, q, name).Scan(&role.ID, &role.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find role by name: %w", err)
	}
	return &role, nil
}

// SaveRole inserts a new role or returns the stored row when the name
// already exists: role labels are immutable.
func (d *Directory) SaveRole(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	existing, err := d.FindRoleByName(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	const q = `INSERT INTO roles (name) VALUES ($1) RETURNING id`
	created := domain.Role{Name: role.Name}
	if err := d.db.QueryRowContext(ctx, q, role.Name).Scan(&created.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("save role %s: %w", role.Name, domain.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("save role: %w", err)
	}
	return &created, nil
}

func (d *Directory) ListRoles(ctx context.Context) ([]domain.Role, error) {
	const q = `SELECT id, name FROM roles ORDER BY id`
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var r domain.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (d *Directory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := d.db.QueryRowContext(ctx, q, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `SELECT id, first_name, last_name, age, email, password_hash FROM users WHERE email = $1`
	return d.findOne(ctx, q, email)
}

func (d *Directory) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	const q = `SELECT id, first_name, last_name, age, email, password_hash FROM users WHERE id = $1`
	return d.findOne(ctx, q, id)
}

func (d *Directory) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var a domain.Account
	err := d.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Age, &a.Email, &a.PasswordHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}

	roles, err := d.rolesOf(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Roles = roles
	return &a, nil
}

func (d *Directory) rolesOf(ctx context.Context, userID int64) ([]domain.Role, error) {
	const q = `
		SELECT r.id, r.name FROM roles r
		JOIN users_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id`
	rows, err := d.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("load roles of user %d: %w", userID, err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var r domain.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (d *Directory) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		INSERT INTO users (first_name, last_name, display_name, age, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	stored := *account
	err = tx.QueryRowContext(ctx, q,
		account.FirstName, account.LastName, account.DisplayName(),
		account.Age, account.Email, account.PasswordHash,
	).Scan(&stored.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("save account %s: %w", account.Email, domain.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("save account: %w", err)
	}

	if err := insertRoleLinks(ctx, tx, stored.ID, account.Roles); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return &stored, nil
}

func (d *Directory) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		UPDATE users
		SET first_name = $1, last_name = $2, display_name = $3, age = $4, email = $5, password_hash = $6
		WHERE id = $7`
	res, err := tx.ExecContext(ctx, q,
		account.FirstName, account.LastName, account.DisplayName(),
		account.Age, account.Email, account.PasswordHash, account.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update account %d: %w", account.ID, domain.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("update account %d: %w", account.ID, domain.ErrAccountNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users_roles WHERE user_id = $1`, account.ID); err != nil {
		return nil, fmt.Errorf("clear role links: %w", err)
	}
	if err := insertRoleLinks(ctx, tx, account.ID, account.Roles); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	stored := *account
	return &stored, nil
}

// DeleteByID removes the account and its role associations. Role rows are
// shared between accounts and are never deleted here.
func (d *Directory) DeleteByID(ctx context.Context, id int64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM users_roles WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete role links: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete account %d: %w", id, domain.ErrAccountNotFound)
	}
	return tx.Commit()
}

func (d *Directory) ListAll(ctx context.Context) ([]domain.Account, error) {
	const q = `SELECT id, first_name, last_name, age, email, password_hash FROM users ORDER BY id`
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Age, &a.Email, &a.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	for i := range accounts {
		roles, err := d.rolesOf(ctx, accounts[i].ID)
		if err != nil {
			return nil, err
		}
		accounts[i].Roles = roles
	}
	return accounts, nil
}

func insertRoleLinks(ctx context.Context, tx *sql.Tx, userID int64, roles []domain.Role) error {
	const q = `INSERT INTO users_roles (user_id, role_id) VALUES ($1, $2)`
	for _, role := range roles {
		if _, err := tx.ExecContext(ctx, q, userID, role.ID); err != nil {
			return fmt.Errorf("link role %s: %w", role.Name, err)
		}
	}
	return nil
}

// isUniqueViolation recognizes unique-constraint errors from both drivers
// this store runs on: lib/pq in production and go-sqlite3 in tests.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
