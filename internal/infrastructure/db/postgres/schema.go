package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is the relational layout of the directory: a role table with a
// unique name, a user table with a unique email, and a many-to-many join
// table. Deleting a user cascades into the join table only; role rows are
// shared and never cascaded into.
const schema = `
CREATE TABLE IF NOT EXISTS roles (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	first_name VARCHAR(255) NOT NULL DEFAULT '',
	last_name VARCHAR(255) NOT NULL DEFAULT '',
	display_name VARCHAR(511) NOT NULL DEFAULT '',
	age INTEGER NOT NULL DEFAULT 0,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users_roles (
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role_id BIGINT NOT NULL REFERENCES roles(id),
	PRIMARY KEY (user_id, role_id)
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_roles_role_id ON users_roles(role_id);
`

// EnsureSchema applies the directory schema. Safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply directory schema: %w", err)
	}
	return nil
}
