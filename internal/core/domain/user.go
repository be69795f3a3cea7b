package domain

import "strings"

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Role is an immutable authorization label. Names are unique across the
// role set and never change after creation.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Account models a persisted user. The email is the login principal and is
// unique across the account set. PasswordHash always holds encoded material,
// never the raw input.
type Account struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Age          int    `json:"age"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Roles        []Role `json:"roles"`
}

// DisplayName derives the human-readable name from first/last name.
// Falls back to a placeholder when both are absent.
func (a *Account) DisplayName() string {
	first := strings.TrimSpace(a.FirstName)
	last := strings.TrimSpace(a.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	return "Unnamed User"
}

// HasRole reports whether the account carries the named role.
func (a *Account) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the account's role set as plain names.
func (a *Account) RoleNames() []string {
	names := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		names = append(names, r.Name)
	}
	return names
}

// AccountView is the transient, read-only projection handed to the
// authentication pipeline. It decouples the storage shape of an Account
// from the authentication contract: credentials and roles, nothing else.
type AccountView struct {
	Email        string
	PasswordHash string
	Roles        []string
	// Enabled is always true: no lockout or expiry state is modeled.
	Enabled bool
}

// HasRole reports whether the view's role set contains the named role.
func (v AccountView) HasRole(name string) bool {
	for _, r := range v.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// ValidEmail reports whether email is non-empty and carries a domain
// separator. Full RFC validation is left to the request validator.
func ValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
