// Package access holds the declarative URL-to-role policy and the
// post-login routing decision. It has no persistence dependency: the rule
// table is fixed at build time and evaluated top-down, first match wins.
package access

import "strings"

// Outcome classifies an authorization decision. The two deny kinds are
// distinct so the caller can choose "prompt login" vs "forbidden".
type Outcome int

const (
	Allow Outcome = iota
	DenyUnauthorized
	DenyForbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case DenyUnauthorized:
		return "deny_unauthorized"
	case DenyForbidden:
		return "deny_forbidden"
	}
	return "unknown"
}

// Decision is the result of evaluating a request path against the table.
type Decision struct {
	Outcome Outcome
	// Rule is the pattern that matched; useful for logging and metrics.
	Rule string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// rule binds a set of path prefixes to a requirement.
type rule struct {
	prefixes []string
	// public rules admit everyone, authenticated or not.
	public bool
	// roles lists the roles that satisfy the rule; empty with public=false
	// means any authenticated role.
	roles []string
}

// table is evaluated in order, most specific first. The trailing
// catch-all requires any authenticated role.
var table = []rule{
	{
		// Static assets and public pages: home, login, registration, errors.
		prefixes: []string{
			"/css/", "/js/", "/img/", "/static/", "/favicon.ico",
			"/index.html", "/login", "/register", "/error", "/404.html",
		},
		public: true,
	},
	{
		// Authentication API surface.
		prefixes: []string{"/api/auth/"},
		public:   true,
	},
	{
		// Operational probes and metrics scrape.
		prefixes: []string{"/health", "/metrics"},
		public:   true,
	},
	{
		prefixes: []string{"/api/admin", "/admin"},
		roles:    []string{"ROLE_ADMIN"},
	},
	{
		prefixes: []string{"/api/user", "/user"},
		roles:    []string{"ROLE_USER", "ROLE_ADMIN"},
	},
}

// Authorize decides whether the given role set may reach path. An
// unauthenticated caller passes an empty role set. The decision is made
// before any directory or codec work runs: a denied request must not
// trigger further lookups.
func Authorize(path string, roles []string) Decision {
	if path == "/" {
		return Decision{Outcome: Allow, Rule: "/"}
	}
	for _, r := range table {
		pattern, ok := r.match(path)
		if !ok {
			continue
		}
		if r.public {
			return Decision{Outcome: Allow, Rule: pattern}
		}
		if len(roles) == 0 {
			return Decision{Outcome: DenyUnauthorized, Rule: pattern}
		}
		if r.satisfied(roles) {
			return Decision{Outcome: Allow, Rule: pattern}
		}
		return Decision{Outcome: DenyForbidden, Rule: pattern}
	}

	// Anything else requires any authenticated role.
	if len(roles) == 0 {
		return Decision{Outcome: DenyUnauthorized, Rule: "*"}
	}
	return Decision{Outcome: Allow, Rule: "*"}
}

func (r rule) match(path string) (string, bool) {
	for _, p := range r.prefixes {
		if strings.HasPrefix(path, p) {
			return p, true
		}
	}
	return "", false
}

func (r rule) satisfied(roles []string) bool {
	if len(r.roles) == 0 {
		return true
	}
	for _, have := range roles {
		for _, want := range r.roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
