package access

import "github.com/rs/zerolog"

// Landing destinations returned after a successful login.
const (
	AdminDestination  = "/admin"
	UserDestination   = "/user"
	PublicDestination = "/"
)

// PostAuthRouter decides where a freshly authenticated caller lands based
// on its role set. Admin takes precedence over user.
type PostAuthRouter struct {
	log zerolog.Logger
}

func NewPostAuthRouter(log zerolog.Logger) *PostAuthRouter {
	return &PostAuthRouter{log: log}
}

// RouteAfterLogin picks the landing destination. An empty or unrecognized
// role set falls back to the public destination; every account is required
// to carry at least one role, so this path is logged as a warning.
func (r *PostAuthRouter) RouteAfterLogin(roles []string) string {
	var hasUser bool
	for _, role := range roles {
		switch role {
		case "ROLE_ADMIN":
			return AdminDestination
		case "ROLE_USER":
			hasUser = true
		}
	}
	if hasUser {
		return UserDestination
	}

	r.log.Warn().
		Strs("roles", roles).
		Msg("authenticated principal has no recognized role, routing to public landing")
	return PublicDestination
}
