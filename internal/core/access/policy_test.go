package access

import "testing"

func TestAuthorize_PublicPatterns(t *testing.T) {
	paths := []string{
		"/", "/login", "/login.html", "/register.html", "/404.html",
		"/css/app.css", "/js/app.js", "/img/logo.png", "/static/site.css",
		"/api/auth/login", "/api/auth/register", "/health", "/health/ready", "/metrics",
	}
	for _, p := range paths {
		if d := Authorize(p, nil); !d.Allowed() {
			t.Errorf("Authorize(%q, nil) = %v, want allow", p, d.Outcome)
		}
	}
}

func TestAuthorize_AdminPaths(t *testing.T) {
	cases := []struct {
		name  string
		roles []string
		want  Outcome
	}{
		{"admin role", []string{"ROLE_ADMIN"}, Allow},
		{"user role", []string{"ROLE_USER"}, DenyForbidden},
		{"unauthenticated", nil, DenyUnauthorized},
		{"empty set", []string{}, DenyUnauthorized},
		{"both roles", []string{"ROLE_USER", "ROLE_ADMIN"}, Allow},
	}
	for _, tc := range cases {
		for _, path := range []string{"/admin/users", "/api/admin/users"} {
			if d := Authorize(path, tc.roles); d.Outcome != tc.want {
				t.Errorf("%s: Authorize(%q) = %v, want %v", tc.name, path, d.Outcome, tc.want)
			}
		}
	}
}

func TestAuthorize_UserPaths(t *testing.T) {
	cases := []struct {
		roles []string
		want  Outcome
	}{
		{[]string{"ROLE_USER"}, Allow},
		{[]string{"ROLE_ADMIN"}, Allow},
		{nil, DenyUnauthorized},
		{[]string{"ROLE_GUEST"}, DenyForbidden},
	}
	for _, tc := range cases {
		for _, path := range []string{"/user", "/api/user/me"} {
			if d := Authorize(path, tc.roles); d.Outcome != tc.want {
				t.Errorf("Authorize(%q, %v) = %v, want %v", path, tc.roles, d.Outcome, tc.want)
			}
		}
	}
}

func TestAuthorize_FallbackRequiresAuthentication(t *testing.T) {
	if d := Authorize("/reports/weekly", nil); d.Outcome != DenyUnauthorized {
		t.Fatalf("unauthenticated fallback = %v, want DenyUnauthorized", d.Outcome)
	}
	if d := Authorize("/reports/weekly", []string{"ROLE_USER"}); d.Outcome != Allow {
		t.Fatalf("authenticated fallback = %v, want Allow", d.Outcome)
	}
}

func TestAuthorize_FirstMatchWins(t *testing.T) {
	// The auth API is public even though it sits under /api.
	if d := Authorize("/api/auth/login", nil); !d.Allowed() {
		t.Fatalf("auth API should match the public rule first, got %v", d.Outcome)
	}
	if d := Authorize("/api/admin/users", []string{"ROLE_USER"}); d.Outcome != DenyForbidden {
		t.Fatalf("admin API should match the admin rule, got %v", d.Outcome)
	}
}
