package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/accessdesk/user-portal/internal/core/service"
)

// The throttle store is optional: the router must come up without a Redis
// client and serve traffic, just with login throttling disabled.
func TestRouterServesWithoutRedis(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	cache := service.NewCredentialCache(service.NewPasswordCodec(),
		"admin", "user", "test", zerolog.Nop())
	if err := cache.Initialize(); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	e := NewRouter(RouterDeps{
		DB:        db,
		Redis:     nil,
		Cache:     cache,
		JWTSecret: "router-test-secret",
		TokenTTL:  time.Hour,
		Log:       zerolog.Nop(),
	})

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/api/admin/users", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}
