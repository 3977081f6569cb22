package api

import (
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/api/recipes", 10, 0},
		{"explicit limit", "/api/recipes?limit=25", 25, 0},
		{"limit capped", "/api/recipes?limit=5000", 100, 0},
		{"second page", "/api/recipes?limit=20&page=2", 20, 20},
		{"first page is offset zero", "/api/recipes?page=1", 10, 0},
		{"garbage ignored", "/api/recipes?limit=abc&page=-3", 10, 0},
		{"zero limit falls back", "/api/recipes?limit=0", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			limit, offset := parsePagination(r)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestBoolParam(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"/api/recipes?is_favorited=1", true},
		{"/api/recipes?is_favorited=true", true},
		{"/api/recipes?is_favorited=0", false},
		{"/api/recipes?is_favorited=yes", false},
		{"/api/recipes", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		assert.Equal(t, tt.want, boolParam(r, "is_favorited"), tt.url)
	}
}

func TestSetupRoutesRegistersEveryEndpoint(t *testing.T) {
	router := chi.NewRouter()
	setupRoutes(router, &routeHandlers{}, authMiddleware{})

	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/users"},
		{"GET", "/api/users"},
		{"GET", "/api/users/0b9c1a2d-0000-0000-0000-000000000000"},
		{"GET", "/api/users/me"},
		{"GET", "/api/users/subscriptions"},
		{"POST", "/api/users/0b9c1a2d-0000-0000-0000-000000000000/subscribe"},
		{"DELETE", "/api/users/0b9c1a2d-0000-0000-0000-000000000000/subscribe"},
		{"POST", "/api/auth/token/login"},
		{"GET", "/api/tags"},
		{"GET", "/api/tags/0b9c1a2d-0000-0000-0000-000000000000"},
		{"GET", "/api/ingredients"},
		{"GET", "/api/ingredients/0b9c1a2d-0000-0000-0000-000000000000"},
		{"GET", "/api/recipes"},
		{"POST", "/api/recipes"},
		{"GET", "/api/recipes/download_shopping_cart"},
		{"GET", "/api/recipes/0b9c1a2d-0000-0000-0000-000000000000"},
		{"PATCH", "/api/recipes/0b9c1a2d-0000-0000-0000-000000000000"},
		{"DELETE", "/api/recipes/0b9c1a2d-0000-0000-0000-000000000000"},
		{"POST", "/api/recipes/0b9c1a2d-0000-0000-0000-000000000000/favorite"},
		{"DELETE", "/api/recipes/0b9c1a2d-0000-0000-0000-000000000000/favorite"},
		{"POST", "/api/recipes/0b9c1a2d-0000-0000-0000-000000000000/shopping_cart"},
		{"DELETE", "/api/recipes/0b9c1a2d-0000-0000-0000-000000000000/shopping_cart"},
	}

	for _, tt := range tests {
		rctx := chi.NewRouteContext()
		assert.True(t, router.Match(rctx, tt.method, tt.path), "%s %s not routed", tt.method, tt.path)
	}
}
