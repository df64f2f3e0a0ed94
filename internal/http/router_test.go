package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentacloud-backend/internal/handlers"
	"rentacloud-backend/internal/middleware"
	"rentacloud-backend/internal/monitoring"
)

// Handlers are only registered, never invoked, so zero-value dependencies
// are enough to walk the route table.
func newBareRouter() *mux.Router {
	return NewRouter(
		handlers.NewAuthHandler(nil, nil),
		handlers.NewProductHandler(nil),
		handlers.NewCustomerHandler(nil),
		handlers.NewRentalHandler(nil),
		handlers.NewReportHandler(nil),
		handlers.NewBackupHandler(nil),
		handlers.NewPaymentHandler(nil),
		handlers.NewHealthHandler(nil),
		monitoring.NewMonitor(nil),
		middleware.NewAuthMiddleware(nil, nil),
	)
}

func TestRouteTable(t *testing.T) {
	router := newBareRouter()

	routes := make(map[string]bool)
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tmpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			// Prefix routes and method-less routes (websocket, metrics)
			routes["ANY "+tmpl] = true
			return nil
		}
		for _, m := range methods {
			routes[m+" "+tmpl] = true
		}
		return nil
	})
	require.NoError(t, err)

	for _, want := range []string{
		"POST /auth/signup",
		"POST /auth/login",
		"POST /auth/2fa",
		"POST /api/2fa/setup",
		"POST /api/2fa/verify",
		"GET /api/me",
		"GET /api/rentals",
		"POST /api/rentals",
		"GET /api/rentals/{id}",
		"PUT /api/rentals/{id}",
		"DELETE /api/rentals/{id}",
		"PATCH /api/rentals/{id}/return",
		"GET /api/rentals/{id}/receipt",
		"GET /api/rentals/{id}/payments",
		"GET /api/rentals/stats/overview",
		"GET /api/products",
		"GET /api/customers",
		"GET /api/reports/daily",
		"GET /api/reports/monthly",
		"GET /api/backup/export",
		"POST /api/backup/import",
		"POST /api/backup/upload",
		"GET /api/backup/list",
		"POST /api/payments/order",
		"POST /api/payments/webhook",
		"GET /health",
		"GET /health/ready",
		"GET /health/detailed",
		"ANY /metrics",
		"ANY /ws/monitoring",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	// Retired paths must stay gone.
	for registered := range routes {
		assert.False(t, strings.Contains(registered, "/webhooks/razorpay"), "stale path %s", registered)
		assert.False(t, strings.Contains(registered, "/api/backup/remote"), "stale path %s", registered)
		assert.False(t, strings.Contains(registered, "/api/me/2fa"), "stale path %s", registered)
		assert.False(t, strings.Contains(registered, "/api/payments/orders"), "stale path %s", registered)
	}
}

// The webhook is signature-authenticated and must match before the
// JWT-guarded payments subrouter.
func TestWebhookRouteIsPublic(t *testing.T) {
	router := newBareRouter()

	var match mux.RouteMatch
	req := httptest.NewRequest("POST", "/api/payments/webhook", nil)
	require.True(t, router.Match(req, &match))
	require.NotNil(t, match.Route)

	tmpl, err := match.Route.GetPathTemplate()
	require.NoError(t, err)
	assert.Equal(t, "/api/payments/webhook", tmpl)
}
