package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Booking   *BookingHandler
	Admin     *AdminHandler
	AdminAuth *AdminAuthHandler
	Health    *HealthHandler
}

// NewRouter registers the public booking endpoint, the health check and
// the JWT-protected admin routes.
func NewRouter(h Handlers, limiter *RateLimiter, adminAuth mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	// Public endpoints
	r.Handle("/api/book-demo", limiter.Limit(http.HandlerFunc(h.Booking.BookDemo))).Methods(http.MethodPost)
	r.Handle("/admin/login", limiter.Limit(http.HandlerFunc(h.AdminAuth.Login))).Methods(http.MethodPost)

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin/events").Subrouter()
	admin.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	admin.Use(adminAuth)
	admin.HandleFunc("/{id}", h.Admin.UpdateEvent).Methods(http.MethodPatch)
	admin.HandleFunc("/{id}", h.Admin.DeleteEvent).Methods(http.MethodDelete)

	return r
}
