package routes

import (
	"net/http"

	"github.com/ototamirci/backend/internal/api/handlers"
	"github.com/ototamirci/backend/internal/api/middleware"
	"github.com/ototamirci/backend/internal/api/response"
	"github.com/ototamirci/backend/internal/domain/providers"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	"github.com/ototamirci/backend/pkg/config"
)

// Rejection messages for each quota
const (
	registerLimitMessage = "Too many registration attempts. Please try again in 15 minutes."
	loginLimitMessage    = "Too many login attempts. Please try again in 15 minutes."
	apiLimitMessage      = "Too many requests. Please slow down."
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler        *handlers.AuthHandler
	shopHandler        *handlers.ShopHandler
	reviewHandler      *handlers.ReviewHandler
	appointmentHandler *handlers.AppointmentHandler
	healthHandler      *handlers.HealthHandler

	tokens         providers.TokenProvider
	limiter        *middleware.RateLimiter
	limits         config.RateLimitConfig
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	shopHandler *handlers.ShopHandler,
	reviewHandler *handlers.ReviewHandler,
	appointmentHandler *handlers.AppointmentHandler,
	healthHandler *handlers.HealthHandler,
	tokens providers.TokenProvider,
	limiter *middleware.RateLimiter,
	limits config.RateLimitConfig,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		authHandler:        authHandler,
		shopHandler:        shopHandler,
		reviewHandler:      reviewHandler,
		appointmentHandler: appointmentHandler,
		healthHandler:      healthHandler,
		tokens:             tokens,
		limiter:            limiter,
		limits:             limits,
		allowedOrigins:     allowedOrigins,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	auth := middleware.Authenticate(r.tokens)
	api := r.limiter.Limit("api", r.limits.API, apiLimitMessage)
	register := r.limiter.Limit("register", r.limits.Register, registerLimitMessage)
	login := r.limiter.Limit("login", r.limits.Login, loginLimitMessage)

	r.handle("GET /health", http.HandlerFunc(r.healthHandler.Health))

	// Auth endpoints
	r.handle("POST /api/auth/register", http.HandlerFunc(r.authHandler.Register), api, register)
	r.handle("POST /api/auth/login", http.HandlerFunc(r.authHandler.Login), api, login)
	r.handle("GET /api/auth/me", http.HandlerFunc(r.authHandler.Me), api, auth)
	r.handle("PUT /api/auth/profile", http.HandlerFunc(r.authHandler.UpdateProfile), api, auth)

	// Shop endpoints
	r.handle("GET /api/shops", http.HandlerFunc(r.shopHandler.SearchNearby), api)
	r.handle("GET /api/shops/{id}", http.HandlerFunc(r.shopHandler.GetShop), api)
	r.handle("POST /api/shops", http.HandlerFunc(r.shopHandler.CreateShop), api, auth)
	r.handle("PUT /api/shops/{id}", http.HandlerFunc(r.shopHandler.UpdateShop), api, auth)
	r.handle("PATCH /api/shops/{id}/availability", http.HandlerFunc(r.shopHandler.SetAvailability), api, auth)
	r.handle("DELETE /api/shops/{id}", http.HandlerFunc(r.shopHandler.DeleteShop), api, auth)

	// Review endpoints
	r.handle("GET /api/reviews/{shopId}", http.HandlerFunc(r.reviewHandler.ListReviews), api)
	r.handle("POST /api/reviews/{shopId}", http.HandlerFunc(r.reviewHandler.SubmitReview), api, auth)

	// Appointment endpoints
	r.handle("GET /api/appointments", http.HandlerFunc(r.appointmentHandler.ListAppointments), api, auth)
	r.handle("GET /api/appointments/{id}", http.HandlerFunc(r.appointmentHandler.GetAppointment), api, auth)
	r.handle("POST /api/appointments", http.HandlerFunc(r.appointmentHandler.BookAppointment), api, auth)
	r.handle("PATCH /api/appointments/{id}", http.HandlerFunc(r.appointmentHandler.UpdateStatus), api, auth)
	r.handle("DELETE /api/appointments/{id}", http.HandlerFunc(r.appointmentHandler.DeleteAppointment), api, auth)

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflight and rejections carry headers
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

// handle registers h behind the given middleware, outermost first
func (r *Router) handle(pattern string, h http.Handler, chain ...func(http.Handler) http.Handler) {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	r.mux.Handle(pattern, middleware.TagRoute(h))
}
