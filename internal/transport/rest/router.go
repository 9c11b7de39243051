package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"anamnesis/internal/service"
	"anamnesis/internal/transport/rest/handler"
	"anamnesis/internal/transport/rest/middleware"
	"anamnesis/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	FormService    *service.FormService
	SessionService *service.SessionService
	ReviewService  *service.ReviewService
	WSHub          *ws.Hub

	CORSAllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	reviewHandler := handler.NewReviewHandler(c.ReviewService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSAllowedOrigins))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/review", wsHandler.ReviewWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Patient session routes (require session auth)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/sessions/{sessionId}/question/current", sessionHandler.Current).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/answers/{questionId}", sessionHandler.SaveAnswer).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/next", sessionHandler.Next).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/previous", sessionHandler.Previous).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")

	// Staff routes (require staff auth)
	staffRoutes := v1.NewRoute().Subrouter()
	staffRoutes.Use(authMW.RequireStaff)

	staffRoutes.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/forms/validate", formHandler.Validate).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	staffRoutes.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")

	staffRoutes.HandleFunc("/intakes", reviewHandler.List).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/intakes/{intakeId}", reviewHandler.Get).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/intakes/{intakeId}/status", reviewHandler.UpdateStatus).Methods("PUT", "OPTIONS")
	staffRoutes.HandleFunc("/intakes/{intakeId}/notes", reviewHandler.AddNote).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/review/stats", reviewHandler.Stats).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
