package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mosaic-folio/backend/config"
	"github.com/mosaic-folio/backend/database"
	"github.com/mosaic-folio/backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
	submissions *services.SubmissionService
}

func NewServer(database database.Database, c map[string]string, notifier services.Notifier) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router, handlers := buildRouter(database, withConfig(c), withStartupTime(startupTime), withNotifier(notifier))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 30)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime, handlers.projectHandler.submissions}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	notifier    services.Notifier
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withNotifier(notifier services.Notifier) func(*router) {
	return func(r *router) {
		r.notifier = notifier
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	chiRouter, _ := buildRouter(database, opts...)
	return chiRouter
}

// buildRouter also returns the handlers so the server can drain their background work.
func buildRouter(database database.Database, opts ...func(*router)) (*chi.Mux, *routeHandlers) {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	acceptedOrigins := config.GetStringSlice(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers := initializeHandlers(database, router)

	authMiddleware := newAuthMiddleware(
		config.GetString(router.config, "MODERATION_TOKEN", ""),
		config.GetString(router.config, "MODERATION_JWT_SECRET", ""),
	)
	if !authMiddleware.enabled() {
		log.Warn().Msg("MODERATION_TOKEN and MODERATION_JWT_SECRET are not set, project validation is open to anyone")
	}

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter, handlers
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}

	if s.submissions != nil {
		s.submissions.Wait()
		log.Info().Msg("Pending moderator notifications sent")
	}
}
