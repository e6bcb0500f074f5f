package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio/chatbot"
	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/database"
	"github.com/rpupo63/portfolio/services"
	"github.com/rpupo63/portfolio/storage"
)

// Dependencies are the collaborators the HTTP handlers need. Contact and
// Chatbot are optional.
type Dependencies struct {
	Database database.Database
	Images   storage.ImageStore
	Contact  *services.ContactService
	Chatbot  *chatbot.Bot
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	if deps.Images == nil {
		return Server{}, errors.New("an image store is required")
	}

	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
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

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{config: map[string]string{}}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(metricsMiddleware)

	// Apply CORS middleware
	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	tokens := newTokenManager(router.config)
	hasher := passwordHasher{cost: config.GetInt(router.config, "BCRYPT_COST", bcrypt.DefaultCost)}
	allowSignup := config.GetBool(router.config, "ALLOW_SIGNUP", false)

	// Initialize all handlers
	handlers := initializeHandlers(deps, tokens, hasher, allowSignup, router.startupTime)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(tokens, deps.Database.AdminRepo())

	chiRouter.Route("/api", func(r chi.Router) {
		setupPublicRoutes(r, handlers)
		setupAdminRoutes(r, handlers, authMiddleware)
	})

	chiRouter.Handle("/metrics", promhttp.Handler())

	if disk, ok := deps.Images.(*storage.DiskStore); ok {
		fileServer := http.StripPrefix(storage.URLPrefix, http.FileServer(http.Dir(disk.Dir())))
		chiRouter.Handle(storage.URLPrefix+"*", fileServer)
	}

	return chiRouter
}

// Start serves until the server is shut down. A graceful shutdown is not
// reported as an error.
func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
