// Package server owns the HTTP surface: the Chi router, the middleware
// chain, and the listener lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wimf-app/wimf/internal/handler"
	"github.com/wimf-app/wimf/internal/server/middleware"
	"github.com/wimf-app/wimf/internal/service"
	"github.com/wimf-app/wimf/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	CORSMethods     []string
	RateRequests    int
	RateWindow      time.Duration
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		CORSMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		RateRequests:    100,
		RateWindow:      time.Minute,
	}
}

// Server is the top-level HTTP server. It owns the Chi router, the
// persistence store, and the authentication service.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	authSvc    *service.AuthService
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and
// returns it ready to listen. Call ListenAndServe to start accepting
// connections.
func New(cfg Config, h *handler.Handler, st *store.Store, authSvc *service.AuthService, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		authSvc: authSvc,
		logger:  logger,
	}
	s.setupRouter(h)
	return s
}

func (s *Server) setupRouter(h *handler.Handler) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   s.cfg.CORSMethods,
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if s.cfg.RateRequests > 0 {
		r.Use(middleware.RateLimit(s.cfg.RateRequests, s.cfg.RateWindow))
	}

	authed := middleware.Authenticate(s.authSvc)
	admin := middleware.RequireAdmin(s.store)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/forgot-pass", h.ForgotPass)
			r.With(middleware.RequireReset(s.authSvc)).Put("/reset-pass", h.ResetPass)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authed)
			r.Get("/", h.ListUsers)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Get("/{id}", h.GetRecipe)
			r.Get("/search/{search}", h.SearchRecipes)

			r.Group(func(r chi.Router) {
				r.Use(authed, admin)
				r.Post("/", h.CreateRecipe)
				r.Put("/{id}", h.UpdateRecipe)
				r.Delete("/{id}", h.DeleteRecipe)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Get("/search/{search}", h.SearchTags)
			r.Get("/recipe/{id}", h.TagsFromRecipe)

			r.Group(func(r chi.Router) {
				r.Use(authed, admin)
				r.Post("/", h.CreateTag)
				r.Put("/{id}", h.UpdateTag)
				r.Delete("/{id}", h.DeleteTag)
				r.Post("/link/{ids}", h.LinkTagsToRecipe)
				r.Delete("/link/{ids}", h.UnlinkTagFromRecipe)
			})
		})

		r.Route("/ustensils", func(r chi.Router) {
			r.Get("/", h.ListUstensils)
			r.Get("/search/{search}", h.SearchUstensils)
			r.Get("/recipe/{id}", h.UstensilsFromRecipe)

			r.Group(func(r chi.Router) {
				r.Use(authed, admin)
				r.Post("/", h.CreateUstensil)
				r.Put("/{id}", h.UpdateUstensil)
				r.Delete("/{id}", h.DeleteUstensil)
				r.Post("/link/{ids}", h.LinkUstensilsToRecipe)
				r.Delete("/link/{ids}", h.UnlinkUstensilFromRecipe)
			})
		})

		r.Route("/diets", func(r chi.Router) {
			r.Get("/", h.ListDiets)
			r.Get("/search/{search}", h.SearchDiets)

			// A user manages their own diet links; rights are checked
			// in the handler so admins can act on any account.
			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Get("/user/{ids}", h.DietsFromUser)
				r.Post("/user/{ids}", h.LinkDietsToUser)
				r.Delete("/user/{ids}", h.UnlinkDietFromUser)
			})

			r.Group(func(r chi.Router) {
				r.Use(authed, admin)
				r.Post("/", h.CreateDiet)
				r.Put("/{id}", h.UpdateDiet)
				r.Delete("/{id}", h.DeleteDiet)
				r.Post("/link/tag/{ids}", h.LinkTagsToDiet)
				r.Delete("/link/tag/{ids}", h.UnlinkTagFromDiet)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Get("/recipe/{id}", h.CategoriesFromRecipe)
			r.Get("/{id}/recipes", h.RecipesFromCategory)

			r.Group(func(r chi.Router) {
				r.Use(authed, admin)
				r.Post("/link/{ids}", h.LinkCategoriesToRecipe)
				r.Delete("/link/{ids}", h.UnlinkCategoryFromRecipe)
			})
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.ListIngredients)
			r.Get("/search/{search}", h.SearchIngredients)
			r.Get("/recipe/{id}", h.IngredientsFromRecipe)

			r.Group(func(r chi.Router) {
				r.Use(authed, admin)
				r.Post("/", h.CreateIngredient)
				r.Put("/{id}", h.UpdateIngredient)
				r.Delete("/{id}", h.DeleteIngredient)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/recipe/{id}", h.ReviewsFromRecipe)

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Post("/{id}", h.PostReview)
				r.Delete("/{id}", h.DeleteReview)
				r.Get("/user/{id}", h.ReviewsFromUser)
			})
		})

		r.Route("/banned", func(r chi.Router) {
			r.Use(authed)
			r.Get("/{id}", h.BannedFromUser)
			r.Post("/link/{ids}", h.BanIngredients)
			r.Delete("/link/{ids}", h.UnbanIngredient)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(authed)
			r.Post("/", h.IngredientsFromPicture)
			r.Post("/recipe", h.RecipeFromIngredients)
		})
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the database is
// reachable, 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"degraded","database":%q}`, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","database":"ok"}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or
// SIGTERM is received. It then performs a graceful shutdown, draining
// in-flight requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
