package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lixing-Zhang/foodgram/backend/internal/config"
	"github.com/Lixing-Zhang/foodgram/backend/internal/middleware"
	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Catalog       *service.CatalogService
	Recipes       *service.RecipeService
	Favorites     *service.FavoriteService
	Cart          *service.ShoppingCartService
	Users         *service.UserService
	Subscriptions *service.SubscriptionService
	Auth          *service.AuthService
}

// NewRouter builds the application router with its middleware chain
func NewRouter(svc Services, db Pinger, cfg config.APIConfig, log *slog.Logger) http.Handler {
	paginator := Paginator{DefaultLimit: cfg.PageSize, MaxLimit: cfg.MaxPageSize}

	healthHandler := NewHealthHandler(db, log)
	catalogHandler := NewCatalogHandler(svc.Catalog, log)
	recipeHandler := NewRecipeHandler(svc.Recipes, svc.Favorites, svc.Cart, paginator, log)
	userHandler := NewUserHandler(svc.Users, svc.Subscriptions, paginator, log)
	authHandler := NewAuthHandler(svc.Auth, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// One limiter shared by every route that writes or checks credentials
	limit := rateLimiter(cfg, log)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(svc.Auth, log))

		r.Get("/tags", catalogHandler.ListTags)
		r.Get("/tags/{id}", catalogHandler.GetTag)
		r.Get("/ingredients", catalogHandler.ListIngredients)
		r.Get("/ingredients/{id}", catalogHandler.GetIngredient)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipeHandler.ListRecipes)
			r.Get("/{id}", recipeHandler.GetRecipe)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Get("/download_shopping_cart", recipeHandler.DownloadShoppingCart)

				r.Group(func(r chi.Router) {
					r.Use(limit)

					r.Post("/", recipeHandler.CreateRecipe)
					r.Put("/{id}", recipeHandler.UpdateRecipe)
					r.Patch("/{id}", recipeHandler.PatchRecipe)
					r.Delete("/{id}", recipeHandler.DeleteRecipe)

					r.Get("/{id}/favorite", recipeHandler.AddFavorite)
					r.Post("/{id}/favorite", recipeHandler.AddFavorite)
					r.Delete("/{id}/favorite", recipeHandler.RemoveFavorite)

					r.Get("/{id}/shopping_cart", recipeHandler.AddToCart)
					r.Post("/{id}/shopping_cart", recipeHandler.AddToCart)
					r.Delete("/{id}/shopping_cart", recipeHandler.RemoveFromCart)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.With(limit).Post("/", userHandler.Register)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Get("/me", userHandler.Me)
				r.Get("/subscriptions", userHandler.Subscriptions)
				r.Get("/{id}", userHandler.GetUser)
				r.With(limit).Post("/set_password", userHandler.SetPassword)

				r.Get("/{id}/subscribe", userHandler.Subscribe)
				r.Post("/{id}/subscribe", userHandler.Subscribe)
				r.Delete("/{id}/subscribe", userHandler.Unsubscribe)
			})
		})

		r.Route("/auth/token", func(r chi.Router) {
			r.With(limit).Post("/login", authHandler.Login)
			r.With(middleware.RequireAuth).Post("/logout", authHandler.Logout)
		})
	})

	return r
}

// rateLimiter limits requests per client IP; a non-positive request budget disables it
func rateLimiter(cfg config.APIConfig, log *slog.Logger) func(http.Handler) http.Handler {
	if cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("rate limit exceeded", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			WriteError(w, http.StatusTooManyRequests, "Too many requests", log)
		}),
	)
}
