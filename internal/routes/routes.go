package routes

import (
	"time"

	"github.com/gezzzi/taskdeck/internal/config"
	"github.com/gezzzi/taskdeck/internal/handlers"
	"github.com/gezzzi/taskdeck/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	todoHandler *handlers.TodoHandler,
	categoryHandler *handlers.CategoryHandler,
	searchHandler *handlers.SearchHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Everything data-facing requires a verified session.
	protected := api.Group("", middleware.JWTProtected(cfg))

	// Todos. Static segments before :id so /todos/search is not captured as
	// a parameter.
	protected.Get("/todos", searchHandler.ListCursor)
	protected.Post("/todos", todoHandler.CreateTodo)
	protected.Get("/todos/search", searchHandler.Search)
	protected.Get("/todos/search/pages", searchHandler.PaginationInfo)
	protected.Get("/todos/search/advanced", searchHandler.SearchAdvanced)
	protected.Get("/todos/suggestions", searchHandler.Suggestions)
	protected.Get("/todos/stats", todoHandler.Stats)
	protected.Post("/todos/bulk/complete", todoHandler.BulkComplete)
	protected.Post("/todos/bulk/category", todoHandler.BulkCategory)
	protected.Post("/todos/bulk/delete", todoHandler.BulkDelete)
	protected.Put("/todos/:id", todoHandler.UpdateTodo)
	protected.Delete("/todos/:id", todoHandler.DeleteTodo)

	// Categories
	protected.Get("/categories", categoryHandler.ListCategories)
	protected.Post("/categories", categoryHandler.CreateCategory)
	protected.Put("/categories/:id", categoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", categoryHandler.DeleteCategory)
}
