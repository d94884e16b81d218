package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gezgin/placewise/internal/auth"
	"github.com/gezgin/placewise/internal/cache"
	"github.com/gezgin/placewise/internal/middleware"
)

// SetupRoutes configures all routes for the application.
func SetupRoutes(app *fiber.App, handlers *Handlers, tokens *auth.TokenManager, db Pinger, c cache.Cache) {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	app.Get("/health", HealthCheck(db, c))

	authGroup := app.Group("/auth")
	{
		authGroup.Post("/register", handlers.RegisterUser)
		authGroup.Post("/login", handlers.Login)
	}

	placesGroup := app.Group("/places")
	{
		placesGroup.Get("/search", handlers.SearchPlaces)
		placesGroup.Post("/register", middleware.RequireAuth(tokens), handlers.RegisterPlace)
		placesGroup.Get("/:placeId", handlers.GetPlace)
		placesGroup.Delete("/:placeId", middleware.RequireAuth(tokens), middleware.RequireAdmin(), handlers.DeleteAsset)
	}

	app.Get("/assets/search", handlers.SearchAssets)
	app.Get("/assets/:externalId", handlers.GetAsset)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
