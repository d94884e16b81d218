package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gezgin/placewise/internal/auth"
	"github.com/gezgin/placewise/internal/cache"
	"github.com/gezgin/placewise/internal/logger"
	"github.com/gezgin/placewise/internal/middleware"
	"github.com/gezgin/placewise/internal/models"
	"github.com/gezgin/placewise/internal/places"
	"github.com/gezgin/placewise/internal/storage"
	"github.com/gezgin/placewise/internal/utils"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	registrar Registrar
	provider  PlaceProvider
	assets    AssetStore
	users     UserStore
	cache     cache.Cache
	tokens    *auth.TokenManager
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(registrar Registrar, provider PlaceProvider, assets AssetStore, users UserStore, c cache.Cache, tokens *auth.TokenManager) *Handlers {
	return &Handlers{
		registrar: registrar,
		provider:  provider,
		assets:    assets,
		users:     users,
		cache:     c,
		tokens:    tokens,
	}
}

// HealthCheck handles GET /health. Reports DB and cache connectivity.
func HealthCheck(db Pinger, c cache.Cache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		status := fiber.StatusOK
		dbStatus, cacheStatus := "ok", "ok"

		if err := db.Ping(ctx.Context()); err != nil {
			dbStatus = "error"
			status = fiber.StatusServiceUnavailable
		}
		if err := c.Ping(ctx.Context()); err != nil {
			cacheStatus = "error"
			status = fiber.StatusServiceUnavailable
		}

		return ctx.Status(status).JSON(fiber.Map{
			"status": map[bool]string{true: "ok", false: "degraded"}[status == fiber.StatusOK],
			"db":     dbStatus,
			"cache":  cacheStatus,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// --- auth ---

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// RegisterUser handles POST /auth/register.
func (h *Handlers) RegisterUser(c *fiber.Ctx) error {
	var req registerRequest
	if !middleware.ParseAndValidate(c, &req) {
		return nil
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	user, err := h.users.Create(c.Context(), &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		}
		logger.Get().Error().Err(err).Str("email", req.Email).Msg("user creation failed")
		return fiber.ErrInternalServerError
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		logger.Get().Error().Err(err).Msg("token issue failed")
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if !middleware.ParseAndValidate(c, &req) {
		return nil
	}

	user, err := h.users.GetByEmail(c.Context(), req.Email)
	if err != nil {
		logger.Get().Error().Err(err).Str("email", req.Email).Msg("login lookup failed")
		return fiber.ErrInternalServerError
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		logger.Get().Error().Err(err).Msg("token issue failed")
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// --- places ---

// GetPlace handles GET /places/:placeId — a normalized provider
// passthrough without persistence.
func (h *Handlers) GetPlace(c *fiber.Ctx) error {
	placeID := c.Params("placeId")

	asset, err := h.provider.FetchAsset(c.Context(), placeID)
	if err != nil {
		if errors.Is(err, places.ErrPlaceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Place not found",
			})
		}
		logger.Get().Error().Err(err).Str("place_id", placeID).Msg("provider fetch failed")
		return fiber.ErrInternalServerError
	}

	return c.JSON(asset)
}

type registerPlaceRequest struct {
	PlaceID string `json:"placeId" validate:"required"`
}

// RegisterPlace handles POST /places/register. Idempotent on place id:
// re-registering returns the stored asset with a 200.
func (h *Handlers) RegisterPlace(c *fiber.Ctx) error {
	var req registerPlaceRequest
	if !middleware.ParseAndValidate(c, &req) {
		return nil
	}

	asset, created, err := h.registrar.RegisterPlace(c.Context(), req.PlaceID)
	if err != nil {
		if errors.Is(err, places.ErrPlaceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Place not found",
			})
		}
		logger.Get().Error().Err(err).Str("place_id", req.PlaceID).Msg("place registration failed")
		return fiber.ErrInternalServerError
	}

	if err := h.cache.SetAsset(c.Context(), asset.PlaceID, asset); err != nil {
		logger.Get().Warn().Err(err).Str("place_id", asset.PlaceID).Msg("cache set failed after registration")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(asset)
}

// SearchPlaces handles GET /places/search. Either ?query= for text
// search or ?lat=&lng=&radius= (optionally &type=) for nearby search.
// Responses are cached by a hash of the normalized parameters.
func (h *Handlers) SearchPlaces(c *fiber.Ctx) error {
	query := c.Query("query")
	latStr, lngStr := c.Query("lat"), c.Query("lng")

	var cacheKey string
	var search func() ([]models.PlaceSummary, error)

	switch {
	case query != "":
		cacheKey = utils.CacheKey("text", query)
		search = func() ([]models.PlaceSummary, error) {
			return h.provider.SearchText(c.Context(), query)
		}

	case latStr != "" && lngStr != "":
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		radius := c.QueryInt("radius", 1000)
		placeType := c.Query("type")
		if latErr != nil || lngErr != nil || radius <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid lat/lng/radius parameters",
			})
		}
		cacheKey = utils.CacheKey("nearby", latStr, lngStr, strconv.Itoa(radius), placeType)
		search = func() ([]models.PlaceSummary, error) {
			return h.provider.SearchNearby(c.Context(), lat, lng, radius, placeType)
		}

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Either query or lat/lng is required",
		})
	}

	if cached, err := h.cache.GetSearch(c.Context(), cacheKey); err == nil && cached != nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}

	results, err := search()
	if err != nil {
		logger.Get().Error().Err(err).Msg("place search failed")
		return fiber.ErrInternalServerError
	}
	if results == nil {
		results = []models.PlaceSummary{}
	}

	payload, err := json.Marshal(fiber.Map{"total": len(results), "items": results})
	if err != nil {
		return fiber.ErrInternalServerError
	}
	if err := h.cache.SetSearch(c.Context(), cacheKey, payload); err != nil {
		logger.Get().Warn().Err(err).Msg("search cache set failed")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// SearchAssets handles GET /assets/search — searches among registered
// assets instead of the provider. Same parameter shape as SearchPlaces.
func (h *Handlers) SearchAssets(c *fiber.Ctx) error {
	query := c.Query("query")
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var results []*models.Asset
	var err error

	switch {
	case query != "":
		results, err = h.assets.SearchText(c.Context(), query, limit)

	case latStr != "" && lngStr != "":
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		radius := c.QueryInt("radius", 1000)
		if latErr != nil || lngErr != nil || radius <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid lat/lng/radius parameters",
			})
		}
		results, err = h.assets.SearchNearby(c.Context(), lat, lng, radius, limit)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Either query or lat/lng is required",
		})
	}

	if err != nil {
		logger.Get().Error().Err(err).Msg("asset search failed")
		return fiber.ErrInternalServerError
	}
	if results == nil {
		results = []*models.Asset{}
	}

	return c.JSON(fiber.Map{"total": len(results), "items": results})
}

// DeleteAsset handles DELETE /places/:placeId (admin only).
func (h *Handlers) DeleteAsset(c *fiber.Ctx) error {
	placeID := c.Params("placeId")

	deleted, err := h.assets.Delete(c.Context(), placeID)
	if err != nil {
		logger.Get().Error().Err(err).Str("place_id", placeID).Msg("asset delete failed")
		return fiber.ErrInternalServerError
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Asset not found",
		})
	}

	if err := h.cache.DeleteAsset(c.Context(), placeID); err != nil {
		logger.Get().Warn().Err(err).Str("place_id", placeID).Msg("cache delete failed")
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}

// GetAsset handles GET /assets/:externalId — read-through cached lookup
// of a stored asset. An asset whose AI fields are still empty is returned
// as-is; partial enrichment is a visible, valid state.
func (h *Handlers) GetAsset(c *fiber.Ctx) error {
	placeID := c.Params("externalId")

	if cached, err := h.cache.GetAsset(c.Context(), placeID); err == nil && cached != nil {
		return c.JSON(cached)
	}

	asset, err := h.assets.GetByPlaceID(c.Context(), placeID)
	if err != nil {
		logger.Get().Error().Err(err).Str("place_id", placeID).Msg("asset lookup failed")
		return fiber.ErrInternalServerError
	}
	if asset == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Asset not found",
		})
	}

	if err := h.cache.SetAsset(c.Context(), placeID, asset); err != nil {
		logger.Get().Warn().Err(err).Str("place_id", placeID).Msg("cache set failed")
	}

	return c.JSON(asset)
}
