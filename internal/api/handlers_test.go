package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezgin/placewise/internal/auth"
	"github.com/gezgin/placewise/internal/cache"
	"github.com/gezgin/placewise/internal/models"
	"github.com/gezgin/placewise/internal/places"
	"github.com/gezgin/placewise/internal/storage"
)

type mockRegistrar struct {
	asset   *models.Asset
	created bool
	err     error
	calls   int
}

func (m *mockRegistrar) RegisterPlace(_ context.Context, _ string) (*models.Asset, bool, error) {
	m.calls++
	return m.asset, m.created, m.err
}

type mockProvider struct {
	asset     *models.Asset
	summaries []models.PlaceSummary
	err       error

	textCalls   int
	nearbyCalls int
}

func (m *mockProvider) FetchAsset(_ context.Context, _ string) (*models.Asset, error) {
	return m.asset, m.err
}

func (m *mockProvider) SearchText(_ context.Context, _ string) ([]models.PlaceSummary, error) {
	m.textCalls++
	return m.summaries, m.err
}

func (m *mockProvider) SearchNearby(_ context.Context, _, _ float64, _ int, _ string) ([]models.PlaceSummary, error) {
	m.nearbyCalls++
	return m.summaries, m.err
}

type mockAssetStore struct {
	asset       *models.Asset
	deleted     bool
	err         error
	deleteCalls int
}

func (m *mockAssetStore) GetByPlaceID(_ context.Context, _ string) (*models.Asset, error) {
	return m.asset, m.err
}

func (m *mockAssetStore) Delete(_ context.Context, _ string) (bool, error) {
	m.deleteCalls++
	return m.deleted, m.err
}

func (m *mockAssetStore) SearchText(_ context.Context, _ string, _ int) ([]*models.Asset, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.asset == nil {
		return nil, nil
	}
	return []*models.Asset{m.asset}, nil
}

func (m *mockAssetStore) SearchNearby(_ context.Context, _, _ float64, _, _ int) ([]*models.Asset, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.asset == nil {
		return nil, nil
	}
	return []*models.Asset{m.asset}, nil
}

type mockUserStore struct {
	users map[string]*models.User
	err   error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*models.User)}
}

func (m *mockUserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, exists := m.users[user.Email]; exists {
		return nil, storage.ErrEmailTaken
	}
	copied := *user
	copied.ID = "u-1"
	m.users[user.Email] = &copied
	return &copied, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[email], nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type testEnv struct {
	app       *fiber.App
	registrar *mockRegistrar
	provider  *mockProvider
	assets    *mockAssetStore
	users     *mockUserStore
	cache     *cache.MockCache
	tokens    *auth.TokenManager
}

func newTestEnv() *testEnv {
	env := &testEnv{
		registrar: &mockRegistrar{},
		provider:  &mockProvider{},
		assets:    &mockAssetStore{},
		users:     newMockUserStore(),
		cache:     cache.NewMockCache(),
		tokens:    auth.NewTokenManager("test-secret", time.Hour),
	}
	handlers := NewHandlers(env.registrar, env.provider, env.assets, env.users, env.cache, env.tokens)
	env.app = fiber.New()
	SetupRoutes(env.app, handlers, env.tokens, okPinger{}, env.cache)
	return env
}

func (env *testEnv) tokenFor(role string) string {
	token, _ := env.tokens.Issue(&models.User{ID: "u-1", Email: "a@b.c", Role: role})
	return token
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func storedAsset() *models.Asset {
	return &models.Asset{
		ID:          "row-1",
		PlaceID:     "abc",
		DisplayName: "Cafe X",
		Category:    models.CategoryDefault,
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv()
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["db"])
	assert.Equal(t, "ok", body["cache"])
}

func TestRegisterUserAndDuplicate(t *testing.T) {
	env := newTestEnv()
	payload := map[string]string{
		"email":     "ada@example.com",
		"password":  "longenough1",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	}

	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/auth/register", payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])

	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/auth/register", payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterUserValidation(t *testing.T) {
	env := newTestEnv()
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/auth/register", map[string]string{
		"email":     "not-an-email",
		"password":  "short",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv()
	hash, err := auth.HashPassword("correct password")
	require.NoError(t, err)
	env.users.users["ada@example.com"] = &models.User{
		ID: "u-1", Email: "ada@example.com", PasswordHash: hash, Role: models.RoleUser,
	}

	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong password",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "correct password",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterPlaceRequiresAuth(t *testing.T) {
	env := newTestEnv()
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/places/register", map[string]string{"placeId": "abc"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, env.registrar.calls)
}

func TestRegisterPlaceMissingPlaceID(t *testing.T) {
	env := newTestEnv()
	req := jsonRequest(http.MethodPost, "/places/register", map[string]string{})
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(models.RoleUser))

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, env.registrar.calls)
}

func TestRegisterPlaceCreatedVsIdempotent(t *testing.T) {
	env := newTestEnv()
	env.registrar.asset = storedAsset()
	env.registrar.created = true

	req := jsonRequest(http.MethodPost, "/places/register", map[string]string{"placeId": "abc"})
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(models.RoleUser))
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	env.registrar.created = false
	req = jsonRequest(http.MethodPost, "/places/register", map[string]string{"placeId": "abc"})
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(models.RoleUser))
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterPlaceNotFound(t *testing.T) {
	env := newTestEnv()
	env.registrar.err = places.ErrPlaceNotFound

	req := jsonRequest(http.MethodPost, "/places/register", map[string]string{"placeId": "nope"})
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(models.RoleUser))
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPlaceNotFound(t *testing.T) {
	env := newTestEnv()
	env.provider.err = places.ErrPlaceNotFound

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/places/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchPlacesRequiresParams(t *testing.T) {
	env := newTestEnv()
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/places/search", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchPlacesTextAndCaching(t *testing.T) {
	env := newTestEnv()
	env.provider.summaries = []models.PlaceSummary{{PlaceID: "abc", DisplayName: "Cafe X"}}

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/places/search?query=coffee", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])

	// Second identical search is served from cache.
	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/places/search?query=coffee", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.provider.textCalls)
}

func TestSearchPlacesNearby(t *testing.T) {
	env := newTestEnv()
	env.provider.summaries = []models.PlaceSummary{{PlaceID: "abc"}}

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/places/search?lat=41.0&lng=28.9&radius=500", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.provider.nearbyCalls)
}

func TestSearchPlacesBadCoordinates(t *testing.T) {
	env := newTestEnv()
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/places/search?lat=abc&lng=28.9", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteAssetRequiresAdmin(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodDelete, "/places/abc", nil)
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(models.RoleUser))
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, env.assets.deleteCalls)
}

func TestDeleteAssetAsAdmin(t *testing.T) {
	env := newTestEnv()
	env.assets.deleted = true

	req := httptest.NewRequest(http.MethodDelete, "/places/abc", nil)
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(models.RoleAdmin))
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.assets.deleteCalls)
}

func TestDeleteAssetNotFound(t *testing.T) {
	env := newTestEnv()
	env.assets.deleted = false

	req := httptest.NewRequest(http.MethodDelete, "/places/missing", nil)
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(models.RoleAdmin))
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetAssetNotFound(t *testing.T) {
	env := newTestEnv()
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/assets/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetAssetReturnsPartialEnrichment(t *testing.T) {
	env := newTestEnv()
	env.assets.asset = storedAsset() // no AI fields yet

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/assets/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "abc", body["place_id"])
	assert.Equal(t, string(models.CategoryDefault), body["category"])
	_, hasDescription := body["description"]
	assert.False(t, hasDescription)
}

func TestGetAssetServedFromCache(t *testing.T) {
	env := newTestEnv()
	require.NoError(t, env.cache.SetAsset(context.Background(), "abc", storedAsset()))
	env.assets.err = assert.AnError // the store must not be consulted

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/assets/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSearchAssetsByText(t *testing.T) {
	env := newTestEnv()
	env.assets.asset = storedAsset()

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/assets/search?query=cafe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])
}

func TestSearchAssetsEmptyResult(t *testing.T) {
	env := newTestEnv()

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/assets/search?lat=41.0&lng=28.9", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["total"])
}

func TestSearchAssetsRequiresParams(t *testing.T) {
	env := newTestEnv()
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/assets/search", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvalidBearerToken(t *testing.T) {
	env := newTestEnv()
	req := jsonRequest(http.MethodPost, "/places/register", map[string]string{"placeId": "abc"})
	req.Header.Set("Authorization", "Bearer garbage")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv()
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
