package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gezgin/placewise/internal/ai"
	"github.com/gezgin/placewise/internal/logger"
	"github.com/gezgin/placewise/internal/models"
)

// AssetRepo is the persistence surface the service needs.
type AssetRepo interface {
	GetByPlaceID(ctx context.Context, placeID string) (*models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) (*models.Asset, error)
	UpdateAIContent(ctx context.Context, placeID string, update models.AIUpdate) (*models.Asset, error)
}

// Publisher uploads a generated landing page and returns its public URL.
type Publisher interface {
	Publish(ctx context.Context, placeID, html string) (string, error)
}

// ContentService orchestrates place registration: provider fetch,
// normalization, persistence, and AI content generation.
type ContentService struct {
	repo      AssetRepo
	source    PlaceSource
	generator ai.Generator
	post      *ai.PostProcessor
	publisher Publisher
}

// NewContentService wires the service. publisher may be nil, in which case
// landing pages are persisted but not uploaded.
func NewContentService(repo AssetRepo, source PlaceSource, generator ai.Generator, publisher Publisher) *ContentService {
	return &ContentService{
		repo:      repo,
		source:    source,
		generator: generator,
		post:      ai.NewPostProcessor(),
		publisher: publisher,
	}
}

// RegisterPlace registers a place by its provider id. Registration is
// idempotent: an already-registered place is returned as stored, AI fields
// untouched. AI generation is best effort — any generation failure leaves
// that field empty and the registration still succeeds.
func (s *ContentService) RegisterPlace(ctx context.Context, placeID string) (*models.Asset, bool, error) {
	existing, err := s.repo.GetByPlaceID(ctx, placeID)
	if err != nil {
		return nil, false, fmt.Errorf("looking up asset %s: %w", placeID, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	asset, err := s.source.FetchAsset(ctx, placeID)
	if err != nil {
		return nil, false, err
	}

	created, err := s.repo.Create(ctx, asset)
	if err != nil {
		return nil, false, fmt.Errorf("persisting asset %s: %w", placeID, err)
	}

	update := s.GenerateContent(ctx, created)

	if update.LandingPage != "" && s.publisher != nil {
		url, pubErr := s.publisher.Publish(ctx, placeID, update.LandingPage)
		if pubErr != nil {
			logger.Get().Warn().Err(pubErr).Str("place_id", placeID).Msg("landing page publish failed")
		} else {
			update.LandingPageURL = url
		}
	}

	enriched, err := s.repo.UpdateAIContent(ctx, placeID, update)
	if err != nil {
		// The asset exists without AI fields; that state is visible and
		// recoverable, so the registration itself still succeeds.
		logger.Get().Error().Err(err).Str("place_id", placeID).Msg("storing AI content failed")
		return created, true, nil
	}

	return enriched, true, nil
}

// GenerateContent runs description, tag, and category generation
// concurrently, then builds the landing page from the description. Each
// call succeeds or fails on its own; failures are logged and leave the
// corresponding field empty (category falls back to Default).
func (s *ContentService) GenerateContent(ctx context.Context, asset *models.Asset) models.AIUpdate {
	log := logger.Get()
	update := models.AIUpdate{Category: models.CategoryDefault}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := s.generate(gctx, asset, ai.RequestDescription)
		if err != nil {
			log.Warn().Err(err).Str("place_id", asset.PlaceID).Msg("description generation failed")
			return nil
		}
		update.Description = s.post.CleanDescription(text)
		return nil
	})

	g.Go(func() error {
		text, err := s.generate(gctx, asset, ai.RequestTags)
		if err != nil {
			log.Warn().Err(err).Str("place_id", asset.PlaceID).Msg("tag generation failed")
			return nil
		}
		update.Tags = s.post.ParseTags(text)
		return nil
	})

	g.Go(func() error {
		text, err := s.generate(gctx, asset, ai.RequestCategory)
		if err != nil {
			log.Warn().Err(err).Str("place_id", asset.PlaceID).Msg("category classification failed")
			return nil
		}
		update.Category = models.ParseCategory(ai.StripCodeFence(text))
		return nil
	})

	_ = g.Wait()

	landingInput := *asset
	landingInput.Description = update.Description
	text, err := s.generate(ctx, &landingInput, ai.RequestLandingPage)
	if err != nil {
		log.Warn().Err(err).Str("place_id", asset.PlaceID).Msg("landing page generation failed")
	} else {
		update.LandingPage = s.post.SanitizeLandingPage(text)
	}

	return update
}

func (s *ContentService) generate(ctx context.Context, asset *models.Asset, rt ai.RequestType) (string, error) {
	system, user, err := ai.BuildPrompt(asset, rt)
	if err != nil {
		return "", err
	}
	return s.generator.Generate(ctx, system, user)
}
