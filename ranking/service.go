package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/scoring"
)

// ErrUnknownKind is returned when a feed is requested for an unknown content kind
var ErrUnknownKind = errors.New("unknown content kind")

// CandidateSource fetches the newest published items not authored or hidden by viewerID
type CandidateSource interface {
	FindCandidates(ctx context.Context, viewerID string, limit int64) ([]models.ContentItem, error)
}

// ItinerarySource fetches a user's itineraries; failures yield an empty list
type ItinerarySource interface {
	FetchUserItineraries(ctx context.Context, userID, credential string) []models.Itinerary
}

// FeedRequest describes one feed call. Viewer is nil for anonymous callers.
type FeedRequest struct {
	Kind   string
	Viewer *models.Identity
	Page   int
	Limit  int
}

// FeedPage is one page of a ranked feed
type FeedPage struct {
	Algorithm Algorithm
	Items     []models.ScoredContent
	Total     int
	Page      int
	Limit     int
}

// Service assembles ranked feeds from candidate and itinerary sources
type Service struct {
	Sources     map[string]CandidateSource
	Itineraries ItinerarySource
	Weights     scoring.Weights
	Logger      *zap.SugaredLogger
	Now         func() time.Time
}

// NewService returns a feed service using the wall clock
func NewService(sources map[string]CandidateSource, itineraries ItinerarySource, w scoring.Weights, logger *zap.SugaredLogger) *Service {
	return &Service{
		Sources:     sources,
		Itineraries: itineraries,
		Weights:     w,
		Logger:      logger,
		Now:         time.Now,
	}
}

// Feed fetches candidates and, for an authenticated viewer, their itineraries
// concurrently, then ranks and paginates the candidates.
func (s *Service) Feed(ctx context.Context, req FeedRequest) (*FeedPage, error) {
	source, ok := s.Sources[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, req.Kind)
	}

	viewerID := ""
	if req.Viewer != nil {
		viewerID = req.Viewer.UserID
	}

	var candidates []models.ContentItem
	var itineraries []models.Itinerary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := source.FindCandidates(gctx, viewerID, s.candidateLimit())
		if err != nil {
			return fmt.Errorf("failed to fetch candidates: %w", err)
		}
		candidates = items
		return nil
	})
	if req.Viewer != nil && s.Itineraries != nil {
		g.Go(func() error {
			itineraries = s.Itineraries.FetchUserItineraries(gctx, req.Viewer.UserID, req.Viewer.Credential)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := BuildProfile(itineraries)
	strategy := SelectStrategy(profile, s.Weights)
	ranked := Rank(candidates, strategy, s.now())

	if s.Logger != nil {
		s.Logger.Debugw("ranked feed",
			"kind", req.Kind,
			"viewer", viewerID,
			"algorithm", strategy.Algorithm,
			"candidates", len(candidates),
			"locations", len(profile.Locations))
	}

	return &FeedPage{
		Algorithm: strategy.Algorithm,
		Items:     Paginate(ranked, req.Page, req.Limit),
		Total:     len(ranked),
		Page:      req.Page,
		Limit:     req.Limit,
	}, nil
}

func (s *Service) candidateLimit() int64 {
	if s.Weights.CandidateLimit > 0 {
		return s.Weights.CandidateLimit
	}
	return scoring.DefaultWeights().CandidateLimit
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
