package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/trailtales/trailtales-api/api"
	"github.com/trailtales/trailtales-api/config"
	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/ranking"
)

// FeedRanker produces one page of a ranked feed
type FeedRanker interface {
	Feed(ctx context.Context, req ranking.FeedRequest) (*ranking.FeedPage, error)
}

// Feed serves ranked content feeds
type Feed struct {
	Ranker  FeedRanker
	Metrics *api.Metrics
}

// FeedHandler returns the ranked feed for a content kind. Authenticated callers
// with itineraries get the personalized ranking, everyone else the generic one.
func (f Feed) FeedHandler(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	page, limit := pageParams(r)

	req := ranking.FeedRequest{Kind: kind, Page: page, Limit: limit}
	if identity, ok := api.IdentityFromContext(r.Context()); ok {
		req.Viewer = identity
	}

	start := time.Now()
	result, err := f.Ranker.Feed(r.Context(), req)
	if err != nil {
		if errors.Is(err, ranking.ErrUnknownKind) {
			config.ErrorStatus("unknown content kind", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to build feed", http.StatusInternalServerError, w, err)
		return
	}
	f.Metrics.FeedServed(kind, string(result.Algorithm), time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, models.FeedResponse{
		Success:    true,
		Algorithm:  string(result.Algorithm),
		Items:      result.Items,
		Pagination: models.NewPaginationInfo(result.Page, result.Limit, result.Total),
	})
}
