package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtales/trailtales-api/api"
	"github.com/trailtales/trailtales-api/api/handlers"
	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/ranking"
)

type fakeRanker struct {
	got  ranking.FeedRequest
	page *ranking.FeedPage
	err  error
}

func (f *fakeRanker) Feed(_ context.Context, req ranking.FeedRequest) (*ranking.FeedPage, error) {
	f.got = req
	return f.page, f.err
}

func withIdentity(req *http.Request, id *models.Identity) *http.Request {
	return req.WithContext(api.WithIdentity(req.Context(), id))
}

func TestFeed_FeedHandler(t *testing.T) {
	ranker := &fakeRanker{page: &ranking.FeedPage{
		Algorithm: ranking.AlgorithmPersonalized,
		Items:     []models.ScoredContent{{Item: models.ContentItem{Title: "Lake loop"}, Score: 4.2}},
		Total:     21,
		Page:      2,
		Limit:     10,
	}}
	f := handlers.Feed{Ranker: ranker}

	viewer := &models.Identity{UserID: "u1", Credential: "tok"}
	req := httptest.NewRequest("GET", "/api/v1/feed/blogposts?page=2&limit=10", nil)
	req = mux.SetURLVars(withIdentity(req, viewer), map[string]string{"kind": models.KindBlogPost})
	rr := httptest.NewRecorder()
	http.HandlerFunc(f.FeedHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ranking.FeedRequest{Kind: models.KindBlogPost, Viewer: viewer, Page: 2, Limit: 10}, ranker.got)

	var body models.FeedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "personalized", body.Algorithm)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, models.PaginationInfo{
		CurrentPage: 2, Limit: 10, TotalItems: 21, TotalPages: 3, HasNextPage: true, HasPrevPage: true,
	}, body.Pagination)
}

func TestFeed_FeedHandlerAnonymousDefaults(t *testing.T) {
	ranker := &fakeRanker{page: &ranking.FeedPage{Algorithm: ranking.AlgorithmGeneric, Page: 1, Limit: 20}}
	f := handlers.Feed{Ranker: ranker}

	req := httptest.NewRequest("GET", "/api/v1/feed/reviews?page=-3&limit=5000", nil)
	req = mux.SetURLVars(req, map[string]string{"kind": models.KindReview})
	rr := httptest.NewRecorder()
	http.HandlerFunc(f.FeedHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, ranker.got.Viewer)
	assert.Equal(t, 1, ranker.got.Page)
	assert.Equal(t, 100, ranker.got.Limit)
}

func TestFeed_FeedHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown kind", ranking.ErrUnknownKind, http.StatusNotFound},
		{"store failure", errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := handlers.Feed{Ranker: &fakeRanker{err: tt.err}}
			req := mux.SetURLVars(httptest.NewRequest("GET", "/api/v1/feed/reviews", nil), map[string]string{"kind": "reviews"})
			rr := httptest.NewRecorder()
			http.HandlerFunc(f.FeedHandler).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
