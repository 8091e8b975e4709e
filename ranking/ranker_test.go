package ranking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/scoring"
)

func candidates(n int) []models.ContentItem {
	items := make([]models.ContentItem, n)
	for i := range items {
		items[i] = models.ContentItem{
			ID:           primitive.NewObjectID(),
			Title:        fmt.Sprintf("item-%d", i),
			LikeCount:    int64(i % 4),
			LocationName: []string{"Galle", "Ella", "Kandy", ""}[i%4],
			Tags:         []string{"food"},
			CreatedAt:    now.Add(-time.Duration(i) * 24 * time.Hour),
		}
	}
	return items
}

func titles(items []models.ScoredContent) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Item.Title
	}
	return out
}

func TestRankSortsDescending(t *testing.T) {
	ranked := Rank(candidates(20), SelectStrategy(profileWith("ella"), scoring.DefaultWeights()), now)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	assert.Equal(t, "Ella", ranked[0].Item.LocationName)
}

func TestRankIsDeterministic(t *testing.T) {
	items := candidates(50)
	s := SelectStrategy(profileWith("galle", "kandy"), scoring.DefaultWeights())

	first := Rank(items, s, now)
	second := Rank(items, s, now)

	assert.Equal(t, titles(first), titles(second))
}

func TestRankTiesKeepCandidateOrder(t *testing.T) {
	items := []models.ContentItem{
		{Title: "a", CreatedAt: now},
		{Title: "b", CreatedAt: now},
		{Title: "c", CreatedAt: now},
	}

	ranked := Rank(items, SelectStrategy(Profile{}, scoring.DefaultWeights()), now)

	assert.Equal(t, []string{"a", "b", "c"}, titles(ranked))
}

func TestPaginate(t *testing.T) {
	ranked := Rank(candidates(7), SelectStrategy(Profile{}, scoring.DefaultWeights()), now)

	assert.Len(t, Paginate(ranked, 1, 3), 3)
	assert.Len(t, Paginate(ranked, 3, 3), 1)
	assert.Empty(t, Paginate(ranked, 4, 3))
	assert.Equal(t, titles(ranked[3:6]), titles(Paginate(ranked, 2, 3)))
	assert.Equal(t, titles(ranked[:3]), titles(Paginate(ranked, 0, 3)))
	assert.Empty(t, Paginate(ranked, 1, 0))
}
