package ranking

import (
	"sort"
	"time"

	"github.com/trailtales/trailtales-api/models"
)

// Rank scores every candidate with the given strategy and sorts them by
// descending score. Ties keep candidate order.
func Rank(items []models.ContentItem, s Strategy, now time.Time) []models.ScoredContent {
	scored := make([]models.ScoredContent, len(items))
	for i, item := range items {
		scored[i] = models.ScoredContent{Item: item, Score: s.Score(item, now)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Paginate returns the slice for the 1-based page of the given size
func Paginate(items []models.ScoredContent, page, limit int) []models.ScoredContent {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return []models.ScoredContent{}
	}
	offset := (page - 1) * limit
	if offset >= len(items) {
		return []models.ScoredContent{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
