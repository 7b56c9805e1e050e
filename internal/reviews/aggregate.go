// Package reviews holds the rating aggregation rules shared by the review
// endpoints and the product enrichment views.
package reviews

import (
	"github.com/shopspring/decimal"

	"github.com/zelora/backend/internal/models"
)

// Aggregate computes the mean rating over reviews that are not flagged as spam
// and carry a rating. The mean is rounded half up to one decimal place; rated
// is the number of reviews that qualified. With no qualifying reviews the
// average is 0.
func Aggregate(rs []models.Review) (avg float64, rated int) {
	sum := 0
	for _, r := range rs {
		if r.FlaggedAsSpam || r.Rating == nil {
			continue
		}
		sum += *r.Rating
		rated++
	}
	if rated == 0 {
		return 0, 0
	}
	mean := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(rated)))
	avg, _ = mean.Round(1).Float64()
	return avg, rated
}

// Count is the number of reviews not flagged as spam. Reviews without a
// rating still count here, which does not line up with Aggregate's filter;
// the discrepancy is long-standing and callers rely on it.
func Count(rs []models.Review) int {
	n := 0
	for _, r := range rs {
		if !r.FlaggedAsSpam {
			n++
		}
	}
	return n
}

// Visible filters out spam-flagged reviews for public display.
func Visible(rs []models.Review) []models.Review {
	out := make([]models.Review, 0, len(rs))
	for _, r := range rs {
		if !r.FlaggedAsSpam {
			out = append(out, r)
		}
	}
	return out
}

// Displayed applies the product-detail presentation filter: spam excluded and
// rating at least minRating.
func Displayed(rs []models.Review, minRating int) []models.Review {
	out := make([]models.Review, 0, len(rs))
	for _, r := range rs {
		if r.FlaggedAsSpam || r.Rating == nil || *r.Rating < minRating {
			continue
		}
		out = append(out, r)
	}
	return out
}
