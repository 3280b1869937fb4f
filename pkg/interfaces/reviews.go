package interfaces

import (
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// ReviewService defines the interface for the reviews aggregator
type ReviewService interface {
	ListReviews(doctorID string, filters *types.ReviewFilters) (*types.ReviewPage, error)
	ComputeAverageRating(doctorID string) (*types.RatingSummary, error)
}

// ReviewRepository defines the interface for review reads. Both queries
// cover the same set: completed appointments with a positive rating.
type ReviewRepository interface {
	ListReviews(doctorID string, search string, limit, offset int) ([]*types.Review, int, error)
	GetRatingAggregate(doctorID string) (float64, int, error)
}
