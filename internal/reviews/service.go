package reviews

import (
	"math"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// PageSize is the review list page size
const PageSize = 10

// Service implements the ReviewService interface
type Service struct {
	repository interfaces.ReviewRepository
	logger     *logger.Logger
}

// NewService creates a new review service
func NewService(repo interfaces.ReviewRepository, log *logger.Logger) interfaces.ReviewService {
	return &Service{
		repository: repo,
		logger:     log,
	}
}

// ListReviews retrieves one page of the doctor's reviews: completed
// appointments carrying a positive rating, newest first, optionally
// filtered by patient name substring
func (s *Service) ListReviews(doctorID string, filters *types.ReviewFilters) (*types.ReviewPage, error) {
	if filters == nil {
		filters = &types.ReviewFilters{}
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}

	reviews, total, err := s.repository.ListReviews(doctorID, filters.Search, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}

	return &types.ReviewPage{
		Reviews:  reviews,
		Total:    total,
		Page:     page,
		PageSize: PageSize,
	}, nil
}

// ComputeAverageRating returns the doctor's mean rating with the star
// display derivation: full stars floor the mean, a half star is shown for
// any fractional remainder
func (s *Service) ComputeAverageRating(doctorID string) (*types.RatingSummary, error) {
	average, count, err := s.repository.GetRatingAggregate(doctorID)
	if err != nil {
		return nil, err
	}

	fullStars := int(math.Floor(average))
	return &types.RatingSummary{
		Average:   average,
		Count:     count,
		FullStars: fullStars,
		HalfStar:  average-float64(fullStars) > 0,
	}, nil
}
