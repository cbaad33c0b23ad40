package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
)

type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[uuid.UUID]*model.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{reviews: make(map[uuid.UUID]*model.Review)}
}

func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()
	stored := *review
	r.reviews[review.ID] = &stored
	return nil
}

func (r *ReviewRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Review
	for _, rev := range r.reviews {
		if rev.DoctorID != doctorID {
			continue
		}
		copied := *rev
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReviewRepository) Summary(ctx context.Context, doctorID uuid.UUID) (*model.ReviewSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := &model.ReviewSummary{
		DoctorID:     doctorID,
		RatingCounts: make(map[int]int),
	}

	total := 0
	for _, rev := range r.reviews {
		if rev.DoctorID != doctorID {
			continue
		}
		summary.TotalReviews++
		summary.RatingCounts[rev.Rating]++
		total += rev.Rating
	}

	if summary.TotalReviews > 0 {
		avg := float64(total) / float64(summary.TotalReviews)
		summary.AverageRating = math.Round(avg*10) / 10
	}
	return summary, nil
}
