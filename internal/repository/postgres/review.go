package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
)

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, doctor_id, patient_id, rating, comment, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.DoctorID,
		review.PatientID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Review, error) {
	query := `
		SELECT id, doctor_id, patient_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE doctor_id = $1
		ORDER BY created_at DESC
	`
	var reviews []*model.Review
	err := r.db.SelectContext(ctx, &reviews, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Summary(ctx context.Context, doctorID uuid.UUID) (*model.ReviewSummary, error) {
	query := `
		SELECT rating, COUNT(*) AS total
		FROM reviews
		WHERE doctor_id = $1
		GROUP BY rating
	`
	rows, err := r.db.QueryxContext(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	defer rows.Close()

	summary := &model.ReviewSummary{
		DoctorID:     doctorID,
		RatingCounts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	sum := 0
	for rows.Next() {
		var rating, total int
		if err := rows.Scan(&rating, &total); err != nil {
			return nil, fmt.Errorf("failed to scan review aggregate: %w", err)
		}
		summary.RatingCounts[rating] = total
		summary.TotalReviews += total
		sum += rating * total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review aggregate: %w", err)
	}

	if summary.TotalReviews > 0 {
		avg := float64(sum) / float64(summary.TotalReviews)
		summary.AverageRating = math.Round(avg*10) / 10
	}

	return summary, nil
}
