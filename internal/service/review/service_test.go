package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

func newService(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()

	doctors := memory.NewDoctorRepository()
	doctor := &model.Doctor{Name: "Dr. Flynn", Email: "flynn@example.com"}
	require.NoError(t, doctors.Create(context.Background(), doctor))

	return NewService(memory.NewReviewRepository(), doctors), doctor.ID
}

func TestCreate(t *testing.T) {
	svc, doctorID := newService(t)

	review, err := svc.Create(context.Background(), doctorID, &model.CreateReviewRequest{
		PatientID: uuid.New(),
		Rating:    5,
		Comment:   "Very thorough.",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, review.ID)
	assert.Equal(t, doctorID, review.DoctorID)
}

func TestCreate_RatingBounds(t *testing.T) {
	svc, doctorID := newService(t)

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(context.Background(), doctorID, &model.CreateReviewRequest{
			PatientID: uuid.New(),
			Rating:    rating,
		})
		assert.Error(t, err, "rating %d", rating)
	}
}

func TestCreate_DoctorNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateReviewRequest{
		PatientID: uuid.New(),
		Rating:    4,
	})
	assert.ErrorIs(t, err, apperrors.ErrDoctorNotFound)
}

func TestSummary(t *testing.T) {
	svc, doctorID := newService(t)

	for _, rating := range []int{1, 3, 3, 5} {
		_, err := svc.Create(context.Background(), doctorID, &model.CreateReviewRequest{
			PatientID: uuid.New(),
			Rating:    rating,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background(), doctorID)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalReviews)
	assert.InDelta(t, 3.0, summary.AverageRating, 0.001)
	assert.Equal(t, map[int]int{1: 1, 3: 2, 5: 1}, summary.RatingCounts)

	reviews, err := svc.ListByDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Len(t, reviews, 4)
}
