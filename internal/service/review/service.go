package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// Service is a read-side aggregate over ratings; the scheduling engine never
// writes here.
type Service struct {
	repo    repository.ReviewRepository
	doctors repository.DoctorRepository
}

func NewService(repo repository.ReviewRepository, doctors repository.DoctorRepository) *Service {
	return &Service{repo: repo, doctors: doctors}
}

func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.BadRequest("rating must be between 1 and 5", nil)
	}

	review := &model.Review{
		DoctorID:  doctorID,
		PatientID: req.PatientID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Review, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *Service) Summary(ctx context.Context, doctorID uuid.UUID) (*model.ReviewSummary, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, doctorID)
}
