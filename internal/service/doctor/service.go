package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

const (
	cacheTTL     = time.Minute
	cacheCleanup = 5 * time.Minute
)

// Service serves doctor profiles. The doctor row is briefly cached; the
// review and patient aggregates are recomputed per request so they never
// lag the ledger.
type Service struct {
	repo         repository.DoctorRepository
	patients     repository.PatientRepository
	reviews      repository.ReviewRepository
	appointments repository.AppointmentRepository
	cache        *cache.Cache
}

func NewService(
	repo repository.DoctorRepository,
	patients repository.PatientRepository,
	reviews repository.ReviewRepository,
	appointments repository.AppointmentRepository,
) *Service {
	return &Service{
		repo:         repo,
		patients:     patients,
		reviews:      reviews,
		appointments: appointments,
		cache:        cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) getDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		doctor := cached.(model.Doctor)
		return &doctor, nil
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id.String(), *doctor, cache.DefaultExpiration)
	return doctor, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	doctor, err := s.getDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	specialization := model.DefaultSpecialization
	if doctor.SpecializationID != nil {
		if spec, err := s.repo.GetSpecialization(ctx, *doctor.SpecializationID); err == nil {
			specialization = spec.Name
		}
	}

	summary, err := s.reviews.Summary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	totalPatients, err := s.appointments.CountDistinctPatients(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	return &model.DoctorProfile{
		Doctor:         *doctor,
		Specialization: specialization,
		AverageRating:  summary.AverageRating,
		TotalReviews:   summary.TotalReviews,
		RatingCounts:   summary.RatingCounts,
		TotalPatients:  totalPatients,
	}, nil
}

func (s *Service) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.HourlyRate != nil {
		doctor.HourlyRate = *req.HourlyRate
	}
	if req.SpecializationID != nil {
		if _, err := s.repo.GetSpecialization(ctx, *req.SpecializationID); err != nil {
			return nil, err
		}
		doctor.SpecializationID = req.SpecializationID
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}

	s.cache.Delete(id.String())
	return doctor, nil
}

// ListPatientsSeen returns the distinct patients the doctor has completed
// appointments with.
func (s *Service) ListPatientsSeen(ctx context.Context, doctorID uuid.UUID) ([]*model.Patient, error) {
	if _, err := s.repo.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.patients.ListSeenByDoctor(ctx, doctorID)
}

func (s *Service) ListSpecializations(ctx context.Context) ([]*model.Specialization, error) {
	return s.repo.ListSpecializations(ctx)
}
