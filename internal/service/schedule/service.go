package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/scheduling"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// Service owns schedule window definitions. Validation happens here, at
// write time, so the slot deriver can assume well-formed windows.
type Service struct {
	repo    repository.ScheduleRepository
	doctors repository.DoctorRepository
}

func NewService(repo repository.ScheduleRepository, doctors repository.DoctorRepository) *Service {
	return &Service{repo: repo, doctors: doctors}
}

func validateWindow(w *model.ScheduleWindow) error {
	if !w.Day.Valid() {
		return fmt.Errorf("%w: unknown day %q", apperrors.ErrInvalidWindow, w.Day)
	}
	if !w.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidWindow, w.Status)
	}

	start, err := scheduling.ParseClock(w.StartTime)
	if err != nil {
		return fmt.Errorf("%w: bad start time %q", apperrors.ErrInvalidWindow, w.StartTime)
	}
	end, err := scheduling.ParseClock(w.EndTime)
	if err != nil {
		return fmt.Errorf("%w: bad end time %q", apperrors.ErrInvalidWindow, w.EndTime)
	}
	if start >= end {
		return fmt.Errorf("%w: start must be before end", apperrors.ErrInvalidWindow)
	}

	if w.SlotCount != nil && *w.SlotCount <= 0 {
		return fmt.Errorf("%w: slot count must be positive", apperrors.ErrInvalidWindow)
	}

	return nil
}

func (s *Service) CreateWindow(ctx context.Context, doctorID uuid.UUID, req *model.CreateScheduleWindowRequest) (*model.ScheduleWindow, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	window := &model.ScheduleWindow{
		DoctorID:  doctorID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SlotCount: req.SlotCount,
		Status:    req.Status,
	}
	if window.Status == "" {
		window.Status = model.WindowStatusAvailable
	}

	if err := validateWindow(window); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, window); err != nil {
		return nil, fmt.Errorf("failed to create schedule window: %w", err)
	}
	return window, nil
}

func (s *Service) UpdateWindow(ctx context.Context, id uuid.UUID, req *model.UpdateScheduleWindowRequest) (*model.ScheduleWindow, error) {
	window, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Day != nil {
		window.Day = *req.Day
	}
	if req.StartTime != nil {
		window.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		window.EndTime = *req.EndTime
	}
	if req.SlotCount != nil {
		window.SlotCount = req.SlotCount
	}
	if req.Status != nil {
		window.Status = *req.Status
	}

	if err := validateWindow(window); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, window); err != nil {
		return nil, fmt.Errorf("failed to update schedule window: %w", err)
	}
	return window, nil
}

func (s *Service) GetWindow(ctx context.Context, id uuid.UUID) (*model.ScheduleWindow, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) DeleteWindow(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.ScheduleWindow, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}
