package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error)
		GetSpecialization(ctx context.Context, id uuid.UUID) (*model.Specialization, error)
		ListSpecializations(ctx context.Context) ([]*model.Specialization, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
		ListSeenByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Patient, error)
	}

	ScheduleRepository interface {
		Create(ctx context.Context, window *model.ScheduleWindow) error
		Get(ctx context.Context, id uuid.UUID) (*model.ScheduleWindow, error)
		Update(ctx context.Context, window *model.ScheduleWindow) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.ScheduleWindow, error)
	}

	// ReservationLedger is the authoritative record of slot occupancy.
	// Reserve must be atomic per (doctor, date, slot start): under
	// concurrent callers exactly one wins, the rest get ErrAlreadyBooked.
	ReservationLedger interface {
		IsFree(ctx context.Context, doctorID uuid.UUID, date, slotStart time.Time) (bool, error)
		Reserve(ctx context.Context, appointment *model.Appointment) error
		Release(ctx context.Context, id uuid.UUID, reason string) error
	}

	AppointmentRepository interface {
		ReservationLedger
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error)
		CountDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error)
	}

	ReviewRepository interface {
		Create(ctx context.Context, review *model.Review) error
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Review, error)
		Summary(ctx context.Context, doctorID uuid.UUID) (*model.ReviewSummary, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
