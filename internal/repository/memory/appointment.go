package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// AppointmentRepository is an in-process reservation ledger. A single mutex
// guards the slot map, so Reserve is serialized per process: the first caller
// for a (doctor, date, slot start) key wins, later ones get ErrAlreadyBooked.
type AppointmentRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
	active       map[string]uuid.UUID
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{
		appointments: make(map[uuid.UUID]*model.Appointment),
		active:       make(map[string]uuid.UUID),
	}
}

func slotKey(doctorID uuid.UUID, date, slotStart time.Time) string {
	return fmt.Sprintf("%s|%s|%d", doctorID, date.Format("2006-01-02"), slotStart.Unix())
}

func (r *AppointmentRepository) IsFree(ctx context.Context, doctorID uuid.UUID, date, slotStart time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, taken := r.active[slotKey(doctorID, date, slotStart)]
	return !taken, nil
}

func (r *AppointmentRepository) Reserve(ctx context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(appointment.DoctorID, appointment.VisitDate, appointment.SlotStart)
	if _, taken := r.active[key]; taken {
		return apperrors.ErrAlreadyBooked
	}

	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	stored := *appointment
	r.appointments[appointment.ID] = &stored
	r.active[key] = appointment.ID
	return nil
}

func (r *AppointmentRepository) Release(ctx context.Context, id uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[id]
	if !ok {
		return apperrors.ErrAppointmentNotFound
	}

	stored.Status = model.AppointmentStatusCancelled
	stored.CancelReason = &reason
	stored.UpdatedAt = time.Now()
	delete(r.active, slotKey(stored.DoctorID, stored.VisitDate, stored.SlotStart))
	return nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.ErrAppointmentNotFound
	}
	out := *stored
	return &out, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[appointment.ID]
	if !ok {
		return apperrors.ErrAppointmentNotFound
	}

	// A cancellation frees the slot for rebooking; the row stays.
	if appointment.Status == model.AppointmentStatusCancelled && stored.Status != model.AppointmentStatusCancelled {
		delete(r.active, slotKey(stored.DoctorID, stored.VisitDate, stored.SlotStart))
	}

	appointment.UpdatedAt = time.Now()
	updated := *appointment
	r.appointments[appointment.ID] = &updated
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, a := range r.appointments {
		if filters != nil {
			if filters.DoctorID != nil && a.DoctorID != *filters.DoctorID {
				continue
			}
			if filters.PatientID != nil && a.PatientID != *filters.PatientID {
				continue
			}
			if filters.Status != "" && a.Status != filters.Status {
				continue
			}
			if !filters.From.IsZero() && a.VisitDate.Before(filters.From) {
				continue
			}
			if !filters.To.IsZero() && a.VisitDate.After(filters.To) {
				continue
			}
		}
		copied := *a
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SlotStart.Before(out[j].SlotStart) })
	return out, nil
}

func (r *AppointmentRepository) ListForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	y, m, d := date.Date()
	var out []*model.Appointment
	for _, a := range r.appointments {
		ay, am, ad := a.VisitDate.Date()
		if a.DoctorID != doctorID || ay != y || am != m || ad != d {
			continue
		}
		if a.Status == model.AppointmentStatusCancelled {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SlotStart.Before(out[j].SlotStart) })
	return out, nil
}

func (r *AppointmentRepository) CountDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uuid.UUID]struct{})
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Status == model.AppointmentStatusCompleted {
			seen[a.PatientID] = struct{}{}
		}
	}
	return len(seen), nil
}
