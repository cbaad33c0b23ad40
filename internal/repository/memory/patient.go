package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// PatientRepository keeps patients in memory. ListSeenByDoctor consults the
// appointment ledger it was built with.
type PatientRepository struct {
	mu           sync.RWMutex
	patients     map[uuid.UUID]*model.Patient
	appointments *AppointmentRepository
}

func NewPatientRepository(appointments *AppointmentRepository) *PatientRepository {
	return &PatientRepository{
		patients:     make(map[uuid.UUID]*model.Patient),
		appointments: appointments,
	}
}

func (r *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *PatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	out := *stored
	return &out, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[patient.ID]; !ok {
		return apperrors.NotFound("patient", nil)
	}
	patient.UpdatedAt = time.Now()
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return apperrors.NotFound("patient", nil)
	}
	delete(r.patients, id)
	return nil
}

func (r *PatientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Patient
	for _, p := range r.patients {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PatientRepository) ListSeenByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Patient, error) {
	if r.appointments == nil {
		return nil, nil
	}

	appointments, err := r.appointments.List(ctx, &model.AppointmentFilters{
		DoctorID: &doctorID,
		Status:   model.AppointmentStatusCompleted,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(appointments))
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Patient
	for _, a := range appointments {
		if _, dup := seen[a.PatientID]; dup {
			continue
		}
		seen[a.PatientID] = struct{}{}
		if p, ok := r.patients[a.PatientID]; ok {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
