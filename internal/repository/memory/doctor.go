package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

type DoctorRepository struct {
	mu              sync.RWMutex
	doctors         map[uuid.UUID]*model.Doctor
	specializations map[uuid.UUID]*model.Specialization
}

func NewDoctorRepository() *DoctorRepository {
	return &DoctorRepository{
		doctors:         make(map[uuid.UUID]*model.Doctor),
		specializations: make(map[uuid.UUID]*model.Specialization),
	}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *DoctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.ErrDoctorNotFound
	}
	out := *stored
	return &out, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[doctor.ID]; !ok {
		return apperrors.ErrDoctorNotFound
	}
	doctor.UpdatedAt = time.Now()
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return apperrors.ErrDoctorNotFound
	}
	delete(r.doctors, id)
	return nil
}

func (r *DoctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Doctor
	for _, d := range r.doctors {
		if filters != nil {
			if filters.SpecializationID != nil {
				if d.SpecializationID == nil || *d.SpecializationID != *filters.SpecializationID {
					continue
				}
			}
			if filters.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filters.Search)) {
				continue
			}
		}
		copied := *d
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *DoctorRepository) AddSpecialization(spec *model.Specialization) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if spec.ID == uuid.Nil {
		spec.ID = uuid.New()
	}
	stored := *spec
	r.specializations[spec.ID] = &stored
}

func (r *DoctorRepository) GetSpecialization(ctx context.Context, id uuid.UUID) (*model.Specialization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.specializations[id]
	if !ok {
		return nil, apperrors.NotFound("specialization", nil)
	}
	out := *stored
	return &out, nil
}

func (r *DoctorRepository) ListSpecializations(ctx context.Context) ([]*model.Specialization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Specialization
	for _, s := range r.specializations {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
