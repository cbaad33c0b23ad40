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

type ScheduleRepository struct {
	mu      sync.RWMutex
	windows map[uuid.UUID]*model.ScheduleWindow
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{windows: make(map[uuid.UUID]*model.ScheduleWindow)}
}

func (r *ScheduleRepository) Create(ctx context.Context, window *model.ScheduleWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	window.ID = uuid.New()
	window.CreatedAt = time.Now()
	window.UpdatedAt = time.Now()
	stored := *window
	r.windows[window.ID] = &stored
	return nil
}

func (r *ScheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.ScheduleWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.windows[id]
	if !ok {
		return nil, apperrors.NotFound("schedule window", nil)
	}
	out := *stored
	return &out, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, window *model.ScheduleWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[window.ID]; !ok {
		return apperrors.NotFound("schedule window", nil)
	}
	window.UpdatedAt = time.Now()
	stored := *window
	r.windows[window.ID] = &stored
	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[id]; !ok {
		return apperrors.NotFound("schedule window", nil)
	}
	delete(r.windows, id)
	return nil
}

func (r *ScheduleRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.ScheduleWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.ScheduleWindow
	for _, w := range r.windows {
		if w.DoctorID != doctorID {
			continue
		}
		copied := *w
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}
