package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

func newAppointment(doctorID uuid.UUID, slotStart time.Time) *model.Appointment {
	return &model.Appointment{
		DoctorID:  doctorID,
		PatientID: uuid.New(),
		VisitDate: time.Date(slotStart.Year(), slotStart.Month(), slotStart.Day(), 0, 0, 0, 0, slotStart.Location()),
		SlotStart: slotStart,
		SlotEnd:   slotStart.Add(30 * time.Minute),
		Status:    model.AppointmentStatusPending,
	}
}

func TestReserve_ConcurrentSingleWinner(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	slotStart := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	const attempts = 50
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Reserve(context.Background(), newAppointment(doctorID, slotStart))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrAlreadyBooked)
		}
	}
	assert.Equal(t, 1, wins, "exactly one reservation must win")
}

func TestReserve_DifferentSlotsDoNotConflict(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Reserve(context.Background(), newAppointment(doctorID, base)))
	require.NoError(t, repo.Reserve(context.Background(), newAppointment(doctorID, base.Add(30*time.Minute))))

	// Same slot, different doctor.
	require.NoError(t, repo.Reserve(context.Background(), newAppointment(uuid.New(), base)))
}

func TestReserve_CancelledSlotIsRebookable(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	slotStart := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	first := newAppointment(doctorID, slotStart)
	require.NoError(t, repo.Reserve(context.Background(), first))

	require.ErrorIs(t, repo.Reserve(context.Background(), newAppointment(doctorID, slotStart)), apperrors.ErrAlreadyBooked)

	first.Status = model.AppointmentStatusCancelled
	require.NoError(t, repo.Update(context.Background(), first))

	// The cancelled row stays but no longer blocks the slot.
	assert.NoError(t, repo.Reserve(context.Background(), newAppointment(doctorID, slotStart)))

	kept, err := repo.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, kept.Status)
}

func TestRelease_FreesSlotAndKeepsRow(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	slotStart := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	appointment := newAppointment(doctorID, slotStart)
	require.NoError(t, repo.Reserve(context.Background(), appointment))
	require.NoError(t, repo.Release(context.Background(), appointment.ID, "patient request"))

	free, err := repo.IsFree(context.Background(), doctorID, appointment.VisitDate, slotStart)
	require.NoError(t, err)
	assert.True(t, free)

	kept, err := repo.Get(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, kept.Status)
	require.NotNil(t, kept.CancelReason)
	assert.Equal(t, "patient request", *kept.CancelReason)
}

func TestCountDistinctPatients(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	patientID := uuid.New()
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	complete := func(a *model.Appointment) {
		require.NoError(t, repo.Reserve(context.Background(), a))
		a.Status = model.AppointmentStatusCompleted
		require.NoError(t, repo.Update(context.Background(), a))
	}

	// Same patient completed twice counts once.
	first := newAppointment(doctorID, base)
	first.PatientID = patientID
	complete(first)

	second := newAppointment(doctorID, base.Add(30*time.Minute))
	second.PatientID = patientID
	complete(second)

	complete(newAppointment(doctorID, base.Add(time.Hour)))

	// Pending appointments do not count.
	require.NoError(t, repo.Reserve(context.Background(), newAppointment(doctorID, base.Add(2*time.Hour))))

	count, err := repo.CountDistinctPatients(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestListForDay_ExcludesCancelled(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	kept := newAppointment(doctorID, base)
	require.NoError(t, repo.Reserve(context.Background(), kept))

	cancelled := newAppointment(doctorID, base.Add(30*time.Minute))
	require.NoError(t, repo.Reserve(context.Background(), cancelled))
	require.NoError(t, repo.Release(context.Background(), cancelled.ID, "no show"))

	appointments, err := repo.ListForDay(context.Background(), doctorID, base)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, kept.ID, appointments[0].ID)
}
