package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// monday is a known Monday.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

type fixture struct {
	service      *Service
	doctors      *memory.DoctorRepository
	schedules    *memory.ScheduleRepository
	appointments *memory.AppointmentRepository
	doctorID     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doctors := memory.NewDoctorRepository()
	schedules := memory.NewScheduleRepository()
	appointments := memory.NewAppointmentRepository()

	doctor := &model.Doctor{Name: "Dr. Adams", Email: "adams@example.com"}
	require.NoError(t, doctors.Create(context.Background(), doctor))

	return &fixture{
		service:      NewService(appointments, schedules, doctors, nil, nil, nil, nil),
		doctors:      doctors,
		schedules:    schedules,
		appointments: appointments,
		doctorID:     doctor.ID,
	}
}

func (f *fixture) addWindow(t *testing.T, day model.Weekday, start, end string, count *int, status model.WindowStatus) {
	t.Helper()
	window := &model.ScheduleWindow{
		DoctorID:  f.doctorID,
		Day:       day,
		StartTime: start,
		EndTime:   end,
		SlotCount: count,
		Status:    status,
	}
	require.NoError(t, f.schedules.Create(context.Background(), window))
}

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 3, hour, min, 0, 0, time.UTC)
}

func TestBookSlot(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)

	appointment, err := f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 0), "first visit")
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, at(9, 0), appointment.SlotStart)
	assert.Equal(t, at(9, 30), appointment.SlotEnd)
	assert.Equal(t, "first visit", appointment.Notes)
	assert.NotEqual(t, uuid.Nil, appointment.ID)
}

func TestBookSlot_NotOffered(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)

	// 09:15 falls inside the window but is not a derived boundary.
	_, err := f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 15), "")
	assert.ErrorIs(t, err, apperrors.ErrSlotNotOffered)

	// Tuesday has no window at all.
	tuesday := monday.AddDate(0, 0, 1)
	_, err = f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), tuesday, at(9, 0).AddDate(0, 0, 1), "")
	assert.ErrorIs(t, err, apperrors.ErrSlotNotOffered)
}

func TestBookSlot_WindowInactive(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusUnavailable)

	_, err := f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 0), "")
	assert.ErrorIs(t, err, apperrors.ErrWindowInactive)
}

func TestBookSlot_DoctorNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.BookSlot(context.Background(), uuid.New(), uuid.New(), monday, at(9, 0), "")
	assert.ErrorIs(t, err, apperrors.ErrDoctorNotFound)
}

func TestBookSlot_AlreadyBooked(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)

	_, err := f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 0), "")
	require.NoError(t, err)

	_, err = f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 0), "")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyBooked)

	// The second half stays bookable.
	_, err = f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 30), "")
	assert.NoError(t, err)
}

func TestBookSlot_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 0), "")
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
	assert.Equal(t, 1, wins)
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)

	_, err := f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 0), "")
	require.NoError(t, err)

	days, err := f.service.GetAvailability(context.Background(), f.doctorID, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)

	// Only the Monday derives slots.
	require.Len(t, days, 1)
	assert.Equal(t, monday, days[0].Date)
	require.Len(t, days[0].Slots, 2)
	assert.False(t, days[0].Slots[0].IsFree)
	assert.True(t, days[0].Slots[1].IsFree)
}

func TestGetAvailability_CancelledSlotShowsFree(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)

	appointment, err := f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 0), "")
	require.NoError(t, err)

	_, err = f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusCancelled, "patient request")
	require.NoError(t, err)

	days, err := f.service.GetAvailability(context.Background(), f.doctorID, monday, monday)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.True(t, days[0].Slots[0].IsFree)
}

func TestGetAvailability_RangeValidation(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", nil, model.WindowStatusAvailable)

	_, err := f.service.GetAvailability(context.Background(), f.doctorID, monday, monday.AddDate(0, 0, -1))
	assert.Error(t, err)

	_, err = f.service.GetAvailability(context.Background(), f.doctorID, monday, monday.AddDate(0, 0, MaxRangeDays+1))
	assert.Error(t, err)

	_, err = f.service.GetAvailability(context.Background(), uuid.New(), monday, monday)
	assert.ErrorIs(t, err, apperrors.ErrDoctorNotFound)
}

func TestTransitionStatus(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)

	book := func() *model.Appointment {
		appointment, err := f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 0), "")
		require.NoError(t, err)
		return appointment
	}

	t.Run("pending to confirmed to completed", func(t *testing.T) {
		appointment := book()

		updated, err := f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusConfirmed, "")
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)

		updated, err = f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusCompleted, "")
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

		// Completed is terminal.
		_, err = f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusCancelled, "")
		assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)

		require.NoError(t, f.appointments.Release(context.Background(), appointment.ID, "cleanup"))
	})

	t.Run("pending cannot complete directly", func(t *testing.T) {
		appointment := book()

		_, err := f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusCompleted, "")
		assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)

		require.NoError(t, f.appointments.Release(context.Background(), appointment.ID, "cleanup"))
	})

	t.Run("cancellation records reason and is terminal", func(t *testing.T) {
		appointment := book()

		updated, err := f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusCancelled, "double booked")
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
		require.NotNil(t, updated.CancelReason)
		assert.Equal(t, "double booked", *updated.CancelReason)

		_, err = f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusConfirmed, "")
		assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		appointment := book()

		_, err := f.service.TransitionStatus(context.Background(), appointment.ID, "rescheduled", "")
		assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)

		require.NoError(t, f.appointments.Release(context.Background(), appointment.ID, "cleanup"))
	})

	t.Run("missing appointment", func(t *testing.T) {
		_, err := f.service.TransitionStatus(context.Background(), uuid.New(), model.AppointmentStatusConfirmed, "")
		assert.ErrorIs(t, err, apperrors.ErrAppointmentNotFound)
	})
}

func TestTotalPatients(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, model.Monday, "08:00", "12:00", intPtr(8), model.WindowStatusAvailable)

	patientID := uuid.New()
	completeAt := func(pid uuid.UUID, slotStart time.Time) {
		appointment, err := f.service.BookSlot(context.Background(), f.doctorID, pid, monday, slotStart, "")
		require.NoError(t, err)
		_, err = f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusConfirmed, "")
		require.NoError(t, err)
		_, err = f.service.TransitionStatus(context.Background(), appointment.ID, model.AppointmentStatusCompleted, "")
		require.NoError(t, err)
	}

	completeAt(patientID, at(8, 0))
	completeAt(patientID, at(8, 30))
	completeAt(uuid.New(), at(9, 0))

	// A pending visit does not count.
	_, err := f.service.BookSlot(context.Background(), f.doctorID, uuid.New(), monday, at(9, 30), "")
	require.NoError(t, err)

	count, err := f.service.TotalPatients(context.Background(), f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.service.TotalPatients(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrDoctorNotFound)
}
