package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/email"
	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/scheduling"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/metrics"
)

// MaxRangeDays bounds a single availability query.
const MaxRangeDays = 31

// transitions is the appointment state machine. Completed and cancelled are
// terminal: they appear in no transition list.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:   {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled},
}

// Service is the scheduling engine: it derives bookable slots from schedule
// windows, annotates them with ledger occupancy, and arbitrates reservations.
type Service struct {
	appointments repository.AppointmentRepository
	schedules    repository.ScheduleRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	outbox       repository.OutboxRepository
	mailer       email.Service
	metrics      *metrics.Metrics
}

func NewService(
	appointments repository.AppointmentRepository,
	schedules repository.ScheduleRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	outbox repository.OutboxRepository,
	mailer email.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments: appointments,
		schedules:    schedules,
		doctors:      doctors,
		patients:     patients,
		outbox:       outbox,
		mailer:       mailer,
		metrics:      m,
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GetAvailability derives the bookable calendar for a doctor over a date
// range. Reads take no locks; a slot may flip to booked between derivation
// and annotation, which callers must tolerate.
func (s *Service) GetAvailability(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]model.DayAvailability, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	from, to = midnight(from), midnight(to)
	if to.Before(from) {
		return nil, apperrors.BadRequest("date range end before start", nil)
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return nil, apperrors.BadRequest(fmt.Sprintf("date range exceeds %d days", MaxRangeDays), nil)
	}

	windows, err := s.schedules.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule windows: %w", err)
	}

	var days []model.DayAvailability
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		var slots []scheduling.Slot
		for _, w := range windows {
			slots = append(slots, scheduling.DeriveSlots(*w, date)...)
		}
		if len(slots) == 0 {
			continue
		}

		booked, err := s.bookedStarts(ctx, doctorID, date)
		if err != nil {
			return nil, err
		}

		views := make([]model.SlotView, 0, len(slots))
		for _, slot := range slots {
			_, taken := booked[slot.Start.Unix()]
			views = append(views, model.SlotView{Start: slot.Start, End: slot.End, IsFree: !taken})
		}
		days = append(days, model.DayAvailability{Date: date, Slots: views})
	}

	return days, nil
}

func (s *Service) bookedStarts(ctx context.Context, doctorID uuid.UUID, date time.Time) (map[int64]struct{}, error) {
	appointments, err := s.appointments.ListForDay(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	booked := make(map[int64]struct{}, len(appointments))
	for _, a := range appointments {
		booked[a.SlotStart.Unix()] = struct{}{}
	}
	return booked, nil
}

// BookSlot re-derives the doctor's slots for the date and verifies the
// requested start is one of them before touching the ledger; a client-sent
// boundary is never trusted and never coerced to a nearby slot. The ledger
// insert is the only write: the call either creates a consistent appointment
// or has no effect.
func (s *Service) BookSlot(ctx context.Context, doctorID, patientID uuid.UUID, date, slotStart time.Time, notes string) (*model.Appointment, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	windows, err := s.schedules.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule windows: %w", err)
	}

	date = midnight(date)
	var offered []scheduling.Slot
	inactiveHit := false
	for _, w := range windows {
		all := scheduling.DeriveAll(*w, date)
		if len(all) == 0 {
			continue
		}
		if w.Status != model.WindowStatusAvailable {
			if _, ok := scheduling.Find(all, slotStart); ok {
				inactiveHit = true
			}
			continue
		}
		offered = append(offered, all...)
	}

	slot, ok := scheduling.Find(offered, slotStart)
	if !ok {
		if inactiveHit {
			return nil, apperrors.ErrWindowInactive
		}
		return nil, apperrors.ErrSlotNotOffered
	}

	appointment := &model.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		VisitDate: date,
		SlotStart: slot.Start,
		SlotEnd:   slot.End,
		Status:    model.AppointmentStatusPending,
		Notes:     notes,
	}

	if err := s.appointments.Reserve(ctx, appointment); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyBooked) {
			s.countBooking("conflict")
		} else {
			s.countBooking("error")
		}
		return nil, err
	}
	s.countBooking("success")

	s.emitEvent(ctx, model.EventAppointmentBooked, appointment)
	s.notify(ctx, model.EventAppointmentBooked, appointment)

	return appointment, nil
}

// TransitionStatus advances an appointment through the state machine.
// Completed and cancelled appointments never transition again.
func (s *Service) TransitionStatus(ctx context.Context, id uuid.UUID, newStatus model.AppointmentStatus, reason string) (*model.Appointment, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrIllegalTransition, newStatus)
	}

	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !allowed(appointment.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrIllegalTransition, appointment.Status, newStatus)
	}

	appointment.Status = newStatus
	if newStatus == model.AppointmentStatusCancelled {
		appointment.CancelReason = &reason
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, err
	}

	event := eventForStatus(newStatus)
	s.emitEvent(ctx, event, appointment)
	if newStatus == model.AppointmentStatusCancelled {
		s.notify(ctx, event, appointment)
	}

	return appointment, nil
}

func (s *Service) countBooking(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	if outcome == "conflict" {
		s.metrics.BookingConflicts.Inc()
	}
}

func allowed(from, to model.AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func eventForStatus(status model.AppointmentStatus) string {
	switch status {
	case model.AppointmentStatusConfirmed:
		return model.EventAppointmentConfirmed
	case model.AppointmentStatusCompleted:
		return model.EventAppointmentCompleted
	case model.AppointmentStatusCancelled:
		return model.EventAppointmentCancelled
	default:
		return model.EventAppointmentBooked
	}
}

// TotalPatients counts distinct patients with a completed appointment.
// Recomputed on every call so it can never lag the ledger.
func (s *Service) TotalPatients(ctx context.Context, doctorID uuid.UUID) (int, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return 0, err
	}
	return s.appointments.CountDistinctPatients(ctx, doctorID)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, filters)
}

func (s *Service) emitEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(appointment)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal booking event")
		return
	}

	event := &model.OutboxEvent{EventType: eventType, Payload: payload}
	if err := s.outbox.Create(ctx, event); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to write booking event")
	}
}

func (s *Service) notify(ctx context.Context, eventType string, appointment *model.Appointment) {
	if s.mailer == nil || s.patients == nil {
		return
	}

	patient, err := s.patients.Get(ctx, appointment.PatientID)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", appointment.ID.String()).Msg("skipping notification")
		return
	}
	doctor, err := s.doctors.Get(ctx, appointment.DoctorID)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", appointment.ID.String()).Msg("skipping notification")
		return
	}

	switch eventType {
	case model.EventAppointmentCancelled:
		err = s.mailer.SendCancellation(ctx, patient.Email, doctor.Name, appointment)
	default:
		err = s.mailer.SendBookingConfirmation(ctx, patient.Email, doctor.Name, appointment)
	}
	if err != nil {
		log.Error().Err(err).Str("appointment_id", appointment.ID.String()).Msg("failed to send notification")
	}
}
