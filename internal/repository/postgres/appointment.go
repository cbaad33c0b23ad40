package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/medibook/booking-api/internal/model"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// uniqueViolation is the postgres error code raised when the partial unique
// index on (doctor_id, visit_date, slot_start) rejects a second active
// booking for the same slot.
const uniqueViolation = "23505"

func (r *appointmentRepository) IsFree(ctx context.Context, doctorID uuid.UUID, date, slotStart time.Time) (bool, error) {
	query := `
		SELECT NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND visit_date = $2
			AND slot_start = $3
			AND status <> $4
		)
	`
	var free bool
	err := r.db.GetContext(ctx, &free, query, doctorID, date, slotStart, model.AppointmentStatusCancelled)
	if err != nil {
		return false, fmt.Errorf("failed to check slot occupancy: %w", err)
	}
	return free, nil
}

// Reserve commits an appointment for a slot. Conflict detection happens at
// commit time through the unique index, not a read-then-write check, so two
// concurrent reservations of the same slot resolve to exactly one winner.
func (r *appointmentRepository) Reserve(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, visit_date,
			slot_start, slot_end, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.VisitDate,
		appointment.SlotStart,
		appointment.SlotEnd,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.ErrAlreadyBooked
		}
		return fmt.Errorf("failed to reserve slot: %w", err)
	}
	return nil
}

// Release cancels the appointment, freeing the slot for rebooking. The row
// is kept so completed-visit history and review aggregates stay intact.
func (r *appointmentRepository) Release(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE appointments
		SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		model.AppointmentStatusCancelled,
		reason,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to release appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrAppointmentNotFound
	}

	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, visit_date,
			   slot_start, slot_end, status, notes, cancel_reason,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = $2, cancel_reason = $3, updated_at = $4
		WHERE id = $5
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Status,
		appointment.Notes,
		appointment.CancelReason,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrAppointmentNotFound
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, visit_date,
			   slot_start, slot_end, status, notes, cancel_reason,
			   created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.DoctorID != nil {
			query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
			args = append(args, *filters.DoctorID)
			argCount++
		}
		if filters.PatientID != nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, *filters.PatientID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.From.IsZero() {
			query += fmt.Sprintf(" AND visit_date >= $%d", argCount)
			args = append(args, filters.From)
			argCount++
		}
		if !filters.To.IsZero() {
			query += fmt.Sprintf(" AND visit_date <= $%d", argCount)
			args = append(args, filters.To)
			argCount++
		}
	}

	query += " ORDER BY slot_start ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, visit_date,
			   slot_start, slot_end, status, notes, cancel_reason,
			   created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1
		AND visit_date = $2
		AND status <> $3
		ORDER BY slot_start ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, doctorID, date, model.AppointmentStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for day: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(DISTINCT patient_id)
		FROM appointments
		WHERE doctor_id = $1
		AND status = $2
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, doctorID, model.AppointmentStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}
