package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

func (r *scheduleRepository) Create(ctx context.Context, window *model.ScheduleWindow) error {
	query := `
		INSERT INTO schedule_windows (
			id, doctor_id, day, start_time, end_time,
			slot_count, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	window.ID = uuid.New()
	window.CreatedAt = time.Now()
	window.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		window.ID,
		window.DoctorID,
		window.Day,
		window.StartTime,
		window.EndTime,
		window.SlotCount,
		window.Status,
		window.CreatedAt,
		window.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule window: %w", err)
	}
	return nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.ScheduleWindow, error) {
	query := `
		SELECT id, doctor_id, day, start_time, end_time,
			   slot_count, status, created_at, updated_at
		FROM schedule_windows
		WHERE id = $1
	`
	var window model.ScheduleWindow
	err := r.db.GetContext(ctx, &window, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("schedule window", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule window: %w", err)
	}
	return &window, nil
}

func (r *scheduleRepository) Update(ctx context.Context, window *model.ScheduleWindow) error {
	query := `
		UPDATE schedule_windows
		SET day = $1, start_time = $2, end_time = $3,
			slot_count = $4, status = $5, updated_at = $6
		WHERE id = $7
	`
	window.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		window.Day,
		window.StartTime,
		window.EndTime,
		window.SlotCount,
		window.Status,
		window.UpdatedAt,
		window.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule window: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("schedule window", nil)
	}

	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM schedule_windows
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule window: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("schedule window", nil)
	}

	return nil
}

func (r *scheduleRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.ScheduleWindow, error) {
	query := `
		SELECT id, doctor_id, day, start_time, end_time,
			   slot_count, status, created_at, updated_at
		FROM schedule_windows
		WHERE doctor_id = $1
		ORDER BY day, start_time ASC
	`
	var windows []*model.ScheduleWindow
	err := r.db.SelectContext(ctx, &windows, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule windows: %w", err)
	}
	return windows, nil
}
