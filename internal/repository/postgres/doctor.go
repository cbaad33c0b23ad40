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

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, name, email, phone, specialization_id,
			hourly_rate, bio, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.Phone,
		doctor.SpecializationID,
		doctor.HourlyRate,
		doctor.Bio,
		doctor.Status,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, email, phone, specialization_id,
			   hourly_rate, bio, status, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, phone = $2, specialization_id = $3,
			hourly_rate = $4, bio = $5, status = $6, updated_at = $7
		WHERE id = $8
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Phone,
		doctor.SpecializationID,
		doctor.HourlyRate,
		doctor.Bio,
		doctor.Status,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrDoctorNotFound
	}

	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Schedule windows cascade with the doctor; appointments stay for history.
	query := `
		DELETE FROM doctors
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrDoctorNotFound
	}

	return nil
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	query := `
		SELECT id, name, email, phone, specialization_id,
			   hourly_rate, bio, status, created_at, updated_at
		FROM doctors
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.SpecializationID != nil {
		query += fmt.Sprintf(" AND specialization_id = $%d", argCount)
		args = append(args, *filters.SpecializationID)
		argCount++
	}

	if filters != nil && filters.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argCount)
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}

	query += " ORDER BY name ASC"

	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) GetSpecialization(ctx context.Context, id uuid.UUID) (*model.Specialization, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM specializations
		WHERE id = $1
	`
	var spec model.Specialization
	err := r.db.GetContext(ctx, &spec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("specialization", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialization: %w", err)
	}
	return &spec, nil
}

func (r *doctorRepository) ListSpecializations(ctx context.Context) ([]*model.Specialization, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM specializations
		ORDER BY name ASC
	`
	var specs []*model.Specialization
	err := r.db.SelectContext(ctx, &specs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list specializations: %w", err)
	}
	return specs, nil
}
