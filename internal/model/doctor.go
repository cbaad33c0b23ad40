package model

import (
	"github.com/google/uuid"
)

// DefaultSpecialization is reported when a doctor has no specialization assigned.
const DefaultSpecialization = "General"

type Doctor struct {
	Base
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	Phone            string     `db:"phone" json:"phone,omitempty"`
	SpecializationID *uuid.UUID `db:"specialization_id" json:"specialization_id,omitempty"`
	HourlyRate       float64    `db:"hourly_rate" json:"hourly_rate"`
	Bio              string     `db:"bio" json:"bio,omitempty"`
	Status           string     `db:"status" json:"status"`
}

type Specialization struct {
	Base
	Name string `db:"name" json:"name"`
}

// DoctorProfile is the read model served on the doctor detail view.
type DoctorProfile struct {
	Doctor
	Specialization string      `json:"specialization"`
	AverageRating  float64     `json:"average_rating"`
	TotalReviews   int         `json:"total_reviews"`
	RatingCounts   map[int]int `json:"rating_breakdown"`
	TotalPatients  int         `json:"total_patients"`
}

type UpdateDoctorRequest struct {
	Name             *string    `json:"name"`
	Phone            *string    `json:"phone"`
	Bio              *string    `json:"bio" binding:"omitempty,max=2000"`
	HourlyRate       *float64   `json:"hourly_rate" binding:"omitempty,gte=0"`
	SpecializationID *uuid.UUID `json:"specialization_id"`
}

type DoctorFilters struct {
	SpecializationID *uuid.UUID
	Search           string
}
