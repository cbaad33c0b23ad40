package model

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment,omitempty"`
}

type CreateReviewRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment" binding:"max=2000"`
}

// ReviewSummary is the read-side rating aggregate for a doctor.
type ReviewSummary struct {
	DoctorID      uuid.UUID   `json:"doctor_id"`
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	RatingCounts  map[int]int `json:"rating_breakdown"`
}
