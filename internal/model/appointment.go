package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is legal from this status.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// Appointment is a committed reservation of one derived slot. Rows are never
// deleted; cancellation only flips the status so history stays intact.
type Appointment struct {
	Base
	DoctorID     uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	VisitDate    time.Time         `db:"visit_date" json:"visit_date"`
	SlotStart    time.Time         `db:"slot_start" json:"slot_start"`
	SlotEnd      time.Time         `db:"slot_end" json:"slot_end"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type BookSlotRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	SlotStart string    `json:"slot_start" binding:"required,clock"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type TransitionStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
	Reason string            `json:"reason"`
}

type AppointmentFilters struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    AppointmentStatus
	From      time.Time
	To        time.Time
}

// SlotView annotates one derived slot with ledger occupancy.
type SlotView struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	IsFree bool      `json:"is_free"`
}

// DayAvailability is the bookable calendar for one date.
type DayAvailability struct {
	Date  time.Time  `json:"date"`
	Slots []SlotView `json:"slots"`
}
