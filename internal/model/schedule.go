package model

import (
	"time"

	"github.com/google/uuid"
)

type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

var weekdays = map[Weekday]time.Weekday{
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
}

// Valid reports whether the day is one of the seven canonical names.
func (d Weekday) Valid() bool {
	_, ok := weekdays[d]
	return ok
}

// Matches reports whether a calendar date falls on this weekday.
func (d Weekday) Matches(date time.Time) bool {
	wd, ok := weekdays[d]
	return ok && date.Weekday() == wd
}

type WindowStatus string

const (
	WindowStatusAvailable   WindowStatus = "available"
	WindowStatusUnavailable WindowStatus = "unavailable"
)

func (s WindowStatus) Valid() bool {
	return s == WindowStatusAvailable || s == WindowStatusUnavailable
}

// ScheduleWindow is a doctor's recurring weekly availability block.
// StartTime and EndTime are wall-clock strings in "15:04" format; they are
// validated at write time and expanded onto concrete dates by the slot deriver.
type ScheduleWindow struct {
	Base
	DoctorID  uuid.UUID    `db:"doctor_id" json:"doctor_id"`
	Day       Weekday      `db:"day" json:"day"`
	StartTime string       `db:"start_time" json:"start_time"`
	EndTime   string       `db:"end_time" json:"end_time"`
	SlotCount *int         `db:"slot_count" json:"slot_count,omitempty"`
	Status    WindowStatus `db:"status" json:"status"`
}

type CreateScheduleWindowRequest struct {
	Day       Weekday      `json:"day" binding:"required"`
	StartTime string       `json:"start_time" binding:"required,clock"`
	EndTime   string       `json:"end_time" binding:"required,clock"`
	SlotCount *int         `json:"slot_count"`
	Status    WindowStatus `json:"status"`
}

type UpdateScheduleWindowRequest struct {
	Day       *Weekday      `json:"day"`
	StartTime *string       `json:"start_time" binding:"omitempty,clock"`
	EndTime   *string       `json:"end_time" binding:"omitempty,clock"`
	SlotCount *int          `json:"slot_count"`
	Status    *WindowStatus `json:"status"`
}
