package errors

// Scheduling error taxonomy. Handlers map these through StatusCode: caller
// mistakes are 400s, unknown references 404s, booking races 409s.
var (
	// ErrInvalidWindow rejects a schedule window whose definition is
	// malformed (start >= end, bad day name, non-positive slot count).
	ErrInvalidWindow = &AppError{Code: ErrBadRequest, Message: "invalid schedule window"}

	// ErrDoctorNotFound is returned for an unknown doctor id.
	ErrDoctorNotFound = &AppError{Code: ErrNotFound, Message: "doctor not found"}

	// ErrAppointmentNotFound is returned for an unknown appointment id.
	ErrAppointmentNotFound = &AppError{Code: ErrNotFound, Message: "appointment not found"}

	// ErrWindowInactive rejects a booking against a window whose status is
	// unavailable.
	ErrWindowInactive = &AppError{Code: ErrNotFound, Message: "schedule window is unavailable"}

	// ErrSlotNotOffered rejects a slot boundary the deriver never produced.
	// The requested start is never coerced to the nearest valid slot.
	ErrSlotNotOffered = &AppError{Code: ErrBadRequest, Message: "requested slot is not offered"}

	// ErrAlreadyBooked is the losing outcome of a booking race. The caller
	// must re-query availability and pick another slot.
	ErrAlreadyBooked = &AppError{Code: ErrConflict, Message: "slot already booked"}

	// ErrIllegalTransition rejects an appointment status change the state
	// machine does not allow.
	ErrIllegalTransition = &AppError{Code: ErrBadRequest, Message: "illegal status transition"}
)
