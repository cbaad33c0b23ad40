package scheduling

import (
	"time"

	"github.com/medibook/booking-api/internal/model"
)

// DefaultSlotDuration applies when a window does not specify a slot count.
const DefaultSlotDuration = 30 * time.Minute

// Slot is a derived bookable interval. Slots are half-open [Start, End) and
// never persisted; they are recomputed from the window on demand.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseClock parses a wall-clock string like "09:30" into minutes since
// midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func onDate(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}

// DeriveSlots expands a schedule window onto a concrete date. Windows whose
// status is unavailable derive nothing, regardless of slot count. The result
// is deterministic: identical inputs always yield an identical sequence.
func DeriveSlots(w model.ScheduleWindow, date time.Time) []Slot {
	if w.Status != model.WindowStatusAvailable {
		return nil
	}
	return DeriveAll(w, date)
}

// DeriveAll expands a window regardless of its status. The booking engine
// uses it to tell an inactive window apart from a slot that was never
// offered.
//
// With a slot count, [start, end) is cut into that many equal whole-minute
// slots; a remainder that does not divide evenly is dropped. Without one,
// DefaultSlotDuration applies and a trailing partial slot is dropped. Both
// are deliberate policy, not errors.
func DeriveAll(w model.ScheduleWindow, date time.Time) []Slot {
	if !w.Day.Matches(date) {
		return nil
	}

	startMin, err := ParseClock(w.StartTime)
	if err != nil {
		return nil
	}
	endMin, err := ParseClock(w.EndTime)
	if err != nil || endMin <= startMin {
		return nil
	}

	if w.SlotCount != nil {
		count := *w.SlotCount
		if count <= 0 {
			return nil
		}
		length := (endMin - startMin) / count
		if length <= 0 {
			return nil
		}
		slots := make([]Slot, 0, count)
		for i := 0; i < count; i++ {
			s := startMin + i*length
			slots = append(slots, Slot{Start: onDate(date, s), End: onDate(date, s+length)})
		}
		return slots
	}

	length := int(DefaultSlotDuration / time.Minute)
	var slots []Slot
	for s := startMin; s+length <= endMin; s += length {
		slots = append(slots, Slot{Start: onDate(date, s), End: onDate(date, s+length)})
	}
	return slots
}

// Find returns the slot whose start matches the given instant exactly.
// A start that is not a derived boundary is not a slot, even if it falls
// inside the window.
func Find(slots []Slot, start time.Time) (Slot, bool) {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return s, true
		}
	}
	return Slot{}, false
}
