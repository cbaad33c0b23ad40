package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
)

// monday is a known Monday used across derivation tests.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

func window(day model.Weekday, start, end string, count *int, status model.WindowStatus) model.ScheduleWindow {
	return model.ScheduleWindow{
		Day:       day,
		StartTime: start,
		EndTime:   end,
		SlotCount: count,
		Status:    status,
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.minutes, got, "input %q", tt.input)
	}
}

func TestDeriveSlots_SlotCount(t *testing.T) {
	// 09:00-10:00 split into 2 gives two 30-minute slots.
	w := window(model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)
	slots := DeriveSlots(w, monday)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC), slots[0].End)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC), slots[1].Start)
	assert.Equal(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), slots[1].End)
}

func TestDeriveSlots_SlotCountRemainderDropped(t *testing.T) {
	// 50 minutes into 3 slots leaves 16-minute slots and drops 2 minutes.
	w := window(model.Monday, "09:00", "09:50", intPtr(3), model.WindowStatusAvailable)
	slots := DeriveSlots(w, monday)

	require.Len(t, slots, 3)
	for i, s := range slots {
		assert.Equal(t, 16*time.Minute, s.End.Sub(s.Start), "slot %d", i)
	}
	assert.Equal(t, time.Date(2025, 3, 3, 9, 48, 0, 0, time.UTC), slots[2].End)
}

func TestDeriveSlots_DefaultDuration(t *testing.T) {
	// Without a count, 30-minute slots fill the window and the trailing
	// partial is dropped.
	w := window(model.Monday, "09:00", "10:15", nil, model.WindowStatusAvailable)
	slots := DeriveSlots(w, monday)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC), slots[1].Start)
	assert.Equal(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), slots[1].End)
}

func TestDeriveSlots_Empty(t *testing.T) {
	tests := []struct {
		name string
		w    model.ScheduleWindow
		date time.Time
	}{
		{
			name: "weekday mismatch",
			w:    window(model.Tuesday, "09:00", "10:00", nil, model.WindowStatusAvailable),
			date: monday,
		},
		{
			name: "unavailable window",
			w:    window(model.Monday, "09:00", "10:00", nil, model.WindowStatusUnavailable),
			date: monday,
		},
		{
			name: "end before start",
			w:    window(model.Monday, "10:00", "09:00", nil, model.WindowStatusAvailable),
			date: monday,
		},
		{
			name: "zero-length window",
			w:    window(model.Monday, "09:00", "09:00", nil, model.WindowStatusAvailable),
			date: monday,
		},
		{
			name: "window shorter than default slot",
			w:    window(model.Monday, "09:00", "09:20", nil, model.WindowStatusAvailable),
			date: monday,
		},
		{
			name: "non-positive slot count",
			w:    window(model.Monday, "09:00", "10:00", intPtr(0), model.WindowStatusAvailable),
			date: monday,
		},
		{
			name: "count exceeds window minutes",
			w:    window(model.Monday, "09:00", "09:10", intPtr(20), model.WindowStatusAvailable),
			date: monday,
		},
		{
			name: "malformed start time",
			w:    window(model.Monday, "nine", "10:00", nil, model.WindowStatusAvailable),
			date: monday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, DeriveSlots(tt.w, tt.date))
		})
	}
}

func TestDeriveAll_IgnoresStatus(t *testing.T) {
	w := window(model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusUnavailable)

	assert.Empty(t, DeriveSlots(w, monday))
	assert.Len(t, DeriveAll(w, monday), 2)
}

func TestDeriveSlots_Deterministic(t *testing.T) {
	w := window(model.Monday, "08:00", "12:00", intPtr(6), model.WindowStatusAvailable)

	first := DeriveSlots(w, monday)
	second := DeriveSlots(w, monday)
	assert.Equal(t, first, second)
}

func TestDeriveSlots_NoOverlap(t *testing.T) {
	w := window(model.Monday, "08:00", "12:00", intPtr(7), model.WindowStatusAvailable)
	slots := DeriveSlots(w, monday)

	require.NotEmpty(t, slots)
	for i := 1; i < len(slots); i++ {
		assert.False(t, slots[i].Start.Before(slots[i-1].End),
			"slot %d overlaps slot %d", i, i-1)
	}
}

func TestFind(t *testing.T) {
	w := window(model.Monday, "09:00", "10:00", intPtr(2), model.WindowStatusAvailable)
	slots := DeriveSlots(w, monday)

	slot, ok := Find(slots, time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), slot.End)

	// 09:15 is inside the window but not a boundary.
	_, ok = Find(slots, time.Date(2025, 3, 3, 9, 15, 0, 0, time.UTC))
	assert.False(t, ok)
}
