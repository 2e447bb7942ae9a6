package orders

import (
	"testing"
	"time"

	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperatingHours(t *testing.T) {
	wp, err := parseOperatingHours("Mon-Fri 08:00-18:00; Sat 09:00-14:00")
	require.NoError(t, err)
	assert.Len(t, wp.Monday, 1)
	assert.Len(t, wp.Friday, 1)
	assert.Equal(t, dayWindow{Start: clock{9, 0}, End: clock{14, 0}}, wp.Saturday[0])
	assert.Empty(t, wp.Sunday)

	wp, err = parseOperatingHours("Mon,Wed 09.00-12:00, 14:00-17:00")
	require.NoError(t, err)
	assert.Len(t, wp.Monday, 2)
	assert.Len(t, wp.Wednesday, 2)
	assert.Empty(t, wp.Tuesday)

	wp, err = parseOperatingHours("Daily 08:00-20:00")
	require.NoError(t, err)
	assert.Len(t, wp.Sunday, 1)

	wp, err = parseOperatingHours("Fri-Mon 10:00-11:00")
	require.NoError(t, err)
	assert.Len(t, wp.Saturday, 1)
	assert.Len(t, wp.Sunday, 1)
	assert.Empty(t, wp.Wednesday)
}

func TestParseOperatingHours_Invalid(t *testing.T) {
	for _, input := range []string{"", "Mon-Fri", "Someday 08:00-10:00", "Mon 18:00-08:00", "Mon 25:00-26:00"} {
		_, err := parseOperatingHours(input)
		assert.Error(t, err, input)
	}
}

func TestBuildTimeSlots_SkipsPastAndClassifies(t *testing.T) {
	loc := time.UTC
	// Monday 2024-06-03
	now := time.Date(2024, 6, 3, 9, 10, 0, 0, loc)
	booked := []models.BookedSlot{}
	for i := 0; i < 3; i++ {
		booked = append(booked, models.BookedSlot{
			Start: time.Date(2024, 6, 3, 10, 0, 0, 0, loc),
			End:   time.Date(2024, 6, 3, 10, 30, 0, 0, loc),
		})
	}
	booked = append(booked, models.BookedSlot{
		Start: time.Date(2024, 6, 3, 11, 0, 0, 0, loc),
		End:   time.Date(2024, 6, 3, 11, 30, 0, 0, loc),
	})

	slots, err := buildTimeSlots(slotQuery{
		OperatingHours:   "Mon-Fri 09:00-12:00",
		From:             now,
		Days:             1,
		Now:              now,
		Booked:           booked,
		LimitedThreshold: 3,
		Location:         loc,
	})
	require.NoError(t, err)

	// 09:00 is in the past; 09:30 through 11:30 remain.
	require.Len(t, slots, 5)
	assert.Equal(t, time.Date(2024, 6, 3, 9, 30, 0, 0, loc), slots[0].Start)
	assert.Equal(t, slots[0].Start.Add(30*time.Minute), slots[0].End)

	byStart := map[int]string{}
	for _, s := range slots {
		byStart[s.Start.Hour()*60+s.Start.Minute()] = s.Status
	}
	assert.Equal(t, constvars.TimeSlotLimited, byStart[10*60])
	assert.Equal(t, constvars.TimeSlotAvailable, byStart[11*60])
	assert.Equal(t, constvars.TimeSlotAvailable, byStart[9*60+30])
}

func TestBuildTimeSlots_LookaheadSkipsClosedDays(t *testing.T) {
	loc := time.UTC
	// Saturday 2024-06-08
	now := time.Date(2024, 6, 8, 0, 0, 0, 0, loc)
	slots, err := buildTimeSlots(slotQuery{
		OperatingHours:   "Mon-Fri 08:00-09:00",
		From:             now,
		Days:             3,
		Now:              now,
		LimitedThreshold: 3,
		Location:         loc,
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Monday, slots[0].Start.Weekday())
}

func TestBuildTimeSlots_DeterministicForFixedNow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 6, 3, 7, 0, 0, 0, loc)
	q := slotQuery{OperatingHours: "Daily 08:00-10:00", From: now, Days: 2, Now: now, LimitedThreshold: 3, Location: loc}

	first, err := buildTimeSlots(q)
	require.NoError(t, err)
	second, err := buildTimeSlots(q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 8)
}
