package store

import (
	"testing"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlySlots(t *testing.T, date string, hours ...int) []model.Slot {
	t.Helper()
	day, err := time.Parse(DateLayout, date)
	require.NoError(t, err)

	slots := make([]model.Slot, 0, len(hours))
	for _, h := range hours {
		start := day.Add(time.Duration(h) * time.Hour)
		slots = append(slots, model.Slot{StartTime: start, EndTime: start.Add(time.Hour)})
	}
	return slots
}

func parseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestAvailableSlots_EmptyDayIsFullyOpen(t *testing.T) {
	s := New([]string{"A101", "A102", "B101"})

	got := s.AvailableSlots(parseDate(t, "2025-05-22"))

	assert.Equal(t, "2025-05-22", got.Date)
	require.Len(t, got.AvailableSlots, 3)
	want := hourlySlots(t, "2025-05-22", 9, 10, 11, 12, 13, 14, 15, 16)
	for room, slots := range got.AvailableSlots {
		if diff := cmp.Diff(want, slots); diff != "" {
			t.Errorf("room %s slots mismatch (-want +got):\n%s", room, diff)
		}
	}
}

func TestAvailableSlots_RemovesOnlyBookedSlot(t *testing.T) {
	s := New(testRooms)

	alice, err := s.Create(request(t, "A101", "2025-05-22T10:00:00Z", "2025-05-22T11:00:00Z", "alice"))
	require.NoError(t, err)

	_, err = s.Create(request(t, "A101", "2025-05-22T10:30:00Z", "2025-05-22T11:30:00Z", "bob"))
	conflictID, ok := bookingserrors.ConflictingID(err)
	require.True(t, ok)
	assert.Equal(t, alice.ID, conflictID)

	got := s.AvailableSlots(parseDate(t, "2025-05-22"))

	if diff := cmp.Diff(hourlySlots(t, "2025-05-22", 9, 11, 12, 13, 14, 15, 16), got.AvailableSlots["A101"]); diff != "" {
		t.Errorf("A101 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(hourlySlots(t, "2025-05-22", 9, 10, 11, 12, 13, 14, 15, 16), got.AvailableSlots["A102"]); diff != "" {
		t.Errorf("A102 mismatch (-want +got):\n%s", diff)
	}
}

func TestAvailableSlots_PartialOverlapBlocksEveryTouchedSlot(t *testing.T) {
	s := New(testRooms)
	_, err := s.Create(request(t, "A102", "2025-05-22T12:30:00Z", "2025-05-22T14:15:00Z", "carol"))
	require.NoError(t, err)

	got := s.AvailableSlots(parseDate(t, "2025-05-22"))

	if diff := cmp.Diff(hourlySlots(t, "2025-05-22", 9, 10, 11, 15, 16), got.AvailableSlots["A102"]); diff != "" {
		t.Errorf("A102 mismatch (-want +got):\n%s", diff)
	}
}

func TestAvailableSlots_FullyBookedRoomListedEmpty(t *testing.T) {
	s := New(testRooms)
	_, err := s.Create(request(t, "A101", "2025-05-22T08:00:00Z", "2025-05-22T18:00:00Z", "all-day"))
	require.NoError(t, err)

	got := s.AvailableSlots(parseDate(t, "2025-05-22"))

	slots, present := got.AvailableSlots["A101"]
	require.True(t, present)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
	assert.Len(t, got.AvailableSlots["A102"], 8)
}

func TestAvailableSlots_OtherDaysIgnored(t *testing.T) {
	s := New(testRooms)
	_, err := s.Create(request(t, "A101", "2025-05-23T10:00:00Z", "2025-05-23T11:00:00Z", "alice"))
	require.NoError(t, err)

	got := s.AvailableSlots(parseDate(t, "2025-05-22"))
	assert.Len(t, got.AvailableSlots["A101"], 8)
}

func TestAvailableSlots_AttributedByStartDateOnly(t *testing.T) {
	s := New(testRooms)
	// crosses midnight into the 23rd
	_, err := s.Create(request(t, "A101", "2025-05-22T16:00:00Z", "2025-05-23T10:00:00Z", "night-owl"))
	require.NoError(t, err)

	day1 := s.AvailableSlots(parseDate(t, "2025-05-22"))
	day2 := s.AvailableSlots(parseDate(t, "2025-05-23"))

	assert.Len(t, day1.AvailableSlots["A101"], 7)
	assert.Len(t, day2.AvailableSlots["A101"], 8)
}

func TestAvailableSlots_NonUTCStartUsesUTCDate(t *testing.T) {
	s := New(testRooms)
	// 11:00+02:00 is 09:00Z
	_, err := s.Create(request(t, "A101", "2025-05-22T11:00:00+02:00", "2025-05-22T12:00:00+02:00", "alice"))
	require.NoError(t, err)

	got := s.AvailableSlots(parseDate(t, "2025-05-22"))
	if diff := cmp.Diff(hourlySlots(t, "2025-05-22", 10, 11, 12, 13, 14, 15, 16), got.AvailableSlots["A101"]); diff != "" {
		t.Errorf("A101 mismatch (-want +got):\n%s", diff)
	}
}

func TestSlotWindow_Custom(t *testing.T) {
	w := SlotWindow{DayStart: 8 * time.Hour, DayEnd: 10*time.Hour + 45*time.Minute, Length: 45 * time.Minute}
	require.NoError(t, w.Validate())

	slots := w.Slots(parseDate(t, "2025-05-22"))
	require.Len(t, slots, 3)
	assert.Equal(t, mustTime(t, "2025-05-22T08:00:00Z"), slots[0].StartTime)
	// the trailing 30 minutes cannot hold a full slot
	assert.Equal(t, mustTime(t, "2025-05-22T10:15:00Z"), slots[2].EndTime)
}

func TestSlotWindow_Validate(t *testing.T) {
	assert.NoError(t, DefaultSlotWindow().Validate())
	assert.Error(t, SlotWindow{DayStart: 9 * time.Hour, DayEnd: 17 * time.Hour}.Validate())
	assert.Error(t, SlotWindow{DayStart: 17 * time.Hour, DayEnd: 9 * time.Hour, Length: time.Hour}.Validate())
	assert.Error(t, SlotWindow{DayStart: 9 * time.Hour, DayEnd: 25 * time.Hour, Length: time.Hour}.Validate())
}
