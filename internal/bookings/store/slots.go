package store

import (
	"fmt"
	"time"

	"roombook/pkg/interval"
	"roombook/pkg/model"
)

const DateLayout = "2006-01-02"

// SlotWindow describes the bookable part of a day as offsets from UTC
// midnight, cut into slots of Length.
type SlotWindow struct {
	DayStart time.Duration
	DayEnd   time.Duration
	Length   time.Duration
}

func DefaultSlotWindow() SlotWindow {
	return SlotWindow{
		DayStart: 9 * time.Hour,
		DayEnd:   17 * time.Hour,
		Length:   time.Hour,
	}
}

func (w SlotWindow) Validate() error {
	if w.Length <= 0 {
		return fmt.Errorf("slot length must be positive, got: %s", w.Length)
	}
	if w.DayStart < 0 || w.DayEnd > 24*time.Hour {
		return fmt.Errorf("slot window must lie within one day, got: %s-%s", w.DayStart, w.DayEnd)
	}
	if w.DayEnd-w.DayStart < w.Length {
		return fmt.Errorf("slot window %s-%s is shorter than one slot of %s", w.DayStart, w.DayEnd, w.Length)
	}
	return nil
}

// Slots generates the candidate slots for the UTC calendar day of date, in
// ascending order. A trailing remainder shorter than Length is dropped.
func (w SlotWindow) Slots(date time.Time) []model.Slot {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var slots []model.Slot
	for off := w.DayStart; off+w.Length <= w.DayEnd; off += w.Length {
		start := midnight.Add(off)
		slots = append(slots, model.Slot{StartTime: start, EndTime: start.Add(w.Length)})
	}
	return slots
}

// AvailableSlots returns, for every room, the candidate slots of date that do
// not overlap any booking of that room starting on date (UTC). Bookings that
// cross midnight only block slots on their start date.
func (s *Store) AvailableSlots(date time.Time) model.Availability {
	y, m, d := date.Date()
	candidates := s.window.Slots(date)

	s.mu.RLock()
	booked := make(map[string][]model.Booking)
	for _, b := range s.bookings {
		by, bm, bd := b.StartTime.UTC().Date()
		if by != y || bm != m || bd != d {
			continue
		}
		booked[b.RoomID] = append(booked[b.RoomID], b)
	}
	s.mu.RUnlock()

	result := model.Availability{
		Date:           time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(DateLayout),
		AvailableSlots: make(map[string][]model.Slot, len(s.roomList)),
	}
	for _, room := range s.roomList {
		free := make([]model.Slot, 0, len(candidates))
		for _, slot := range candidates {
			if !blocked(slot, booked[room]) {
				free = append(free, slot)
			}
		}
		result.AvailableSlots[room] = free
	}
	return result
}

func blocked(slot model.Slot, bookings []model.Booking) bool {
	for _, b := range bookings {
		if interval.Overlaps(slot.StartTime, slot.EndTime, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}
