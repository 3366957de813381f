package model

import "time"

type Slot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Availability lists the free slots of every known room for one calendar day.
// Rooms without openings map to an empty, non-nil slice.
type Availability struct {
	Date           string            `json:"date"`
	AvailableSlots map[string][]Slot `json:"availableSlots"`
}
