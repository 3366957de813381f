package model

import (
	"time"
)

type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingRequest carries the caller-supplied fields of a new booking.
type BookingRequest struct {
	RoomID    string    `json:"roomId" validate:"required,max=50"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	User      string    `json:"user" validate:"required,min=1,max=100"`
}

// BookingUpdate holds a partial change set; nil fields keep their stored value.
type BookingUpdate struct {
	RoomID    *string    `json:"roomId,omitempty" validate:"omitnil,min=1,max=50"`
	StartTime *time.Time `json:"startTime,omitempty" validate:"omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty" validate:"omitempty"`
	User      *string    `json:"user,omitempty" validate:"omitnil,min=1,max=100"`
}

// TouchesSchedule reports whether the update changes room or time.
func (u *BookingUpdate) TouchesSchedule() bool {
	return u.RoomID != nil || u.StartTime != nil || u.EndTime != nil
}

// IsEmpty reports whether the update carries no field at all.
func (u *BookingUpdate) IsEmpty() bool {
	return !u.TouchesSchedule() && u.User == nil
}
