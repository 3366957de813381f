package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/interval"
	"roombook/pkg/model"

	"github.com/google/uuid"
)

// Store is the in-memory owner of all bookings and the room inventory.
// Mutations run under the write lock for their whole check-then-act
// sequence, so the no-overlap invariant holds for every observer.
type Store struct {
	mu       sync.RWMutex
	bookings map[string]model.Booking
	issued   map[string]struct{}
	rooms    map[string]struct{}
	roomList []string
	window   SlotWindow
	now      func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithSlotWindow(w SlotWindow) Option {
	return func(s *Store) {
		s.window = w
	}
}

func New(rooms []string, opts ...Option) *Store {
	s := &Store{
		bookings: make(map[string]model.Booking),
		issued:   make(map[string]struct{}),
		rooms:    make(map[string]struct{}, len(rooms)),
		window:   DefaultSlotWindow(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, r := range rooms {
		if _, dup := s.rooms[r]; dup || r == "" {
			continue
		}
		s.rooms[r] = struct{}{}
		s.roomList = append(s.roomList, r)
	}
	sort.Strings(s.roomList)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rooms returns the sorted room inventory.
func (s *Store) Rooms() []string {
	out := make([]string, len(s.roomList))
	copy(out, s.roomList)
	return out
}

func (s *Store) RoomExists(roomID string) bool {
	_, ok := s.rooms[roomID]
	return ok
}

// Count returns the number of stored bookings.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

func (s *Store) Create(req model.BookingRequest) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := model.Booking{
		RoomID:    req.RoomID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		User:      req.User,
	}
	if err := s.validateLocked(candidate, ""); err != nil {
		return nil, err
	}

	candidate.ID = s.nextIDLocked()
	candidate.CreatedAt = s.now()
	s.bookings[candidate.ID] = candidate

	out := candidate
	return &out, nil
}

func (s *Store) Get(id string) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return &b, nil
}

// Update merges changes onto the stored booking and commits the result only
// if it passes the same checks as a new booking, ignoring the booking's own
// prior interval. On error the stored booking is left untouched.
func (s *Store) Update(id string, changes model.BookingUpdate) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}

	candidate := merge(current, changes)
	if err := s.validateLocked(candidate, id); err != nil {
		return nil, err
	}

	s.bookings[id] = candidate
	out := candidate
	return &out, nil
}

// Delete removes the booking and returns what was stored.
func (s *Store) Delete(id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	delete(s.bookings, id)
	return &b, nil
}

func merge(current model.Booking, changes model.BookingUpdate) model.Booking {
	merged := current

	if changes.RoomID != nil {
		merged.RoomID = *changes.RoomID
	}
	if changes.StartTime != nil {
		merged.StartTime = *changes.StartTime
	}
	if changes.EndTime != nil {
		merged.EndTime = *changes.EndTime
	}
	if changes.User != nil {
		merged.User = *changes.User
	}

	return merged
}

func (s *Store) validateLocked(candidate model.Booking, excludeID string) error {
	if !s.RoomExists(candidate.RoomID) {
		return bookingserrors.ErrRoomNotFound
	}
	if !interval.Valid(candidate.StartTime, candidate.EndTime) {
		return bookingserrors.ErrInvalidInterval
	}
	if strings.TrimSpace(candidate.User) == "" {
		return bookingserrors.ErrInvalidRequester
	}
	if conflictID, found := s.findConflictLocked(candidate, excludeID); found {
		return &bookingserrors.ConflictError{ConflictingID: conflictID}
	}
	return nil
}

// findConflictLocked returns the earliest-starting booking of the same room
// that overlaps candidate (ties broken by id), so the answer does not depend
// on map iteration order.
func (s *Store) findConflictLocked(candidate model.Booking, excludeID string) (string, bool) {
	var hit *model.Booking
	for id, b := range s.bookings {
		if id == excludeID || b.RoomID != candidate.RoomID {
			continue
		}
		if !interval.Overlaps(candidate.StartTime, candidate.EndTime, b.StartTime, b.EndTime) {
			continue
		}
		if hit == nil || b.StartTime.Before(hit.StartTime) ||
			(b.StartTime.Equal(hit.StartTime) && b.ID < hit.ID) {
			found := b
			hit = &found
		}
	}
	if hit == nil {
		return "", false
	}
	return hit.ID, true
}

// nextIDLocked never hands out an id twice within the process lifetime,
// deleted bookings included.
func (s *Store) nextIDLocked() string {
	for {
		id := uuid.NewString()
		if _, taken := s.issued[id]; taken {
			continue
		}
		s.issued[id] = struct{}{}
		return id
	}
}
