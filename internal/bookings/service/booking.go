package service

import (
	"context"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/store"
	"roombook/internal/bookings/validator"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"

	"github.com/cockroachdb/errors"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) (*model.Booking, error)
	AvailableSlots(ctx context.Context, date string) (*model.Availability, error)
	Rooms(ctx context.Context) []string
	// Close drains pending booking events and closes the publisher.
	Close() error
}

// BookingStore is the engine the service drives. *store.Store satisfies it.
type BookingStore interface {
	Create(req model.BookingRequest) (*model.Booking, error)
	Get(id string) (*model.Booking, error)
	Update(id string, changes model.BookingUpdate) (*model.Booking, error)
	Delete(id string) (*model.Booking, error)
	AvailableSlots(date time.Time) model.Availability
	Rooms() []string
}

type bookingService struct {
	store     BookingStore
	validator *validator.BookingValidator
	publisher *events.AsyncPublisher
	log       *logger.Logger
	now       func() time.Time
}

func NewBookingService(
	bookingStore BookingStore,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	log *logger.Logger,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	async, ok := publisher.(*events.AsyncPublisher)
	if !ok {
		async = events.NewAsyncPublisher(publisher, events.DefaultQueueSize, events.DefaultPublishTimeout, log)
	}
	return &bookingService{
		store:     bookingStore,
		validator: validator,
		publisher: async,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Booking request cannot be empty")
	}
	s.sanitizeRequest(req)
	if err := s.validator.Validate(req); err != nil {
		s.log.Warn("Booking validation failed", "room_id", req.RoomID, "error", err)
		return nil, validationError("Booking validation failed", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Timeout("Request cancelled before the booking was stored")
	}

	booking, err := s.store.Create(*req)
	if err != nil {
		return nil, s.translate(err, "", req.RoomID)
	}

	s.log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	s.publish(ctx, events.BookingCreated, *booking)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.store.Get(id)
	if err != nil {
		return nil, s.translate(err, id, "")
	}
	return booking, nil
}

func (s *bookingService) Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if update == nil {
		update = &model.BookingUpdate{}
	}
	s.sanitizeUpdate(update)
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, validationError("Invalid update input", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Timeout("Request cancelled before the booking was updated")
	}

	roomID := ""
	if update.RoomID != nil {
		roomID = *update.RoomID
	}
	booking, err := s.store.Update(id, *update)
	if err != nil {
		return nil, s.translate(err, id, roomID)
	}

	s.log.Info("Booking updated successfully",
		"id", id,
		"room_id", booking.RoomID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	s.publish(ctx, events.BookingUpdated, *booking)
	return booking, nil
}

// Delete removes the booking and returns what was removed.
func (s *bookingService) Delete(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Timeout("Request cancelled before the booking was deleted")
	}

	existing, err := s.store.Delete(id)
	if err != nil {
		return nil, s.translate(err, id, "")
	}

	s.log.Info("Booking deleted successfully", "id", id, "room_id", existing.RoomID)
	s.publish(ctx, events.BookingDeleted, *existing)
	return existing, nil
}

func (s *bookingService) AvailableSlots(ctx context.Context, date string) (*model.Availability, error) {
	if err := s.validator.ValidateDate(date); err != nil {
		return nil, validationError("Invalid date", err)
	}
	day, err := time.Parse(store.DateLayout, date)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	availability := s.store.AvailableSlots(day)
	s.log.Debug("Availability computed", "date", availability.Date, "rooms", len(availability.AvailableSlots))
	return &availability, nil
}

func (s *bookingService) Rooms(ctx context.Context) []string {
	return s.store.Rooms()
}

func (s *bookingService) Close() error {
	return s.publisher.Close()
}

// --- Helpers ---

func (s *bookingService) sanitizeRequest(req *model.BookingRequest) {
	req.RoomID = sanitizer.SanitizeRoomID(req.RoomID)
	req.User = sanitizer.SanitizeRequester(req.User)
}

func (s *bookingService) sanitizeUpdate(update *model.BookingUpdate) {
	if update.RoomID != nil {
		room := sanitizer.SanitizeRoomID(*update.RoomID)
		update.RoomID = &room
	}
	if update.User != nil {
		user := sanitizer.SanitizeRequester(*update.User)
		update.User = &user
	}
}

// publish only queues the event, so neither a failing nor a slow broker can
// change the outcome of a committed request.
func (s *bookingService) publish(ctx context.Context, eventType events.EventType, booking model.Booking) {
	event := events.BookingEvent{
		Type:       eventType,
		Booking:    booking,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to queue booking event",
			"id", booking.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func validationError(message string, err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Fields())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

// translate maps store errors onto the transport-neutral AppError taxonomy.
func (s *bookingService) translate(err error, id, roomID string) error {
	if conflictID, ok := bookingserrors.ConflictingID(err); ok {
		s.log.Warn("Booking conflict", "id", id, "room_id", roomID, "conflicting_booking_id", conflictID)
		return apperrors.Conflict("Room is already booked for the requested time").
			WithDetails(map[string]any{"conflictingBookingId": conflictID}).
			WithCause(err)
	}

	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id).WithCause(err)
	case errors.Is(err, bookingserrors.ErrRoomNotFound):
		details := map[string]any{"resource": "Room"}
		if roomID != "" {
			details["id"] = roomID
		}
		return apperrors.NotFound("Room").WithDetails(details).WithCause(err)
	case errors.Is(err, bookingserrors.ErrInvalidInterval):
		return apperrors.Validation("Booking validation failed", map[string]any{
			"endTime": "startTime must be before endTime",
		}).WithCause(err)
	case errors.Is(err, bookingserrors.ErrInvalidRequester):
		return apperrors.Validation("Booking validation failed", map[string]any{
			"user": "user cannot be empty",
		}).WithCause(err)
	default:
		s.log.Error("Unexpected booking store failure", "id", id, "error", err)
		return apperrors.Internal("Failed to process booking", errors.WithStack(err))
	}
}
