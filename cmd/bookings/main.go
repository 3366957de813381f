package main

import (
	"context"

	"roombook/internal/bookings/events"
	"roombook/internal/bookings/handler"
	"roombook/internal/bookings/service"
	"roombook/internal/bookings/store"
	"roombook/internal/bookings/validator"
	"roombook/pkg/app"
	"roombook/pkg/config"

	"github.com/cockroachdb/errors"
)

const ServiceName = "bookings"

var errNoRooms = errors.New("no rooms configured")

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Bookings service")
	bookingStore := initStore(cfg)

	publisher, err := events.New(cfg.Kafka, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking events", "error", err)
	}

	bookingService := service.NewBookingService(
		bookingStore,
		validator.NewBookingValidator(cfg.Log),
		events.NewAsyncPublisher(publisher, cfg.EventQueueSize, cfg.EventPublishTimeout, cfg.Log),
		cfg.Log,
	)

	healthHandler := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"rooms": func(context.Context) error {
			if len(bookingStore.Rooms()) == 0 {
				return errNoRooms
			}
			return nil
		},
	}, cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log), healthHandler, bookingService)
	serverApp.Run()
}

func initStore(cfg *config.Config) *store.Store {
	dayStart, dayEnd := cfg.SlotBounds()
	window := store.SlotWindow{DayStart: dayStart, DayEnd: dayEnd, Length: cfg.SlotDuration}
	if err := window.Validate(); err != nil {
		cfg.Log.Fatal("Invalid slot window", "error", err)
	}

	rooms := cfg.RoomIDs()
	bookingStore := store.New(rooms, store.WithSlotWindow(window))
	cfg.Log.Info("Booking store initialized", "rooms", len(bookingStore.Rooms()))
	return bookingStore
}
