package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roombook/internal/bookings/events"
	"roombook/pkg/client"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/cockroachdb/errors"
)

const usage = "usage: roomctl [health|rooms|slots|book|get|reschedule|cancel|watch] [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  logger.FormatText,
		Service: "roomctl",
	})

	addr := os.Getenv("ROOMBOOK_ADDR")
	if addr == "" {
		addr = "http://localhost:8080"
	}
	c := client.NewBookingClient(addr, 10*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd := os.Args[1]; cmd {
	case "health":
		err = healthCmd(ctx, c, os.Args[2:])
	case "rooms":
		err = roomsCmd(ctx, c)
	case "slots":
		err = slotsCmd(ctx, c, os.Args[2:])
	case "book":
		err = bookCmd(ctx, c, os.Args[2:])
	case "get":
		err = getCmd(ctx, c, os.Args[2:])
	case "reschedule":
		err = rescheduleCmd(ctx, c, os.Args[2:])
	case "cancel":
		err = cancelCmd(ctx, c, os.Args[2:])
	case "watch":
		err = watchCmd(ctx, log)
	default:
		fmt.Println("unknown command:", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Command failed", "command", os.Args[1], "error", err)
	}
}

func healthCmd(ctx context.Context, c *client.BookingClient, args []string) error {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	wait := fs.Duration("wait", 0, "keep polling until healthy for this long")
	_ = fs.Parse(args)

	if err := c.WaitForHealthy(ctx, max(*wait, time.Second)); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func roomsCmd(ctx context.Context, c *client.BookingClient) error {
	rooms, err := c.Rooms(ctx)
	if err != nil {
		return err
	}
	for _, r := range rooms {
		fmt.Println(r)
	}
	return nil
}

func slotsCmd(ctx context.Context, c *client.BookingClient, args []string) error {
	fs := flag.NewFlagSet("slots", flag.ExitOnError)
	date := fs.String("date", time.Now().UTC().Format("2006-01-02"), "date (YYYY-MM-DD, UTC)")
	_ = fs.Parse(args)

	avail, err := c.Slots(ctx, *date)
	if err != nil {
		return err
	}

	rooms, err := c.Rooms(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Free slots on %s:\n", avail.Date)
	for _, room := range rooms {
		slots := avail.AvailableSlots[room]
		fmt.Printf("- %s:\n", room)
		if len(slots) == 0 {
			fmt.Println("  (fully booked)")
			continue
		}
		for _, s := range slots {
			fmt.Printf("  %s - %s\n", s.StartTime.Format("15:04"), s.EndTime.Format("15:04"))
		}
	}
	return nil
}

func bookCmd(ctx context.Context, c *client.BookingClient, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	room := fs.String("room", "", "room id (ex: A101)")
	start := fs.String("start", "", "start time (RFC3339)")
	end := fs.String("end", "", "end time (RFC3339)")
	user := fs.String("user", os.Getenv("USER"), "who books the room")
	_ = fs.Parse(args)

	if *room == "" || *start == "" || *end == "" {
		return errors.New("room, start and end are required")
	}
	startTime, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return errors.Wrap(err, "invalid start")
	}
	endTime, err := time.Parse(time.RFC3339, *end)
	if err != nil {
		return errors.Wrap(err, "invalid end")
	}

	b, err := c.Create(ctx, model.BookingRequest{RoomID: *room, StartTime: startTime, EndTime: endTime, User: *user})
	if err != nil {
		return err
	}
	printBooking("Booked", b)
	return nil
}

func getCmd(ctx context.Context, c *client.BookingClient, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "booking id")
	_ = fs.Parse(args)

	if *id == "" {
		return errors.New("id is required")
	}
	b, err := c.Get(ctx, *id)
	if err != nil {
		return err
	}
	printBooking("Booking", b)
	return nil
}

func rescheduleCmd(ctx context.Context, c *client.BookingClient, args []string) error {
	fs := flag.NewFlagSet("reschedule", flag.ExitOnError)
	id := fs.String("id", "", "booking id")
	room := fs.String("room", "", "new room id")
	start := fs.String("start", "", "new start time (RFC3339)")
	end := fs.String("end", "", "new end time (RFC3339)")
	user := fs.String("user", "", "new requester")
	_ = fs.Parse(args)

	if *id == "" {
		return errors.New("id is required")
	}

	var update model.BookingUpdate
	if *room != "" {
		update.RoomID = room
	}
	if *user != "" {
		update.User = user
	}
	if *start != "" {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return errors.Wrap(err, "invalid start")
		}
		update.StartTime = &t
	}
	if *end != "" {
		t, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			return errors.Wrap(err, "invalid end")
		}
		update.EndTime = &t
	}
	if update.IsEmpty() {
		return errors.New("nothing to change")
	}

	b, err := c.Update(ctx, *id, update)
	if err != nil {
		return err
	}
	printBooking("Rescheduled", b)
	return nil
}

func cancelCmd(ctx context.Context, c *client.BookingClient, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.String("id", "", "booking id")
	_ = fs.Parse(args)

	if *id == "" {
		return errors.New("id is required")
	}
	if err := c.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Println("Cancelled", *id)
	return nil
}

// watchCmd tails the booking event topic until interrupted.
func watchCmd(ctx context.Context, log *logger.Logger) error {
	cfg, err := kafka_config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	consumer, err := kafka.NewConsumer(cfg, cfg.BookingsTopic, cfg.ConsumerGroupID, func(_ context.Context, msg kafka.Message) error {
		event, err := events.Decode(msg)
		if err != nil {
			return err
		}
		fmt.Printf("%s %-16s %s\n", event.OccurredAt.Format(time.RFC3339), event.Type, describe(event.Booking))
		return nil
	}, log)
	if err != nil {
		return err
	}
	defer consumer.Close()

	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printBooking(prefix string, b *model.Booking) {
	fmt.Printf("%s: %s\n", prefix, describe(*b))
}

func describe(b model.Booking) string {
	return fmt.Sprintf("%s room=%s %s-%s user=%s",
		b.ID, b.RoomID, b.StartTime.Format(time.RFC3339), b.EndTime.Format(time.RFC3339), b.User)
}
