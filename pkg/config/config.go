package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	kafka_config "roombook/pkg/kafka/config"
	"roombook/pkg/logger"
	"roombook/pkg/sanitizer"

	"github.com/kelseyhightower/envconfig"
)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$|^24:00$`)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Rooms []string `envconfig:"ROOMS" default:"A101,A102,B101,B102,C101"`

	SlotDayStart string        `envconfig:"SLOT_DAY_START" default:"09:00"`
	SlotDayEnd   string        `envconfig:"SLOT_DAY_END" default:"17:00"`
	SlotDuration time.Duration `envconfig:"SLOT_DURATION" default:"1h"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"20"`

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	MaxRequestSize int64         `envconfig:"MAX_REQUEST_SIZE" default:"1048576"`

	EventQueueSize      int           `envconfig:"EVENT_QUEUE_SIZE" default:"1024"`
	EventPublishTimeout time.Duration `envconfig:"EVENT_PUBLISH_TIMEOUT" default:"5s"`

	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	Kafka *kafka_config.Config `ignored:"true"`
	Log   *logger.Logger       `ignored:"true"`
}

// Load reads the service configuration from the environment and exits the
// process if it is invalid.
func Load(serviceName string) *Config {
	cfg, err := Process()
	log := logger.New(logger.Config{
		Level:     levelOrDefault(cfg),
		Format:    logger.FormatJSON,
		AddSource: true,
		Service:   serviceName,
	})
	if err != nil {
		log.Fatal(err.Error())
	}

	cfg.Log = log
	cfg.LogConfiguration()
	return cfg
}

// Process reads and validates the configuration without side effects.
func Process() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return cfg, fmt.Errorf("failed to process env config: %w", err)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return cfg, err
	}
	cfg.Kafka = kafkaCfg

	return cfg, cfg.Validate()
}

func levelOrDefault(cfg *Config) string {
	if cfg == nil || cfg.LogLevel == "" {
		return "info"
	}
	return cfg.LogLevel
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if len(cfg.RoomIDs()) == 0 {
		errors = append(errors, "Rooms must list at least one room id")
	}

	dayStart, startErr := ParseClock(cfg.SlotDayStart)
	if startErr != nil {
		errors = append(errors, fmt.Sprintf("SlotDayStart must be in HH:MM format (00:00-24:00), got: %s", cfg.SlotDayStart))
	}
	dayEnd, endErr := ParseClock(cfg.SlotDayEnd)
	if endErr != nil {
		errors = append(errors, fmt.Sprintf("SlotDayEnd must be in HH:MM format (00:00-24:00), got: %s", cfg.SlotDayEnd))
	}
	if cfg.SlotDuration <= 0 {
		errors = append(errors, fmt.Sprintf("SlotDuration must be positive, got: %s", cfg.SlotDuration))
	}
	if startErr == nil && endErr == nil && cfg.SlotDuration > 0 && dayEnd-dayStart < cfg.SlotDuration {
		errors = append(errors, fmt.Sprintf("Slot window %s-%s must fit at least one %s slot", cfg.SlotDayStart, cfg.SlotDayEnd, cfg.SlotDuration))
	}

	if cfg.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRPS must be positive, got: %v", cfg.RateLimitRPS))
	}
	if cfg.RateLimitBurst <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.EventQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("EventQueueSize must be positive, got: %d", cfg.EventQueueSize))
	}
	if cfg.EventPublishTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("EventPublishTimeout must be positive, got: %s", cfg.EventPublishTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// RoomIDs returns the configured rooms with blanks and duplicates dropped.
func (cfg *Config) RoomIDs() []string {
	return sanitizer.SanitizeSlice(cfg.Rooms, sanitizer.SanitizeRoomID)
}

// SlotBounds returns the slot window as offsets from UTC midnight. Only
// valid after Validate succeeded.
func (cfg *Config) SlotBounds() (dayStart, dayEnd time.Duration) {
	dayStart, _ = ParseClock(cfg.SlotDayStart)
	dayEnd, _ = ParseClock(cfg.SlotDayEnd)
	return dayStart, dayEnd
}

// ParseClock converts "HH:MM" into an offset from midnight. "24:00" is
// accepted as the end of the day.
func ParseClock(value string) (time.Duration, error) {
	if !clockRegex.MatchString(value) {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	h, _ := strconv.Atoi(value[:2])
	m, _ := strconv.Atoi(value[3:])
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"rooms", cfg.RoomIDs(),
		"slot_day_start", cfg.SlotDayStart,
		"slot_day_end", cfg.SlotDayEnd,
		"slot_duration", cfg.SlotDuration,
		"rate_limit_rps", cfg.RateLimitRPS,
		"rate_limit_burst", cfg.RateLimitBurst,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"event_queue_size", cfg.EventQueueSize,
		"event_publish_timeout", cfg.EventPublishTimeout,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
	if cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
}
