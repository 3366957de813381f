package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := Process()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"A101", "A102", "B101", "B102", "C101"}, cfg.RoomIDs())
	assert.Equal(t, time.Hour, cfg.SlotDuration)
	assert.Equal(t, 1024, cfg.EventQueueSize)
	assert.Equal(t, 5*time.Second, cfg.EventPublishTimeout)

	start, end := cfg.SlotBounds()
	assert.Equal(t, 9*time.Hour, start)
	assert.Equal(t, 17*time.Hour, end)

	require.NotNil(t, cfg.Kafka)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestProcess_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ROOMS", "R1, R2,,R3")
	t.Setenv("SLOT_DAY_START", "08:30")
	t.Setenv("SLOT_DAY_END", "12:00")
	t.Setenv("SLOT_DURATION", "30m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Process()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"R1", "R2", "R3"}, cfg.RoomIDs())
	assert.Equal(t, 30*time.Minute, cfg.SlotDuration)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.0001)

	start, end := cfg.SlotBounds()
	assert.Equal(t, 8*time.Hour+30*time.Minute, start)
	assert.Equal(t, 12*time.Hour, end)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	t.Setenv("PORT", "70000")
	t.Setenv("SLOT_DAY_START", "9am")
	t.Setenv("RATE_LIMIT_BURST", "0")
	t.Setenv("EVENT_PUBLISH_TIMEOUT", "0s")

	_, err := Process()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "1. Port must be between 1 and 65535")
	assert.Contains(t, msg, "SlotDayStart must be in HH:MM format")
	assert.Contains(t, msg, "RateLimitBurst must be positive")
	assert.Contains(t, msg, "EventPublishTimeout must be positive")
}

func TestValidate_WindowShorterThanSlot(t *testing.T) {
	t.Setenv("SLOT_DAY_START", "16:30")
	t.Setenv("SLOT_DAY_END", "17:00")

	_, err := Process()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must fit at least one")
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 9 * time.Hour, false},
		{"23:59", 23*time.Hour + 59*time.Minute, false},
		{"24:00", 24 * time.Hour, false},
		{"24:30", 0, true},
		{"9:00", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
