package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// SeedRoom describes one room in the fixed seed set. Rooms are created at
// boot and never added or removed at runtime.
type SeedRoom struct {
	ID       string
	Name     string
	Capacity int
}

type Config struct {
	Port string

	Rooms          []SeedRoom
	FallbackRoomID string
	Location       *time.Location

	SweepInterval       time.Duration
	SweepPromotePerSlot bool

	MaxWaitHours        float64
	PriorityHigh        int
	PriorityLow         int
	DefaultBasePriority int

	RateLimitRPS   float64
	RateLimitBurst int

	RequestTimeout  time.Duration
	MaxRequestSize  int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CORSOrigins []string

	KafkaBrokers []string
	KafkaTopic   string

	Log *logger.Logger
}

func Load(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		FallbackRoomID: getEnvStr(EnvFallbackRoomID, ""),

		SweepInterval:       getEnvDuration(EnvSweepInterval, DefaultSweepInterval),
		SweepPromotePerSlot: getEnvBool(EnvSweepPromotePerSlot, DefaultSweepPromotePerSlot),

		MaxWaitHours:        getEnvFloat(EnvMaxWaitHours, DefaultMaxWaitHours),
		PriorityHigh:        getEnvNum(EnvPriorityHigh, DefaultPriorityHigh),
		PriorityLow:         getEnvNum(EnvPriorityLow, DefaultPriorityLow),
		DefaultBasePriority: getEnvNum(EnvDefaultBasePriority, DefaultDefaultBasePriority),

		RateLimitRPS:   getEnvFloat(EnvRateLimitRPS, DefaultRateLimitRPS),
		RateLimitBurst: getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize:  getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		CORSOrigins: getEnvList(EnvCORSOrigins, DefaultCORSOrigins),

		KafkaBrokers: getEnvList(EnvKafkaBrokers, ""),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	rooms, err := parseRooms(getEnvStr(EnvRooms, DefaultRooms))
	if err != nil {
		cfg.Log.Fatal("Invalid room seed configuration", "error", err)
	}
	cfg.Rooms = rooms

	if cfg.FallbackRoomID == "" && len(cfg.Rooms) > 0 {
		cfg.FallbackRoomID = cfg.Rooms[0].ID
	}

	loc, err := loadLocation(getEnvStr(EnvTimezone, DefaultTimezone))
	if err != nil {
		cfg.Log.Fatal("Invalid timezone configuration", "error", err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// SeedRooms builds fresh registry rooms from the seed set.
func (cfg *Config) SeedRooms() []*model.Room {
	rooms := make([]*model.Room, 0, len(cfg.Rooms))
	for _, seed := range cfg.Rooms {
		rooms = append(rooms, &model.Room{
			ID:       seed.ID,
			Name:     seed.Name,
			Capacity: seed.Capacity,
		})
	}
	return rooms
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if len(cfg.Rooms) == 0 {
		errs = append(errs, "at least one seed room is required")
	}
	seen := map[string]bool{}
	fallbackKnown := false
	for _, room := range cfg.Rooms {
		if seen[room.ID] {
			errs = append(errs, fmt.Sprintf("duplicate room id: %s", room.ID))
		}
		seen[room.ID] = true
		if room.Capacity <= 0 {
			errs = append(errs, fmt.Sprintf("room %s capacity must be positive, got: %d", room.ID, room.Capacity))
		}
		if room.ID == cfg.FallbackRoomID {
			fallbackKnown = true
		}
	}
	if !fallbackKnown {
		errs = append(errs, fmt.Sprintf("FallbackRoomID %q is not a seeded room", cfg.FallbackRoomID))
	}

	if cfg.SweepInterval <= 0 {
		errs = append(errs, fmt.Sprintf("SweepInterval must be positive, got: %s", cfg.SweepInterval))
	}
	if cfg.MaxWaitHours <= 0 {
		errs = append(errs, fmt.Sprintf("MaxWaitHours must be positive, got: %v", cfg.MaxWaitHours))
	}
	if cfg.PriorityLow < 0 {
		errs = append(errs, fmt.Sprintf("PriorityLow cannot be negative, got: %d", cfg.PriorityLow))
	}
	if cfg.PriorityHigh < cfg.PriorityLow {
		errs = append(errs, fmt.Sprintf("PriorityHigh (%d) must be >= PriorityLow (%d)", cfg.PriorityHigh, cfg.PriorityLow))
	}
	if cfg.DefaultBasePriority < cfg.PriorityLow || cfg.DefaultBasePriority > cfg.PriorityHigh {
		errs = append(errs, fmt.Sprintf("DefaultBasePriority (%d) must be between PriorityLow (%d) and PriorityHigh (%d)",
			cfg.DefaultBasePriority, cfg.PriorityLow, cfg.PriorityHigh))
	}

	if cfg.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRPS must be positive, got: %v", cfg.RateLimitRPS))
	}
	if cfg.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		errs = append(errs, "KafkaTopic cannot be empty when KafkaBrokers is set")
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"rooms", len(cfg.Rooms),
		"fallback_room_id", cfg.FallbackRoomID,
		"timezone", cfg.Location.String(),
		"sweep_interval", cfg.SweepInterval,
		"sweep_promote_per_slot", cfg.SweepPromotePerSlot,
		"max_wait_hours", cfg.MaxWaitHours,
		"priority_high", cfg.PriorityHigh,
		"priority_low", cfg.PriorityLow,
		"default_base_priority", cfg.DefaultBasePriority,
		"rate_limit_rps", cfg.RateLimitRPS,
		"rate_limit_burst", cfg.RateLimitBurst,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"cors_origins", strings.Join(cfg.CORSOrigins, ","),
		"kafka_enabled", len(cfg.KafkaBrokers) > 0,
		"kafka_topic", cfg.KafkaTopic,
	)
}

func parseRooms(spec string) ([]SeedRoom, error) {
	var rooms []SeedRoom
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("room entry %q must be id:name:capacity", entry)
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("room entry %q has non-numeric capacity: %w", entry, err)
		}
		rooms = append(rooms, SeedRoom{
			ID:       strings.TrimSpace(parts[0]),
			Name:     strings.TrimSpace(parts[1]),
			Capacity: capacity,
		})
	}
	return rooms, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
