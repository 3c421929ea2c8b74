package config

import "time"

const (
	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	// id:name:capacity triples, comma separated
	DefaultRooms    = "room-a:Conference Room A:10,room-b:Meeting Room B:6,hall-c:Hall C:20"
	DefaultTimezone = "Local"

	DefaultSweepInterval       = 60 * time.Second
	DefaultSweepPromotePerSlot = false

	DefaultMaxWaitHours        = 48.0
	DefaultPriorityHigh        = 5
	DefaultPriorityLow         = 1
	DefaultDefaultBasePriority = 1

	DefaultRateLimitRPS   = 10.0
	DefaultRateLimitBurst = 20

	DefaultRequestTimeout  = 10 * time.Second
	DefaultMaxRequestSize  = 1 << 20
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultCORSOrigins = "*"

	DefaultKafkaTopic = "roomly.events"
)
