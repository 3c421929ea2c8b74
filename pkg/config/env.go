package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRooms          = "ROOMS"
	EnvFallbackRoomID = "FALLBACK_ROOM_ID"
	EnvTimezone       = "TIMEZONE"

	EnvSweepInterval       = "SWEEP_INTERVAL"
	EnvSweepPromotePerSlot = "SWEEP_PROMOTE_PER_SLOT"

	EnvMaxWaitHours        = "MAX_WAIT_HOURS"
	EnvPriorityHigh        = "PRIORITY_HIGH"
	EnvPriorityLow         = "PRIORITY_LOW"
	EnvDefaultBasePriority = "DEFAULT_BASE_PRIORITY"

	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvMaxRequestSize  = "MAX_REQUEST_SIZE"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCORSOrigins = "CORS_ORIGINS"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"
)
