package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	CacheKeyPrefixProfile = "profile:"
)

const (
	DefaultEventsTopic         = "customer_events"
	DefaultProfileUpdatesTopic = "profile_updates"
	DefaultConfigEventsTopic   = "config_events"
)

const (
	DefaultMongoDBName = "compass"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultLimit       = 100
	MaxLimit           = 1000
	DefaultTruncateLen = 100
)

const (
	DefaultProfileTTLSeconds = 0 // profiles do not expire by default
)

const (
	FallbackSkip  = "skip"
	FallbackError = "error"
)

const (
	DatabasePostgreSQL = "postgresql"
	DatabaseMongoDB    = "mongodb"
	DatabaseRedis      = "redis"
)
