package config

import (
	"io"
	"time"
)

// TimeConfig reads integer settings and scales them into durations.
// Missing or unparsable keys yield the zero duration.
type TimeConfig interface {
	// GetSecond reads the key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads the key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetHour reads the key as a number of hours.
	GetHour(key string) time.Duration

	// GetDay reads the key as a number of 24h days. Ad lifetimes and
	// retention windows are configured this way.
	GetDay(key string) time.Duration
}

// SignedIntConfig reads signed integer settings. Missing or unparsable
// keys yield zero.
type SignedIntConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
}

// UnsignedIntConfig reads unsigned integer settings. Missing or
// unparsable keys yield zero.
type UnsignedIntConfig interface {
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
}

// FloatConfig reads floating-point settings. Missing or unparsable keys
// yield zero.
type FloatConfig interface {
	GetFloat32(key string) float32
	GetFloat64(key string) float64
}

// Config is the typed view over the configuration source. Lookups never
// fail; a missing key reads as the type's zero value, so callers apply
// their own defaults where zero is not acceptable.
type Config interface {
	io.Closer
	TimeConfig
	SignedIntConfig
	UnsignedIntConfig
	FloatConfig

	// GetBool reads the key as a bool.
	GetBool(key string) bool

	// GetString reads the key as a string.
	GetString(key string) string

	// GetBinary reads the key as bytes. The stored value is base64
	// encoded.
	GetBinary(key string) []byte

	// GetArray reads the key as a string slice. The stored value is
	// comma separated: <element1>,<element2>,...
	GetArray(key string) []string

	// GetMap reads the key as a string map. The stored value uses the
	// format <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
