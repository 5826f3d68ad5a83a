package config

import "time"

// Provider defines the interface for accessing configuration values.
// Values are immutable after loading.
type Provider interface {
	// GetMeteringTime returns the engine's report production interval
	GetMeteringTime() time.Duration

	// GetThrottle returns the minimum spacing between delivered reports
	GetThrottle() time.Duration

	// GetRefreshRate returns the frame clock rate in Hz
	GetRefreshRate() int

	// GetThermalSource returns the name of the thermal pressure source
	GetThermalSource() string

	// GetLogLevel returns the configured logging level
	GetLogLevel() string

	// GetPIDFile returns the PID file path, empty for the default
	GetPIDFile() string
}

// Option defines a configuration option that can be passed to LoadArgs
type Option func(*options)

// options holds internal configuration options
type options struct {
	configPath string
	envPrefix  string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "PERFMON"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
