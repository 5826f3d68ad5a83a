package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/perfmon/internal/errors"
	"codeberg.org/mutker/perfmon/internal/sampler"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultMeteringTime  = 500 * time.Millisecond
	DefaultThrottle      = 500 * time.Millisecond
	DefaultRefreshRate   = 60
	DefaultThermalSource = sampler.ThermalSensors
	DefaultLogLevel      = "info"

	MaxRefreshRate = 1000

	envPrefix  = "PERFMON"
	configName = "perfmon"
)

const (
	keyMeteringTime  = "metering_time"
	keyThrottle      = "throttle"
	keyRefreshRate   = "refresh_rate"
	keyThermalSource = "thermal_source"
	keyLogLevel      = "log_level"
	keyPIDFile       = "pid_file"
)

type Config struct {
	MeteringTime  time.Duration
	Throttle      time.Duration
	RefreshRate   int
	ThermalSource string
	LogLevel      string
	// PIDFile is empty for the default location in the temp directory.
	PIDFile       string
}

var _ Provider = (*Config)(nil)

func (c *Config) GetMeteringTime() time.Duration { return c.MeteringTime }
func (c *Config) GetThrottle() time.Duration { return c.Throttle }
func (c *Config) GetRefreshRate() int { return c.RefreshRate }
func (c *Config) GetThermalSource() string { return c.ThermalSource }
func (c *Config) GetLogLevel() string { return c.LogLevel }
func (c *Config) GetPIDFile() string { return c.PIDFile }

// Load reads configuration from the process arguments, the environment and
// the config file.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs is Load with explicit command line arguments. Flags override
// environment variables, which override the config file.
func LoadArgs(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: envPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	if o.configPath == "" {
		o.configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	v := viper.New()
	v.SetDefault(keyMeteringTime, DefaultMeteringTime)
	v.SetDefault(keyThrottle, DefaultThrottle)
	v.SetDefault(keyRefreshRate, DefaultRefreshRate)
	v.SetDefault(keyThermalSource, DefaultThermalSource)
	v.SetDefault(keyLogLevel, DefaultLogLevel)
	v.SetDefault(keyPIDFile, "")

	fs := pflag.NewFlagSet("perfmon", pflag.ContinueOnError)
	fs.Duration("metering-time", DefaultMeteringTime, "Interval between produced reports")
	fs.Duration("throttle", DefaultThrottle, "Minimum spacing between delivered reports")
	fs.Int("refresh-rate", DefaultRefreshRate, "Frame clock rate in Hz")
	fs.String("thermal-source", DefaultThermalSource, "Thermal source: sensors, nvml or none")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	fs.String("pid-file", "", "PID file path (default: perfmon.pid in the temp directory)")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrParseFlags, err)
	}

	for key, flag := range map[string]string{
		keyMeteringTime:  "metering-time",
		keyThrottle:      "throttle",
		keyRefreshRate:   "refresh-rate",
		keyThermalSource: "thermal-source",
		keyLogLevel:      "log-level",
		keyPIDFile:       "pid-file",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetEnvPrefix(o.envPrefix)
	v.AutomaticEnv()

	if err := readConfigFile(v, o.configPath); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	cfg := &Config{
		MeteringTime:  v.GetDuration(keyMeteringTime),
		Throttle:      v.GetDuration(keyThrottle),
		RefreshRate:   v.GetInt(keyRefreshRate),
		ThermalSource: strings.ToLower(v.GetString(keyThermalSource)),
		LogLevel:      strings.ToLower(v.GetString(keyLogLevel)),
		PIDFile:       v.GetString(keyPIDFile),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile loads path when given, otherwise looks for perfmon.toml in
// /etc and the user config directory. Only a missing file in the search
// path is tolerated.
func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.SetConfigName(configName)
	v.AddConfigPath("/etc")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(dir)
		v.AddConfigPath(filepath.Join(dir, configName))
	}

	err := v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}

	return err
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.MeteringTime <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, keyMeteringTime+"="+c.MeteringTime.String())
	}
	if c.Throttle <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, keyThrottle+"="+c.Throttle.String())
	}
	if c.RefreshRate < 1 || c.RefreshRate > MaxRefreshRate {
		return errFactory.WithData(errors.ErrInvalidRefreshRate, c.RefreshRate)
	}

	switch c.ThermalSource {
	case sampler.ThermalSensors, sampler.ThermalNVML, sampler.ThermalNone:
	default:
		return errFactory.WithData(errors.ErrInvalidThermalSource, c.ThermalSource)
	}

	if !LogLevel(c.LogLevel).IsValid() && c.LogLevel != "warn" {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}
