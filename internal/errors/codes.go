package errors

// Common error codes
const (
	// System errors
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrBindFlags            ErrorCode = "bind_flags_failed"
	ErrParseFlags           ErrorCode = "parse_flags_failed"
	ErrReadConfig           ErrorCode = "read_config_failed"
	ErrInvalidInterval      ErrorCode = "invalid_interval"
	ErrInvalidRefreshRate   ErrorCode = "invalid_refresh_rate"
	ErrInvalidThermalSource ErrorCode = "invalid_thermal_source"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"
	ErrPIDFile        ErrorCode = "pid_file_failed"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrMainLoop ErrorCode = "main_loop_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInvalidArgument:      "Invalid argument provided",
	ErrBindFlags:            "Failed to bind flags",
	ErrParseFlags:           "Failed to parse flags",
	ErrReadConfig:           "Failed to read config file",
	ErrInvalidInterval:      "Invalid interval value",
	ErrInvalidRefreshRate:   "Invalid refresh rate",
	ErrInvalidThermalSource: "Invalid thermal source",
	ErrInvalidLogLevel:      "Invalid log level",
	ErrInitFailed:           "Initialization failed",
	ErrShutdownFailed:       "Shutdown failed",
	ErrAlreadyRunning:       "Another instance is already running",
	ErrPIDFile:              "PID file operation failed",
	ErrInitApp:              "Failed to initialize application",
	ErrMainLoop:             "Error in main loop",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
