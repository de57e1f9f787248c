package depthrun

import (
	"os"
	"strconv"
)

const (
	// Default configuration values
	defaultLogBackend    = "zerolog"
	defaultLogLevel      = "info"
	defaultLogTimeFormat = "2006-01-02 15:04:05"
	defaultLogColored    = "true"
	defaultLogJSON       = "false"
	defaultLogMaxSizeMB  = "100"
	defaultLogMaxBackups = "3"
)

// Environment variable names
const (
	envLogBackend    = "DEPTHRUN_LOG_BACKEND"
	envLogLevel      = "DEPTHRUN_LOG_LEVEL"
	envLogTimeFormat = "DEPTHRUN_LOG_TIME_FORMAT"
	envLogColor      = "DEPTHRUN_LOG_COLOR"
	envLogJSON       = "DEPTHRUN_LOG_JSON"
	envLogFile       = "DEPTHRUN_LOG_FILE"
	envLogMaxSize    = "DEPTHRUN_LOG_MAX_SIZE"
	envLogMaxBackups = "DEPTHRUN_LOG_MAX_BACKUPS"
)

func init() {
	cfg, err := LogConfigFromEnv()
	if err != nil {
		panic(err)
	}

	log, err := NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	DefaultLog = log
}

// LogConfigFromEnv reads the logger configuration from environment variables
func LogConfigFromEnv() (LogConfig, error) {
	colored, err := parseBoolEnv(envLogColor, defaultLogColored)
	if err != nil {
		return LogConfig{}, err
	}

	jsonFormat, err := parseBoolEnv(envLogJSON, defaultLogJSON)
	if err != nil {
		return LogConfig{}, err
	}

	maxSize, err := strconv.Atoi(getEnvWithDefault(envLogMaxSize, defaultLogMaxSizeMB))
	if err != nil {
		return LogConfig{}, err
	}

	maxBackups, err := strconv.Atoi(getEnvWithDefault(envLogMaxBackups, defaultLogMaxBackups))
	if err != nil {
		return LogConfig{}, err
	}

	return LogConfig{
		Backend:    getEnvWithDefault(envLogBackend, defaultLogBackend),
		Level:      getEnvWithDefault(envLogLevel, defaultLogLevel),
		TimeLayout: getEnvWithDefault(envLogTimeFormat, defaultLogTimeFormat),
		Colored:    colored,
		JSON:       jsonFormat,
		File:       os.Getenv(envLogFile),
		MaxSizeMB:  maxSize,
		MaxBackups: maxBackups,
	}, nil
}

// getEnvWithDefault returns the value of the environment variable or the default if not set
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBoolEnv(key, defaultValue string) (bool, error) {
	return strconv.ParseBool(getEnvWithDefault(key, defaultValue))
}
