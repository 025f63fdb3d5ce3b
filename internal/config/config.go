package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/boxscore-refiner/internal/platform/logging"
)

const (
	MinInterval     = 10 * time.Second
	MaxInterval     = 300 * time.Second
	DefaultInterval = 60 * time.Second
)

// Config stores runtime configuration for the refiner.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	SourceDir                  string
	RostersDir                 string
	OutputDir                  string
	Interval                   time.Duration
	MaxTicks                   int
	RosterLoadWorkers          int
	RosterCacheTTL             time.Duration
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	LogLevel                   logging.Level
	LogFormat                  logging.Format
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	interval, err := time.ParseDuration(getEnv("REFINER_INTERVAL", DefaultInterval.String()))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFINER_INTERVAL: %w", err)
	}
	maxTicks, err := getEnvAsInt("REFINER_MAX_TICKS", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFINER_MAX_TICKS: %w", err)
	}
	if maxTicks < 0 {
		return Config{}, fmt.Errorf("REFINER_MAX_TICKS must be >= 0")
	}

	rosterLoadWorkers, err := getEnvAsInt("ROSTER_LOAD_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse ROSTER_LOAD_WORKERS: %w", err)
	}
	if rosterLoadWorkers < 1 {
		return Config{}, fmt.Errorf("ROSTER_LOAD_WORKERS must be >= 1")
	}
	rosterCacheTTL, err := time.ParseDuration(getEnv("ROSTER_CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ROSTER_CACHE_TTL: %w", err)
	}
	if rosterCacheTTL < 0 {
		return Config{}, fmt.Errorf("ROSTER_CACHE_TTL must be >= 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	logFormat, err := parseLogFormat(getEnv("APP_LOG_FORMAT", string(logging.FormatJSON)))
	if err != nil {
		return Config{}, err
	}

	serviceName := strings.TrimSpace(getEnv("SERVICE_NAME", "boxscore-refiner"))
	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                serviceName,
		ServiceVersion:             strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		SourceDir:                  strings.TrimSpace(getEnv("REFINER_SOURCE_DIR", "nfl_live_stats")),
		RostersDir:                 strings.TrimSpace(getEnv("REFINER_ROSTERS_DIR", "nfl_rosters")),
		OutputDir:                  strings.TrimSpace(getEnv("REFINER_OUTPUT_DIR", "nfl_refined_live_stats")),
		Interval:                   ClampInterval(interval),
		MaxTicks:                   maxTicks,
		RosterLoadWorkers:          rosterLoadWorkers,
		RosterCacheTTL:             rosterCacheTTL,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:                  logFormat,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that flags may have overridden after Load.
func (c Config) Validate() error {
	for name, dir := range map[string]string{
		"REFINER_SOURCE_DIR":  c.SourceDir,
		"REFINER_ROSTERS_DIR": c.RostersDir,
		"REFINER_OUTPUT_DIR":  c.OutputDir,
	} {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	if c.SourceDir == c.OutputDir {
		return fmt.Errorf("REFINER_OUTPUT_DIR must differ from REFINER_SOURCE_DIR")
	}
	if c.Interval < MinInterval || c.Interval > MaxInterval {
		return fmt.Errorf("interval %s outside %s..%s", c.Interval, MinInterval, MaxInterval)
	}
	if c.MaxTicks < 0 {
		return fmt.Errorf("max ticks must be >= 0")
	}
	return nil
}

// ClampInterval bounds the cycle interval to 10s..300s.
func ClampInterval(d time.Duration) time.Duration {
	return min(max(d, MinInterval), MaxInterval)
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseLogFormat(v string) (logging.Format, error) {
	switch f := logging.Format(strings.ToLower(strings.TrimSpace(v))); f {
	case logging.FormatJSON, logging.FormatConsole:
		return f, nil
	default:
		return "", fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", v, logging.FormatJSON, logging.FormatConsole)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
