package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/bracket-exporter/internal/platform/logging"
)

const (
	DefaultBattlefyBaseURL = "https://api.battlefy.com"
	DefaultBattlefyCDNURL  = "https://dtmwra1jsgyb0.cloudfront.net"
)

var battlefyIDRegex = regexp.MustCompile(`^[a-f0-9]{24}$`)

// Config stores runtime configuration for both command line tools.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string
	LogLevel       logging.Level
	LogFormat      string `validate:"oneof=json console"`

	BattlefyBaseURL            string        `validate:"required,url"`
	BattlefyCDNBaseURL         string        `validate:"required,url"`
	BattlefyTimeout            time.Duration `validate:"gt=0"`
	BattlefyInsecureSkipVerify bool
	BattlefyUserAgent          string
	BattlefyRequestInterval    time.Duration `validate:"gte=0"`
	BattlefyCircuitEnabled     bool
	BattlefyCircuitFailures    int           `validate:"min=1"`
	BattlefyCircuitOpenTimeout time.Duration `validate:"gt=0"`
	BattlefyCircuitHalfOpenMax int           `validate:"min=1"`

	TournamentID string `validate:"omitempty,battlefyid"`
	StageID      string `validate:"omitempty,battlefyid"`

	OutputDir           string `validate:"required"`
	EnrichEnabled       bool
	EnrichWorkers       int           `validate:"min=1,max=64"`
	EnrichTimeout       time.Duration `validate:"gte=0"`
	ResolveMissingTeams bool

	AvatarDir     string        `validate:"required"`
	AvatarDelay   time.Duration `validate:"gte=0"`
	AvatarWorkers int           `validate:"min=1,max=32"`
	AvatarTimeout time.Duration `validate:"gt=0"`

	UptraceEnabled         bool
	UptraceDSN             string `validate:"required_if=UptraceEnabled true"`
	PyroscopeEnabled       bool
	PyroscopeServerAddress string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        strings.TrimSpace(getEnv("SERVICE_NAME", "bracket-exporter")),
		ServiceVersion:     strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", logging.FormatConsole))),
		BattlefyBaseURL:    strings.TrimRight(strings.TrimSpace(getEnv("BATTLEFY_BASE_URL", DefaultBattlefyBaseURL)), "/"),
		BattlefyCDNBaseURL: strings.TrimRight(strings.TrimSpace(getEnv("BATTLEFY_CDN_BASE_URL", DefaultBattlefyCDNURL)), "/"),
		BattlefyUserAgent:  strings.TrimSpace(getEnv("BATTLEFY_USER_AGENT", "bracket-exporter/1.0")),
		TournamentID:       strings.TrimSpace(getEnv("TOURNAMENT_ID", "")),
		StageID:            strings.TrimSpace(getEnv("STAGE_ID", "")),
		OutputDir:          strings.TrimSpace(getEnv("OUTPUT_DIR", ".")),
		AvatarDir:          strings.TrimSpace(getEnv("AVATAR_DIR", "avatars")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeAppName:   strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", "bracket-exporter")),
		PyroscopeAuthToken: strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))

	if cfg.BattlefyTimeout, err = time.ParseDuration(getEnv("BATTLEFY_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("parse BATTLEFY_TIMEOUT: %w", err)
	}
	if cfg.BattlefyInsecureSkipVerify, err = strconv.ParseBool(getEnv("BATTLEFY_INSECURE_SKIP_VERIFY", "false")); err != nil {
		return Config{}, fmt.Errorf("parse BATTLEFY_INSECURE_SKIP_VERIFY: %w", err)
	}
	if cfg.BattlefyRequestInterval, err = time.ParseDuration(getEnv("BATTLEFY_REQUEST_INTERVAL", "0s")); err != nil {
		return Config{}, fmt.Errorf("parse BATTLEFY_REQUEST_INTERVAL: %w", err)
	}
	if cfg.BattlefyCircuitEnabled, err = strconv.ParseBool(getEnv("BATTLEFY_CIRCUIT_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse BATTLEFY_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.BattlefyCircuitFailures, err = getEnvAsInt("BATTLEFY_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse BATTLEFY_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.BattlefyCircuitOpenTimeout, err = time.ParseDuration(getEnv("BATTLEFY_CIRCUIT_OPEN_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("parse BATTLEFY_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfg.BattlefyCircuitHalfOpenMax, err = getEnvAsInt("BATTLEFY_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse BATTLEFY_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	if cfg.EnrichEnabled, err = strconv.ParseBool(getEnv("ENRICH_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse ENRICH_ENABLED: %w", err)
	}
	if cfg.EnrichWorkers, err = getEnvAsInt("ENRICH_WORKERS", 1); err != nil {
		return Config{}, fmt.Errorf("parse ENRICH_WORKERS: %w", err)
	}
	if cfg.EnrichTimeout, err = time.ParseDuration(getEnv("ENRICH_TIMEOUT", "0s")); err != nil {
		return Config{}, fmt.Errorf("parse ENRICH_TIMEOUT: %w", err)
	}
	if cfg.ResolveMissingTeams, err = strconv.ParseBool(getEnv("RESOLVE_MISSING_TEAMS", "false")); err != nil {
		return Config{}, fmt.Errorf("parse RESOLVE_MISSING_TEAMS: %w", err)
	}

	if cfg.AvatarDelay, err = time.ParseDuration(getEnv("AVATAR_DELAY", "500ms")); err != nil {
		return Config{}, fmt.Errorf("parse AVATAR_DELAY: %w", err)
	}
	if cfg.AvatarWorkers, err = getEnvAsInt("AVATAR_WORKERS", 1); err != nil {
		return Config{}, fmt.Errorf("parse AVATAR_WORKERS: %w", err)
	}
	if cfg.AvatarTimeout, err = time.ParseDuration(getEnv("AVATAR_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("parse AVATAR_TIMEOUT: %w", err)
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeUploadRate, err = time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints declared in struct tags.
func (c Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("battlefyid", func(fl validator.FieldLevel) bool {
		return battlefyIDRegex.MatchString(fl.Field().String())
	})
	return v
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
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
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
