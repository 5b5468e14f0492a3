package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-sync/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	CursorBackendFile     = "file"
	CursorBackendPostgres = "postgres"
)

// League is one configured sync unit.
type League struct {
	ID   int64
	Name string
}

// Config stores runtime configuration for the service and the sync CLI.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level
	SwaggerEnabled bool
	CORSOrigins    []string

	StoreBackend            string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration

	SportsAPIBaseURL               string
	SportsAPIKey                   string
	SportsAPIHost                  string
	SportsAPITimeout               time.Duration
	SportsAPIMaxRetries            int
	SportsAPICircuitEnabled        bool
	SportsAPICircuitFailureCount   int
	SportsAPICircuitOpenTimeout    time.Duration
	SportsAPICircuitHalfOpenMaxReq int

	SyncSeason             int
	SyncLeagues            []League
	SyncPageDelay          time.Duration
	SyncTeamDelay          time.Duration
	SyncUnitDelay          time.Duration
	SyncMaxPages           int
	SyncGenericTeamMarkers []string
	SyncCursorBackend      string
	SyncCursorPath         string
	SyncSchedulerEnabled   bool
	SyncScheduleInterval   time.Duration

	InternalJobToken   string
	InternalJobTimeout time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("APP_SWAGGER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_SWAGGER_ENABLED: %w", err)
	}

	storeBackend := strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", StoreBackendPostgres)))
	switch storeBackend {
	case StoreBackendPostgres, StoreBackendMemory:
	default:
		return Config{}, fmt.Errorf("invalid STORE_BACKEND %q: valid values are %s, %s", storeBackend, StoreBackendPostgres, StoreBackendMemory)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeBackend == StoreBackendPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_BACKEND=%s", StoreBackendPostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be >= 0")
	}

	sportsAPIKey := strings.TrimSpace(getEnv("SPORTSAPI_KEY", ""))
	sportsAPITimeout, err := time.ParseDuration(getEnv("SPORTSAPI_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSAPI_TIMEOUT: %w", err)
	}
	if sportsAPITimeout <= 0 {
		return Config{}, fmt.Errorf("SPORTSAPI_TIMEOUT must be > 0")
	}
	sportsAPIMaxRetries, err := getEnvAsInt("SPORTSAPI_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSAPI_MAX_RETRIES: %w", err)
	}
	if sportsAPIMaxRetries < 0 {
		return Config{}, fmt.Errorf("SPORTSAPI_MAX_RETRIES must be >= 0")
	}
	sportsAPICircuitEnabled, err := strconv.ParseBool(getEnv("SPORTSAPI_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSAPI_CIRCUIT_ENABLED: %w", err)
	}
	sportsAPICircuitFailureCount, err := getEnvAsInt("SPORTSAPI_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSAPI_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	sportsAPICircuitOpenTimeout, err := time.ParseDuration(getEnv("SPORTSAPI_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSAPI_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	sportsAPICircuitHalfOpenMaxReq, err := getEnvAsInt("SPORTSAPI_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSAPI_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	syncSeason, err := getEnvAsInt("SYNC_SEASON", 2024)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_SEASON: %w", err)
	}
	if syncSeason <= 0 {
		return Config{}, fmt.Errorf("SYNC_SEASON must be > 0")
	}
	syncLeagues, err := parseLeagues(getEnv("SYNC_LEAGUES", "283:Liga I"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_LEAGUES: %w", err)
	}
	if len(syncLeagues) == 0 {
		return Config{}, fmt.Errorf("SYNC_LEAGUES must contain at least one league")
	}

	syncPageDelay, err := parsePositiveDuration("SYNC_PAGE_DELAY", "1s")
	if err != nil {
		return Config{}, err
	}
	syncTeamDelay, err := parsePositiveDuration("SYNC_TEAM_DELAY", "2s")
	if err != nil {
		return Config{}, err
	}
	syncUnitDelay, err := parsePositiveDuration("SYNC_UNIT_DELAY", "4s")
	if err != nil {
		return Config{}, err
	}
	syncMaxPages, err := getEnvAsInt("SYNC_MAX_PAGES", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_MAX_PAGES: %w", err)
	}
	if syncMaxPages <= 0 {
		return Config{}, fmt.Errorf("SYNC_MAX_PAGES must be > 0")
	}

	syncCursorBackend := strings.ToLower(strings.TrimSpace(getEnv("SYNC_CURSOR_BACKEND", CursorBackendFile)))
	switch syncCursorBackend {
	case CursorBackendFile:
	case CursorBackendPostgres:
		if dbURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when SYNC_CURSOR_BACKEND=%s", CursorBackendPostgres)
		}
	default:
		return Config{}, fmt.Errorf("invalid SYNC_CURSOR_BACKEND %q: valid values are %s, %s", syncCursorBackend, CursorBackendFile, CursorBackendPostgres)
	}

	syncSchedulerEnabled, err := strconv.ParseBool(getEnv("SYNC_SCHEDULER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_SCHEDULER_ENABLED: %w", err)
	}
	syncScheduleInterval, err := time.ParseDuration(getEnv("SYNC_SCHEDULE_INTERVAL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_SCHEDULE_INTERVAL: %w", err)
	}
	if syncScheduleInterval <= 0 {
		return Config{}, fmt.Errorf("SYNC_SCHEDULE_INTERVAL must be > 0")
	}

	internalJobTimeout, err := parsePositiveDuration("INTERNAL_JOB_TIMEOUT", "30m")
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
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

	serviceName := getEnv("APP_SERVICE_NAME", "football-sync")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		SwaggerEnabled: swaggerEnabled,
		CORSOrigins:    splitCSV(getEnv("APP_CORS_ALLOWED_ORIGINS", "*")),

		StoreBackend:            storeBackend,
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,

		SportsAPIBaseURL:               strings.TrimSpace(getEnv("SPORTSAPI_BASE_URL", "https://v3.football.api-sports.io")),
		SportsAPIKey:                   sportsAPIKey,
		SportsAPIHost:                  strings.TrimSpace(getEnv("SPORTSAPI_HOST", "")),
		SportsAPITimeout:               sportsAPITimeout,
		SportsAPIMaxRetries:            sportsAPIMaxRetries,
		SportsAPICircuitEnabled:        sportsAPICircuitEnabled,
		SportsAPICircuitFailureCount:   sportsAPICircuitFailureCount,
		SportsAPICircuitOpenTimeout:    sportsAPICircuitOpenTimeout,
		SportsAPICircuitHalfOpenMaxReq: sportsAPICircuitHalfOpenMaxReq,

		SyncSeason:             syncSeason,
		SyncLeagues:            syncLeagues,
		SyncPageDelay:          syncPageDelay,
		SyncTeamDelay:          syncTeamDelay,
		SyncUnitDelay:          syncUnitDelay,
		SyncMaxPages:           syncMaxPages,
		SyncGenericTeamMarkers: splitCSV(getEnv("SYNC_GENERIC_TEAM_MARKERS", "national,nationala")),
		SyncCursorBackend:      syncCursorBackend,
		SyncCursorPath:         strings.TrimSpace(getEnv("SYNC_CURSOR_PATH", "./data/sync_state.json")),
		SyncSchedulerEnabled:   syncSchedulerEnabled,
		SyncScheduleInterval:   syncScheduleInterval,

		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		InternalJobTimeout: internalJobTimeout,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", "127.0.0.1:6060"),

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}, nil
}

// RequireSportsAPI reports a configuration error when sync needs the provider but no key is set.
func (c Config) RequireSportsAPI() error {
	if strings.TrimSpace(c.SportsAPIKey) == "" {
		return fmt.Errorf("SPORTSAPI_KEY is required to run sync")
	}
	if strings.TrimSpace(c.SportsAPIBaseURL) == "" {
		return fmt.Errorf("SPORTSAPI_BASE_URL is required to run sync")
	}
	return nil
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

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseLeagues reads "id[:name],id[:name]" keeping the configured order.
func parseLeagues(raw string) ([]League, error) {
	out := make([]League, 0, 4)
	seen := make(map[int64]struct{})
	for _, item := range splitCSV(raw) {
		segments := strings.SplitN(item, ":", 2)
		id, err := strconv.ParseInt(strings.TrimSpace(segments[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid league id in item %q: %w", item, err)
		}
		if id <= 0 {
			return nil, fmt.Errorf("league id must be > 0 in item %q", item)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate league id %d", id)
		}
		seen[id] = struct{}{}

		name := ""
		if len(segments) == 2 {
			name = strings.TrimSpace(segments[1])
		}
		if name == "" {
			name = "league-" + strconv.FormatInt(id, 10)
		}
		out = append(out, League{ID: id, Name: name})
	}
	return out, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
