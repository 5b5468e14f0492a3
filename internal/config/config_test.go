package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_BACKEND", StoreBackendMemory)
	t.Setenv("DB_URL", "")
	t.Setenv("SYNC_CURSOR_BACKEND", CursorBackendFile)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SYNC_LEAGUES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SyncSeason != 2024 {
		t.Fatalf("unexpected SyncSeason: %d", cfg.SyncSeason)
	}
	if len(cfg.SyncLeagues) != 1 || cfg.SyncLeagues[0].ID != 283 {
		t.Fatalf("unexpected default leagues: %+v", cfg.SyncLeagues)
	}
	if cfg.SyncPageDelay != time.Second || cfg.SyncTeamDelay != 2*time.Second || cfg.SyncUnitDelay != 4*time.Second {
		t.Fatalf("unexpected delays: page=%s team=%s unit=%s", cfg.SyncPageDelay, cfg.SyncTeamDelay, cfg.SyncUnitDelay)
	}
	if cfg.SportsAPITimeout != 20*time.Second {
		t.Fatalf("unexpected SportsAPITimeout: %s", cfg.SportsAPITimeout)
	}
	if len(cfg.SyncGenericTeamMarkers) != 2 || cfg.SyncGenericTeamMarkers[0] != "national" {
		t.Fatalf("unexpected generic markers: %v", cfg.SyncGenericTeamMarkers)
	}
	if cfg.InternalJobTimeout != 30*time.Minute {
		t.Fatalf("unexpected InternalJobTimeout: %s", cfg.InternalJobTimeout)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_BACKEND", StoreBackendPostgres)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORE_BACKEND=postgres without DB_URL")
	}
}

func TestLoad_PostgresCursorRequiresDBURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SYNC_CURSOR_BACKEND", CursorBackendPostgres)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SYNC_CURSOR_BACKEND=postgres without DB_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_LeaguesKeepOrder(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SYNC_LEAGUES", "283:Liga I, 39:Premier League,140")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []League{{ID: 283, Name: "Liga I"}, {ID: 39, Name: "Premier League"}, {ID: 140, Name: "league-140"}}
	if len(cfg.SyncLeagues) != len(want) {
		t.Fatalf("unexpected leagues: %+v", cfg.SyncLeagues)
	}
	for i := range want {
		if cfg.SyncLeagues[i] != want[i] {
			t.Fatalf("league[%d]=%+v want=%+v", i, cfg.SyncLeagues[i], want[i])
		}
	}
}

func TestParseLeagues_Errors(t *testing.T) {
	for _, raw := range []string{"abc", "0:Zero", "283,283"} {
		if _, err := parseLeagues(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestLoad_NegativeDelayRejected(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SYNC_PAGE_DELAY", "-1s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative SYNC_PAGE_DELAY")
	}
}

func TestRequireSportsAPI(t *testing.T) {
	if err := (Config{SportsAPIBaseURL: "https://example.test"}).RequireSportsAPI(); err == nil {
		t.Fatalf("expected error without SPORTSAPI_KEY")
	}
	if err := (Config{SportsAPIBaseURL: "https://example.test", SportsAPIKey: "k"}).RequireSportsAPI(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
