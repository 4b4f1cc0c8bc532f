package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/bracket-exporter/internal/avatar"
	"github.com/riskibarqy/bracket-exporter/internal/config"
	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
	"github.com/riskibarqy/bracket-exporter/internal/platform/logging"
	"github.com/riskibarqy/bracket-exporter/internal/usecase"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:                     config.EnvDev,
		ServiceName:                "bracket-exporter",
		LogLevel:                   logging.LevelError,
		LogFormat:                  logging.FormatJSON,
		BattlefyBaseURL:            config.DefaultBattlefyBaseURL,
		BattlefyCDNBaseURL:         config.DefaultBattlefyCDNURL,
		BattlefyTimeout:            3 * time.Second,
		BattlefyCircuitFailures:    5,
		BattlefyCircuitOpenTimeout: time.Second,
		BattlefyCircuitHalfOpenMax: 1,
		OutputDir:                  t.TempDir(),
		EnrichEnabled:              true,
		EnrichWorkers:              1,
		AvatarDir:                  filepath.Join(t.TempDir(), "avatars"),
		AvatarWorkers:              1,
		AvatarTimeout:              time.Second,
	}
}

func TestExitCode(t *testing.T) {
	auth := usecase.ExportResult{Diagnostics: []bracket.Diagnostic{{Resource: "teams", Kind: usecase.FailureAuthRequired}}}
	other := usecase.ExportResult{Diagnostics: []bracket.Diagnostic{{Resource: "teams", Kind: usecase.FailureNetwork}}}

	cases := []struct {
		name   string
		result usecase.ExportResult
		err    error
		want   int
	}{
		{name: "clean run", want: ExitOK},
		{name: "degraded without auth", result: other, want: ExitOK},
		{name: "auth required", result: auth, want: ExitAuthRequired},
		{name: "export error wins", result: auth, err: errors.New("disk full"), want: ExitFailure},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.result, tc.err); got != tc.want {
			t.Fatalf("%s: ExitCode=%d want %d", tc.name, got, tc.want)
		}
	}
}

func TestIdentifierDefaults(t *testing.T) {
	cfg := config.Config{TournamentID: "68a3db0a4f64b2003f7b4c3f", StageID: "68a64aec397e4d002b97de80"}

	got := IdentifierDefaults(avatar.IDOptions{}, cfg)
	if got.TournamentID != cfg.TournamentID || got.StageID != cfg.StageID {
		t.Fatalf("expected config ids as fallback, got=%+v", got)
	}

	got = IdentifierDefaults(avatar.IDOptions{StageID: "override"}, cfg)
	if got.StageID != "override" || got.TournamentID != cfg.TournamentID {
		t.Fatalf("expected flag to win over config, got=%+v", got)
	}

	got = IdentifierDefaults(avatar.IDOptions{URL: "https://battlefy.com/x"}, cfg)
	if got.TournamentID != "" || got.StageID != "" {
		t.Fatalf("expected url input to be left alone, got=%+v", got)
	}
}

func TestBootstrapAndWiring(t *testing.T) {
	cfg := testConfig(t)

	rt := Bootstrap(cfg, "test")
	defer rt.Close(context.Background())
	if rt.RunID == "" || rt.Logger == nil {
		t.Fatalf("expected run id and logger, got=%+v", rt)
	}

	client := NewBattlefyClient(cfg, rt.Logger)
	if client.BaseURL() != config.DefaultBattlefyBaseURL {
		t.Fatalf("unexpected base url: %s", client.BaseURL())
	}
	if NewExportService(rt, client, "") == nil {
		t.Fatalf("expected export service")
	}
	if NewAvatarDownloader(rt, client, "") == nil {
		t.Fatalf("expected avatar downloader")
	}
}
