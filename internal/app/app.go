package app

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/riskibarqy/bracket-exporter/external/battlefy"
	"github.com/riskibarqy/bracket-exporter/internal/avatar"
	"github.com/riskibarqy/bracket-exporter/internal/config"
	"github.com/riskibarqy/bracket-exporter/internal/export"
	"github.com/riskibarqy/bracket-exporter/internal/observability"
	"github.com/riskibarqy/bracket-exporter/internal/platform/logging"
	"github.com/riskibarqy/bracket-exporter/internal/platform/resilience"
	"github.com/riskibarqy/bracket-exporter/internal/usecase"
)

const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitAuthRequired = 2
)

// Runtime holds what every command needs before it starts real work.
type Runtime struct {
	Config config.Config
	Logger *logging.Logger
	RunID  string

	shutdownTracing func(context.Context) error
	stopProfiler    func() error
}

// Bootstrap builds the logger and starts optional tracing and profiling.
// Failures to start observability are logged and never abort the run.
func Bootstrap(cfg config.Config, command string) *Runtime {
	runID := uuid.NewString()
	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	}).With("command", command)
	logging.SetDefault(logger)

	rt := &Runtime{
		Config:          cfg,
		Logger:          logger,
		RunID:           runID,
		shutdownTracing: func(context.Context) error { return nil },
		stopProfiler:    func() error { return nil },
	}

	if shutdown, err := observability.InitUptrace(cfg, logger); err != nil {
		logger.Warn("uptrace init failed", "error", err)
	} else {
		rt.shutdownTracing = shutdown
	}
	if stop, err := observability.InitPyroscope(cfg, logger); err != nil {
		logger.Warn("pyroscope init failed", "error", err)
	} else {
		rt.stopProfiler = stop
	}
	return rt
}

// Close flushes tracing, stops the profiler and syncs the logger.
func (r *Runtime) Close(ctx context.Context) {
	if err := r.shutdownTracing(ctx); err != nil {
		r.Logger.Warn("uptrace shutdown failed", "error", err)
	}
	if err := r.stopProfiler(); err != nil {
		r.Logger.Warn("pyroscope stop failed", "error", err)
	}
	_ = r.Logger.Sync()
}

func NewBattlefyClient(cfg config.Config, logger *logging.Logger) *battlefy.Client {
	return battlefy.NewClient(battlefy.ClientConfig{
		BaseURL:            cfg.BattlefyBaseURL,
		CDNBaseURL:         cfg.BattlefyCDNBaseURL,
		Timeout:            cfg.BattlefyTimeout,
		InsecureSkipVerify: cfg.BattlefyInsecureSkipVerify,
		UserAgent:          cfg.BattlefyUserAgent,
		RequestInterval:    cfg.BattlefyRequestInterval,
		Logger:             logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.BattlefyCircuitEnabled,
			FailureThreshold: cfg.BattlefyCircuitFailures,
			OpenTimeout:      cfg.BattlefyCircuitOpenTimeout,
			HalfOpenProbes:   cfg.BattlefyCircuitHalfOpenMax,
		},
	})
}

// NewExportService wires the bracket pipeline to write into outDir.
func NewExportService(rt *Runtime, client *battlefy.Client, outDir string) *usecase.ExportService {
	cfg := rt.Config
	if strings.TrimSpace(outDir) == "" {
		outDir = cfg.OutputDir
	}
	timeout := cfg.EnrichTimeout
	if timeout <= 0 {
		timeout = cfg.BattlefyTimeout
	}

	writer := export.NewWriter(outDir, rt.Logger)
	return usecase.NewExportService(client, writer, usecase.ExportServiceConfig{
		EnrichEnabled:       cfg.EnrichEnabled,
		EnrichWorkers:       cfg.EnrichWorkers,
		EnrichTimeout:       timeout,
		ResolveMissingTeams: cfg.ResolveMissingTeams,
		RunID:               rt.RunID,
	}, rt.Logger)
}

// NewAvatarDownloader wires the avatar downloader to write into dir.
func NewAvatarDownloader(rt *Runtime, client *battlefy.Client, dir string) *avatar.Downloader {
	cfg := rt.Config
	if strings.TrimSpace(dir) == "" {
		dir = cfg.AvatarDir
	}
	return avatar.NewDownloader(client, avatar.DownloaderConfig{
		Dir:     dir,
		Delay:   cfg.AvatarDelay,
		Workers: cfg.AvatarWorkers,
		Timeout: cfg.AvatarTimeout,
		Logger:  rt.Logger,
	})
}

// ExitCode maps an export outcome to the process exit status. Artifacts
// written before an auth failure still count, the status only flags it.
func ExitCode(result usecase.ExportResult, err error) int {
	if err != nil {
		return ExitFailure
	}
	if result.AuthRequired() {
		return ExitAuthRequired
	}
	return ExitOK
}

// IdentifierDefaults fills flag values left empty from configuration.
func IdentifierDefaults(opts avatar.IDOptions, cfg config.Config) avatar.IDOptions {
	if strings.TrimSpace(opts.URL) != "" {
		return opts
	}
	if strings.TrimSpace(opts.TournamentID) == "" {
		opts.TournamentID = cfg.TournamentID
	}
	if strings.TrimSpace(opts.StageID) == "" {
		opts.StageID = cfg.StageID
	}
	return opts
}
