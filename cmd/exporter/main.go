package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/bracket-exporter/internal/app"
	"github.com/riskibarqy/bracket-exporter/internal/avatar"
	"github.com/riskibarqy/bracket-exporter/internal/config"
	"github.com/riskibarqy/bracket-exporter/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		shareURL     = flag.String("url", "", "tournament share url containing tournament and stage ids")
		tournamentID = flag.String("tournament-id", "", "24-character tournament id")
		stageID      = flag.String("stage-id", "", "24-character stage id")
		outDir       = flag.String("out", "", "directory for exported artifacts (default OUTPUT_DIR)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return app.ExitFailure
	}

	rt := app.Bootstrap(cfg, "exporter")
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rt.Close(closeCtx)
	}()
	logger := rt.Logger

	opts := app.IdentifierDefaults(avatar.IDOptions{
		URL:          *shareURL,
		TournamentID: *tournamentID,
		StageID:      *stageID,
	}, cfg)
	ids, err := avatar.ResolveIDs(opts, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("resolve identifiers", "error", err)
		return app.ExitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := app.NewBattlefyClient(cfg, logger)
	svc := app.NewExportService(rt, client, *outDir)

	result, err := svc.Run(ctx, usecase.Target{TournamentID: ids.TournamentID, StageID: ids.StageID})
	printReport(result)
	if err != nil {
		logger.Error("export failed", "error", err)
	}

	code := app.ExitCode(result, err)
	if code == app.ExitAuthRequired {
		logger.Warn("upstream required authentication for some reads; artifacts may be incomplete")
	}
	return code
}

func printReport(result usecase.ExportResult) {
	fmt.Printf("Teams: %d  Matches: %d  Enriched: %d  Enrich failures: %d\n",
		result.Teams, result.Matches, result.Enriched, result.EnrichFailed)
	for _, item := range result.Diagnostics {
		fmt.Printf("  fetch error [%s] %s: %s\n", item.Kind, item.Resource, item.Message)
	}
	for _, path := range result.Written {
		fmt.Printf("  wrote %s\n", path)
	}
}
