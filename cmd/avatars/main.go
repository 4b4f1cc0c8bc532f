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
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		shareURL     = flag.String("url", "", "tournament share url containing tournament and stage ids")
		tournamentID = flag.String("tournament-id", "", "24-character tournament id")
		stageID      = flag.String("stage-id", "", "24-character stage id")
		outDir       = flag.String("out", "", "directory for avatar images (default AVATAR_DIR)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return app.ExitFailure
	}

	rt := app.Bootstrap(cfg, "avatars")
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
	downloader := app.NewAvatarDownloader(rt, client, *outDir)

	report, err := downloader.Run(ctx, ids.TournamentID)
	if err != nil {
		logger.Error("avatar download incomplete", "tournament_id", ids.TournamentID, "error", err)
	}
	fmt.Printf("Found: %d  Downloaded: %d  Skipped: %d  Failed: %d\n",
		report.Found, report.Downloaded, report.Skipped, report.Failed)
	return app.ExitOK
}
