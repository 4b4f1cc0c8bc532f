package bracket

import (
	"context"
	"time"
)

// Source describes the upstream reads the export pipeline needs.
type Source interface {
	FetchTournament(ctx context.Context, tournamentID string) (Tournament, error)
	FetchTeams(ctx context.Context, tournamentID string) ([]Team, error)
	FetchMatches(ctx context.Context, stageID string) ([]Match, error)
	FetchMatch(ctx context.Context, matchID string) (Match, error)
	FetchTeam(ctx context.Context, teamID string) (Team, error)
}

// Sink persists a finished snapshot and reports the artifacts it wrote.
type Sink interface {
	Export(ctx context.Context, snapshot Snapshot) ([]string, error)
}

// Diagnostic records one upstream read that fell back to an empty result.
type Diagnostic struct {
	Resource   string `json:"resource"`
	Kind       string `json:"kind"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

// Snapshot is everything one export run collected.
type Snapshot struct {
	RunID       string
	GeneratedAt time.Time
	Tournament  *Tournament
	Teams       []Team
	Matches     []Match
	Rows        []JoinedMatchRow
	Summary     Summary
	Diagnostics []Diagnostic
}
