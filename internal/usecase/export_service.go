package usecase

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
	"github.com/riskibarqy/bracket-exporter/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Target names the tournament and stage an export run reads.
type Target struct {
	TournamentID string
	StageID      string
}

type ExportServiceConfig struct {
	EnrichEnabled bool
	EnrichWorkers int
	// EnrichTimeout bounds each detail read. Zero leaves only the client timeout.
	EnrichTimeout       time.Duration
	ResolveMissingTeams bool
	RunID               string
}

type ExportResult struct {
	RunID         string                   `json:"run_id"`
	Teams         int                      `json:"teams"`
	Matches       int                      `json:"matches"`
	Enriched      int                      `json:"enriched"`
	EnrichFailed  int                      `json:"enrich_failed"`
	ResolvedTeams int                      `json:"resolved_teams"`
	Diagnostics   []bracket.Diagnostic     `json:"diagnostics"`
	Written       []string                 `json:"written"`
	Rows          []bracket.JoinedMatchRow `json:"-"`
}

// AuthRequired reports whether any collection read was refused for lack of credentials.
func (r ExportResult) AuthRequired() bool {
	for _, item := range r.Diagnostics {
		if item.Kind == FailureAuthRequired {
			return true
		}
	}
	return false
}

type ExportService struct {
	source bracket.Source
	sink   bracket.Sink
	cfg    ExportServiceConfig
	logger *logging.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func NewExportService(source bracket.Source, sink bracket.Sink, cfg ExportServiceConfig, logger *logging.Logger) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{
		source: source,
		sink:   sink,
		cfg:    cfg,
		logger: logger,
		tracer: pipelineTracer,
		now:    time.Now,
	}
}

// Run collects, enriches, joins and exports one tournament stage.
// Upstream read failures degrade to empty collections and are reported in
// Diagnostics; only invalid input and export failures return an error.
func (s *ExportService) Run(ctx context.Context, target Target) (ExportResult, error) {
	target.TournamentID = strings.TrimSpace(target.TournamentID)
	target.StageID = strings.TrimSpace(target.StageID)
	if target.TournamentID == "" || target.StageID == "" {
		return ExportResult{}, crerr.Wrap(ErrInvalidInput, "tournament id and stage id are required")
	}

	ctx, span := startRunSpan(ctx, s.tracer, "usecase.ExportService.Run",
		attribute.String("tournament_id", target.TournamentID),
		attribute.String("stage_id", target.StageID),
	)
	var runErr error
	defer func() { finishSpan(span, runErr) }()

	logger := s.logger.With("run_id", s.cfg.RunID, "tournament_id", target.TournamentID, "stage_id", target.StageID)
	logger.InfoContext(ctx, "bracket export started")

	data := s.collect(ctx, target)
	logger.InfoContext(ctx, "collections fetched",
		"teams", len(data.teams),
		"matches", len(data.matches),
		"diagnostics", len(data.diagnostics),
	)

	matches, stats := s.enrichMatches(ctx, data.matches)
	teams := data.teams
	resolved := 0
	if s.cfg.ResolveMissingTeams {
		teams, resolved = s.resolveMissingTeams(ctx, matches, teams)
	}

	rows := bracket.JoinMatches(matches, teams)
	snapshot := bracket.Snapshot{
		RunID:       s.cfg.RunID,
		GeneratedAt: s.now().UTC(),
		Tournament:  data.tournament,
		Teams:       teams,
		Matches:     matches,
		Rows:        rows,
		Summary:     bracket.Summarize(matches, teams),
		Diagnostics: data.diagnostics,
	}

	result := ExportResult{
		RunID:         s.cfg.RunID,
		Teams:         len(teams),
		Matches:       len(matches),
		Enriched:      stats.Enriched,
		EnrichFailed:  stats.Failed,
		ResolvedTeams: resolved,
		Diagnostics:   data.diagnostics,
		Rows:          rows,
	}

	written, err := s.sink.Export(ctx, snapshot)
	result.Written = written
	if err != nil {
		runErr = crerr.Mark(crerr.Wrap(err, "export artifacts"), ErrExportFailed)
		logger.ErrorContext(ctx, "bracket export incomplete", "written", len(written), "error", err)
		return result, runErr
	}

	logger.InfoContext(ctx, "bracket export finished",
		"written", len(written),
		"enriched", stats.Enriched,
		"enrich_failed", stats.Failed,
	)
	return result, nil
}

type collected struct {
	tournament  *bracket.Tournament
	teams       []bracket.Team
	matches     []bracket.Match
	diagnostics []bracket.Diagnostic
}

// collect reads the three collections in order. Each failure yields an empty
// collection plus a diagnostic so the run always reaches the export stage.
func (s *ExportService) collect(ctx context.Context, target Target) collected {
	ctx, span := startStageSpan(ctx, s.tracer, "usecase.ExportService.collect")
	defer span.End()

	out := collected{
		teams:       []bracket.Team{},
		matches:     []bracket.Match{},
		diagnostics: []bracket.Diagnostic{},
	}

	tournament, err := s.source.FetchTournament(ctx, target.TournamentID)
	if err != nil {
		out.diagnostics = append(out.diagnostics, s.diagnose(ctx, "tournament", err))
	} else {
		out.tournament = &tournament
	}

	teams, err := s.source.FetchTeams(ctx, target.TournamentID)
	if err != nil {
		out.diagnostics = append(out.diagnostics, s.diagnose(ctx, "teams", err))
	} else if teams != nil {
		out.teams = teams
	}

	matches, err := s.source.FetchMatches(ctx, target.StageID)
	if err != nil {
		out.diagnostics = append(out.diagnostics, s.diagnose(ctx, "matches", err))
	} else if matches != nil {
		out.matches = matches
	}

	return out
}

func (s *ExportService) diagnose(ctx context.Context, resource string, err error) bracket.Diagnostic {
	item := bracket.Diagnostic{
		Resource:   resource,
		Kind:       FailureKind(err),
		StatusCode: FailureStatus(err),
		Message:    err.Error(),
	}
	s.logger.WarnContext(ctx, "collection fetch failed, continuing with empty result",
		"resource", resource,
		"kind", item.Kind,
		"status_code", item.StatusCode,
		"error", err,
	)
	return item
}

// resolveMissingTeams looks up slot teams absent from the team collection.
// Lookups that fail leave the slot unresolved.
func (s *ExportService) resolveMissingTeams(ctx context.Context, matches []bracket.Match, teams []bracket.Team) ([]bracket.Team, int) {
	missing := bracket.MissingTeamIDs(matches, teams)
	if len(missing) == 0 {
		return teams, 0
	}

	ctx, span := startStageSpan(ctx, s.tracer, "usecase.ExportService.resolveMissingTeams", attribute.Int("missing", len(missing)))
	defer span.End()

	out := make([]bracket.Team, len(teams), len(teams)+len(missing))
	copy(out, teams)
	resolved := 0
	for _, teamID := range missing {
		if ctx.Err() != nil {
			break
		}
		team, err := s.source.FetchTeam(ctx, teamID)
		if err != nil {
			s.logger.WarnContext(ctx, "missing team lookup failed", "team_id", teamID, "kind", FailureKind(err), "error", err)
			continue
		}
		if team.ID == "" {
			team.ID = teamID
		}
		if team.Players == nil {
			team.Players = []bracket.Player{}
		}
		out = append(out, team)
		resolved++
	}
	return out, resolved
}
