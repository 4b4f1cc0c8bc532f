package export

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
	"github.com/riskibarqy/bracket-exporter/internal/platform/logging"
)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func scenarioSnapshot() bracket.Snapshot {
	teams := []bracket.Team{
		{ID: "team-x", Name: strPtr("X"), Players: []bracket.Player{
			{Name: strPtr("Ana"), InGameName: strPtr("ana#1"), Username: strPtr("ana")},
			{Name: strPtr("Bo")},
		}, Raw: []byte(`{"_id":"team-x","name":"X","players":[{"name":"Ana"},{"name":"Bo"}],"extra":{"k":1}}`)},
		{ID: "team-y", Name: strPtr("Y"), Raw: []byte(`{"_id":"team-y","name":"Y"}`)},
		{ID: "68a3db0a4f64b2003f7b4c3f"},
	}
	matches := []bracket.Match{
		{
			ID: "match-a", Round: intPtr(1), MatchNumber: intPtr(1), Status: bracket.StatusComplete,
			Slots: []bracket.MatchSlot{
				{TeamID: strPtr("team-x"), Score: intPtr(3)},
				{TeamID: strPtr("team-y"), Score: intPtr(1)},
			},
			Raw: []byte(`{"_id":"match-a","round":1,"teams":[{"_id":"team-x","score":3},{"_id":"team-y","score":1}]}`),
		},
		{
			ID: "match-b", Round: intPtr(1), MatchNumber: intPtr(2), Status: bracket.StatusComplete,
			Slots: []bracket.MatchSlot{
				{TeamID: strPtr("team-x"), Score: intPtr(2)},
				{TeamID: strPtr("team-z"), Score: intPtr(2)},
			},
		},
	}
	tournament := bracket.Tournament{ID: "tour", Name: strPtr("Cup"), Raw: []byte(`{"_id":"tour","name":"Cup","unknownField":true}`)}
	return bracket.Snapshot{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		Tournament:  &tournament,
		Teams:       teams,
		Matches:     matches,
		Rows:        bracket.JoinMatches(matches, teams),
		Summary:     bracket.Summarize(matches, teams),
		Diagnostics: []bracket.Diagnostic{{Resource: "teams", Kind: "auth_required", StatusCode: 401, Message: "denied"}},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return records
}

func TestWriter_ExportWritesAllArtifacts(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	writer := NewWriter(dir, logging.NewNop())

	written, err := writer.Export(context.Background(), scenarioSnapshot())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(written) != 5 {
		t.Fatalf("expected 5 artifacts, got=%v", written)
	}
	for idx, name := range []string{FullDumpFile, DetailedMatchesFile, SummaryFile, MatchesCSVFile, RostersCSVFile} {
		if written[idx] != filepath.Join(dir, name) {
			t.Fatalf("expected %s at position %d, got=%s", name, idx, written[idx])
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestRenderMatchesCSV_TwoMatchScenario(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writer := NewWriter(dir, logging.NewNop())
	if _, err := writer.Export(context.Background(), scenarioSnapshot()); err != nil {
		t.Fatalf("export: %v", err)
	}

	records := readCSV(t, filepath.Join(dir, MatchesCSVFile))
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got=%d", len(records))
	}
	if strings.Join(records[0], ",") != "Match_ID,Round,Match_Number,Status,Scheduled_Time,Team1_ID,Team1_Name,Team1_Score,Team2_ID,Team2_Name,Team2_Score,Winner" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][0] != "match-a" || records[1][11] != "X" {
		t.Fatalf("expected match A won by X, got=%v", records[1])
	}
	if records[2][0] != "match-b" || records[2][11] != "draw" {
		t.Fatalf("expected match B draw, got=%v", records[2])
	}
	if records[2][9] != "" || records[2][10] != "2" {
		t.Fatalf("expected unresolved team name empty with score kept, got=%v", records[2])
	}
	if records[1][4] != "" {
		t.Fatalf("expected empty scheduled time cell, got=%q", records[1][4])
	}
}

func TestRenderRostersCSV_OneRowPerPlayer(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	if err := RenderRostersCSV(&out, scenarioSnapshot()); err != nil {
		t.Fatalf("render: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 player rows, got=%d", len(records))
	}
	if strings.Join(records[0], ",") != "Team_ID,Team_Name,Player_Name,InGame_Name,Username" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if got := records[2]; got[0] != "team-x" || got[1] != "X" || got[2] != "Bo" || got[3] != "" || got[4] != "" {
		t.Fatalf("unexpected second player row: %v", got)
	}
}

func TestRenderFullDump_RoundTripCounts(t *testing.T) {
	t.Parallel()

	snapshot := scenarioSnapshot()
	var out strings.Builder
	if err := RenderFullDump(&out, snapshot); err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc struct {
		TournamentInfo map[string]any   `json:"tournament_info"`
		Teams          []map[string]any `json:"teams"`
		Matches        []map[string]any `json:"matches"`
		TotalMatches   int              `json:"total_matches"`
		TotalTeams     int              `json:"total_teams"`
	}
	if err := sonic.UnmarshalString(out.String(), &doc); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if doc.TotalMatches != len(snapshot.Matches) || len(doc.Matches) != doc.TotalMatches {
		t.Fatalf("match count mismatch: total=%d len=%d", doc.TotalMatches, len(doc.Matches))
	}
	if doc.TotalTeams != len(snapshot.Teams) || len(doc.Teams) != doc.TotalTeams {
		t.Fatalf("team count mismatch: total=%d len=%d", doc.TotalTeams, len(doc.Teams))
	}
	if doc.TournamentInfo["unknownField"] != true {
		t.Fatalf("expected raw tournament fields preserved, got=%v", doc.TournamentInfo)
	}
	if _, ok := doc.Teams[0]["extra"]; !ok {
		t.Fatalf("expected raw team fields preserved, got=%v", doc.Teams[0])
	}
	if doc.Matches[1]["_id"] != "match-b" || doc.Teams[2]["_id"] != "68a3db0a4f64b2003f7b4c3f" {
		t.Fatalf("expected typed fallback records, got=%v / %v", doc.Matches[1], doc.Teams[2])
	}
}

func TestRender_NullsWithoutSlots(t *testing.T) {
	t.Parallel()

	matches := []bracket.Match{{Status: bracket.StatusUnknown}, {ID: "bye", Slots: []bracket.MatchSlot{{TeamID: strPtr("solo")}}}}
	snapshot := bracket.Snapshot{Matches: matches, Rows: bracket.JoinMatches(matches, nil)}

	var detailed strings.Builder
	if err := RenderDetailedMatches(&detailed, snapshot); err != nil {
		t.Fatalf("render detailed: %v", err)
	}
	var rows []map[string]any
	if err := sonic.UnmarshalString(detailed.String(), &rows); err != nil {
		t.Fatalf("decode detailed: %v", err)
	}
	if rows[0]["match_id"] != nil || rows[0]["winner"] != nil || rows[0]["round"] != nil {
		t.Fatalf("expected nulls, got=%v", rows[0])
	}
	if teams, ok := rows[0]["teams"].([]any); !ok || len(teams) != 0 {
		t.Fatalf("expected empty teams array, got=%v", rows[0]["teams"])
	}

	var table strings.Builder
	if err := RenderMatchesCSV(&table, snapshot); err != nil {
		t.Fatalf("render csv: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(table.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records[1]) != 12 || records[1][0] != "" || records[1][3] != "unknown" || records[2][8] != "" {
		t.Fatalf("unexpected rows: %v", records[1:])
	}

	var dump strings.Builder
	if err := RenderFullDump(&dump, bracket.Snapshot{}); err != nil {
		t.Fatalf("render empty dump: %v", err)
	}
	if !strings.Contains(dump.String(), `"tournament_info": {}`) || !strings.Contains(dump.String(), `"teams": []`) {
		t.Fatalf("expected empty tournament object and empty arrays, got=%s", dump.String())
	}
}

func TestRenderSummary_IncludesDiagnostics(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	if err := RenderSummary(&out, scenarioSnapshot()); err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc map[string]any
	if err := sonic.UnmarshalString(out.String(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"total_matches", "total_teams", "total_players", "match_status", "teams_sample", "generated_at", "fetch_errors"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("summary missing %s: %v", key, doc)
		}
	}
	if doc["total_players"] != float64(2) || doc["generated_at"] != "2026-10-19T09:00:00Z" {
		t.Fatalf("unexpected summary values: %v", doc)
	}
	if errs, ok := doc["fetch_errors"].([]any); !ok || len(errs) != 1 {
		t.Fatalf("expected one fetch error, got=%v", doc["fetch_errors"])
	}
}

func TestWriter_FailingArtifactDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	boom := errors.New("renderer exploded")
	writer := NewWriter(dir, logging.NewNop(),
		WithMaxWorkers(3),
		WithArtifacts(
			Artifact{Name: "first.json", Render: RenderDetailedMatches},
			Artifact{Name: "broken.json", Render: func(io.Writer, bracket.Snapshot) error { return boom }},
			Artifact{Name: "last.csv", Render: RenderMatchesCSV},
		),
	)

	written, err := writer.Export(context.Background(), scenarioSnapshot())
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected renderer error, got=%v", err)
	}
	if !strings.Contains(err.Error(), "broken.json") {
		t.Fatalf("expected failing artifact named in error, got=%v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected the two healthy artifacts, got=%v", written)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "broken.json")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no partial file for failed artifact, stat=%v", statErr)
	}
	for _, path := range written {
		if _, statErr := os.Stat(path); statErr != nil {
			t.Fatalf("expected %s to exist: %v", path, statErr)
		}
	}
}
