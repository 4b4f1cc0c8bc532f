package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
)

var (
	MatchesCSVHeader = []string{
		"Match_ID", "Round", "Match_Number", "Status", "Scheduled_Time",
		"Team1_ID", "Team1_Name", "Team1_Score",
		"Team2_ID", "Team2_Name", "Team2_Score",
		"Winner",
	}
	RostersCSVHeader = []string{"Team_ID", "Team_Name", "Player_Name", "InGame_Name", "Username"}
)

// emptyObject stands in for a tournament that could not be fetched.
var emptyObject = json.RawMessage("{}")

type fullDump struct {
	TournamentInfo json.RawMessage   `json:"tournament_info"`
	Teams          []json.RawMessage `json:"teams"`
	Matches        []json.RawMessage `json:"matches"`
	TotalMatches   int               `json:"total_matches"`
	TotalTeams     int               `json:"total_teams"`
}

type summaryDocument struct {
	bracket.Summary
	RunID       string               `json:"run_id,omitempty"`
	GeneratedAt string               `json:"generated_at"`
	FetchErrors []bracket.Diagnostic `json:"fetch_errors"`
}

// RenderFullDump writes the upstream records as fetched, after enrichment.
func RenderFullDump(w io.Writer, snapshot bracket.Snapshot) error {
	doc := fullDump{
		TournamentInfo: emptyObject,
		Teams:          make([]json.RawMessage, 0, len(snapshot.Teams)),
		Matches:        make([]json.RawMessage, 0, len(snapshot.Matches)),
		TotalMatches:   len(snapshot.Matches),
		TotalTeams:     len(snapshot.Teams),
	}
	if snapshot.Tournament != nil {
		raw, err := tournamentRecord(*snapshot.Tournament)
		if err != nil {
			return err
		}
		doc.TournamentInfo = raw
	}
	for _, item := range snapshot.Teams {
		raw, err := teamRecord(item)
		if err != nil {
			return err
		}
		doc.Teams = append(doc.Teams, raw)
	}
	for _, item := range snapshot.Matches {
		raw, err := matchRecord(item)
		if err != nil {
			return err
		}
		doc.Matches = append(doc.Matches, raw)
	}
	return writeJSON(w, doc)
}

func RenderDetailedMatches(w io.Writer, snapshot bracket.Snapshot) error {
	rows := snapshot.Rows
	if rows == nil {
		rows = []bracket.JoinedMatchRow{}
	}
	return writeJSON(w, rows)
}

func RenderSummary(w io.Writer, snapshot bracket.Snapshot) error {
	diagnostics := snapshot.Diagnostics
	if diagnostics == nil {
		diagnostics = []bracket.Diagnostic{}
	}
	generatedAt := snapshot.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	return writeJSON(w, summaryDocument{
		Summary:     snapshot.Summary,
		RunID:       snapshot.RunID,
		GeneratedAt: generatedAt.Format(time.RFC3339),
		FetchErrors: diagnostics,
	})
}

// RenderMatchesCSV writes one row per joined match. Absent values are empty cells.
func RenderMatchesCSV(w io.Writer, snapshot bracket.Snapshot) error {
	out := csv.NewWriter(w)
	if err := out.Write(MatchesCSVHeader); err != nil {
		return err
	}
	for _, row := range snapshot.Rows {
		first, second := row.Slot(0), row.Slot(1)
		record := []string{
			stringCell(row.MatchID),
			intCell(row.Round),
			intCell(row.MatchNumber),
			string(row.State),
			stringCell(row.ScheduledTime),
		}
		record = append(record, slotCells(first)...)
		record = append(record, slotCells(second)...)
		record = append(record, stringCell(row.Winner))
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// RenderRostersCSV writes one row per (team, player) pair.
func RenderRostersCSV(w io.Writer, snapshot bracket.Snapshot) error {
	out := csv.NewWriter(w)
	if err := out.Write(RostersCSVHeader); err != nil {
		return err
	}
	for _, team := range snapshot.Teams {
		name := team.DisplayName()
		for _, player := range team.Players {
			if err := out.Write([]string{
				team.ID,
				name,
				stringCell(player.Name),
				stringCell(player.InGameName),
				stringCell(player.Username),
			}); err != nil {
				return err
			}
		}
	}
	out.Flush()
	return out.Error()
}

func slotCells(slot *bracket.JoinedSlot) []string {
	if slot == nil {
		return []string{"", "", ""}
	}
	return []string{stringCell(slot.TeamID), stringCell(slot.Name), intCell(slot.Score)}
}

func stringCell(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func intCell(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func writeJSON(w io.Writer, value any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// tournamentRecord returns the raw upstream body, or the typed fields under
// upstream key names when no body was kept.
func tournamentRecord(item bracket.Tournament) (json.RawMessage, error) {
	if len(item.Raw) > 0 {
		return item.Raw, nil
	}
	stages := make([]map[string]any, 0, len(item.Stages))
	for _, stage := range item.Stages {
		stages = append(stages, map[string]any{"_id": stage.ID, "name": stage.Name})
	}
	return sonic.ConfigStd.Marshal(map[string]any{
		"_id":       item.ID,
		"name":      item.Name,
		"game":      item.Game,
		"status":    item.Status,
		"startTime": item.StartTime,
		"endTime":   item.EndTime,
		"stages":    stages,
	})
}

func teamRecord(item bracket.Team) (json.RawMessage, error) {
	if len(item.Raw) > 0 {
		return item.Raw, nil
	}
	players := item.Players
	if players == nil {
		players = []bracket.Player{}
	}
	return sonic.ConfigStd.Marshal(map[string]any{
		"_id":      item.ID,
		"name":     item.Name,
		"teamName": item.TeamName,
		"players":  players,
	})
}

func matchRecord(item bracket.Match) (json.RawMessage, error) {
	if len(item.Raw) > 0 {
		return item.Raw, nil
	}
	slots := make([]map[string]any, 0, len(item.Slots))
	for _, slot := range item.Slots {
		slots = append(slots, map[string]any{"_id": slot.TeamID, "score": slot.Score, "result": slot.Result})
	}
	state := any(item.RawState)
	if item.RawState == nil && item.Status != "" {
		state = string(item.Status)
	}
	record := map[string]any{
		"round":         item.Round,
		"matchNumber":   item.MatchNumber,
		"state":         state,
		"scheduledTime": item.ScheduledTime,
		"teams":         slots,
	}
	if item.HasID() {
		record["_id"] = item.ID
	}
	return sonic.ConfigStd.Marshal(record)
}
