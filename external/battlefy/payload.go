package battlefy

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
)

var nullLiteral = []byte("null")

// nullableInt accepts a JSON number, a numeric string or null. Fractional
// values and values outside the int range decode as null.
type nullableInt struct {
	Value *int
}

func (n *nullableInt) UnmarshalJSON(data []byte) error {
	n.Value = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return nil
	}

	var raw any
	if err := sonic.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	parsed, ok := asFloat64(raw)
	if !ok || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed != math.Trunc(parsed) {
		return nil
	}
	if parsed < math.MinInt || parsed >= math.MaxInt {
		return nil
	}
	value := int(parsed)
	n.Value = &value
	return nil
}

// nullableString accepts a string, a number, an object carrying a name, or null.
type nullableString struct {
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Value = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return nil
	}

	var raw any
	if err := sonic.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	switch typed := raw.(type) {
	case string:
		n.Value = &typed
	case float64:
		text := strconv.FormatFloat(typed, 'f', -1, 64)
		n.Value = &text
	case bool:
		text := strconv.FormatBool(typed)
		n.Value = &text
	case map[string]any:
		if name, ok := typed["name"].(string); ok {
			n.Value = &name
		}
	}
	return nil
}

func (n nullableString) String() string {
	if n.Value == nil {
		return ""
	}
	return strings.TrimSpace(*n.Value)
}

func asFloat64(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case json.Number:
		parsed, err := typed.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

type tournamentPayload struct {
	ID        nullableString    `json:"_id"`
	Name      nullableString    `json:"name"`
	Game      nullableString    `json:"game"`
	Status    nullableString    `json:"status"`
	StartTime nullableString    `json:"startTime"`
	EndTime   nullableString    `json:"endTime"`
	Stages    []json.RawMessage `json:"stages"`
	StageIDs  []json.RawMessage `json:"stageIDs"`
}

type stagePayload struct {
	ID   nullableString `json:"_id"`
	Name nullableString `json:"name"`
}

type slotPayload struct {
	ID     nullableString `json:"_id"`
	TeamID nullableString `json:"teamID"`
	Score  nullableInt    `json:"score"`
	Result nullableString `json:"result"`
}

type matchPayload struct {
	ID            nullableString    `json:"_id"`
	Round         nullableInt       `json:"round"`
	MatchNumber   nullableInt       `json:"matchNumber"`
	State         nullableString    `json:"state"`
	ScheduledTime nullableString    `json:"scheduledTime"`
	Teams         []json.RawMessage `json:"teams"`
	Top           json.RawMessage   `json:"top"`
	Bottom        json.RawMessage   `json:"bottom"`
}

type playerPayload struct {
	Name       nullableString `json:"name"`
	InGameName nullableString `json:"inGameName"`
	Username   nullableString `json:"username"`
}

type teamPayload struct {
	ID       nullableString    `json:"_id"`
	Name     nullableString    `json:"name"`
	TeamName nullableString    `json:"teamName"`
	Players  []json.RawMessage `json:"players"`
}

// splitArray returns the elements of a JSON array body.
func splitArray(raw []byte) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := sonic.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	return items, true
}

// singleRecord unwraps a body that is either an object or an array holding one.
func singleRecord(raw []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false
	}
	switch trimmed[0] {
	case '{':
		return json.RawMessage(trimmed), true
	case '[':
		items, ok := splitArray(trimmed)
		if !ok || len(items) == 0 {
			return nil, false
		}
		first := bytes.TrimSpace(items[0])
		if len(first) == 0 || first[0] != '{' {
			return nil, false
		}
		return json.RawMessage(first), true
	default:
		return nil, false
	}
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func decodeTournament(raw json.RawMessage, fallbackID string) (bracket.Tournament, error) {
	var payload tournamentPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return bracket.Tournament{}, err
	}

	out := bracket.Tournament{
		ID:        payload.ID.String(),
		Name:      payload.Name.Value,
		Game:      payload.Game.Value,
		Status:    payload.Status.Value,
		StartTime: payload.StartTime.Value,
		EndTime:   payload.EndTime.Value,
		Raw:       raw,
	}
	if out.ID == "" {
		out.ID = fallbackID
	}

	stages := payload.Stages
	if len(stages) == 0 {
		stages = payload.StageIDs
	}
	out.Stages = make([]bracket.StageRef, 0, len(stages))
	for _, item := range stages {
		ref, ok := decodeStageRef(item)
		if !ok {
			continue
		}
		ref.TournamentID = out.ID
		out.Stages = append(out.Stages, ref)
	}
	return out, nil
}

func decodeStageRef(raw json.RawMessage) (bracket.StageRef, bool) {
	if isObject(raw) {
		var payload stagePayload
		if err := sonic.Unmarshal(raw, &payload); err != nil {
			return bracket.StageRef{}, false
		}
		id := payload.ID.String()
		if id == "" {
			return bracket.StageRef{}, false
		}
		return bracket.StageRef{ID: id, Name: payload.Name.Value}, true
	}

	var id nullableString
	if err := sonic.Unmarshal(raw, &id); err != nil || id.String() == "" {
		return bracket.StageRef{}, false
	}
	return bracket.StageRef{ID: id.String()}, true
}

// decodeMatch maps one match record. A record that does not fit the expected
// shape still yields a Match carrying Raw so the full dump keeps it.
func decodeMatch(raw json.RawMessage) (bracket.Match, error) {
	out := bracket.Match{Status: bracket.StatusUnknown, Raw: raw}

	var payload matchPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return out, err
	}

	out.ID = payload.ID.String()
	out.Round = payload.Round.Value
	out.MatchNumber = payload.MatchNumber.Value
	out.ScheduledTime = payload.ScheduledTime.Value
	out.RawState = payload.State.Value
	out.Status = bracket.NormalizeStatus(payload.State.String())

	slots := payload.Teams
	if len(slots) == 0 {
		slots = []json.RawMessage{payload.Top, payload.Bottom}
	}
	out.Slots = make([]bracket.MatchSlot, 0, bracket.MaxSlots)
	for _, item := range slots {
		slot, ok := decodeSlot(item)
		if !ok {
			continue
		}
		out.Slots = append(out.Slots, slot)
	}
	return out, nil
}

func decodeSlot(raw json.RawMessage) (bracket.MatchSlot, bool) {
	if !isObject(raw) {
		return bracket.MatchSlot{}, false
	}
	var payload slotPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return bracket.MatchSlot{}, false
	}

	teamID := payload.ID.Value
	if teamID == nil || strings.TrimSpace(*teamID) == "" {
		teamID = payload.TeamID.Value
	}
	return bracket.MatchSlot{
		TeamID: teamID,
		Score:  payload.Score.Value,
		Result: payload.Result.Value,
	}, true
}

func decodeTeam(raw json.RawMessage) (bracket.Team, error) {
	out := bracket.Team{Raw: raw, Players: []bracket.Player{}}

	var payload teamPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return out, err
	}

	out.ID = payload.ID.String()
	out.Name = payload.Name.Value
	out.TeamName = payload.TeamName.Value
	for _, item := range payload.Players {
		if !isObject(item) {
			continue
		}
		var player playerPayload
		if err := sonic.Unmarshal(item, &player); err != nil {
			continue
		}
		out.Players = append(out.Players, bracket.Player{
			Name:       player.Name.Value,
			InGameName: player.InGameName.Value,
			Username:   player.Username.Value,
		})
	}
	return out, nil
}
