package bracket

import (
	"encoding/json"
	"strings"
)

// MatchStatus is the normalized lifecycle state of a match.
type MatchStatus string

const (
	StatusPending  MatchStatus = "pending"
	StatusActive   MatchStatus = "active"
	StatusComplete MatchStatus = "complete"
	StatusUnknown  MatchStatus = "unknown"
)

// DrawMarker is the winner value written when both slot scores are equal.
const DrawMarker = "draw"

func NormalizeStatus(value string) MatchStatus {
	switch MatchStatus(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending
	case StatusActive:
		return StatusActive
	case StatusComplete:
		return StatusComplete
	default:
		return StatusUnknown
	}
}

// Tournament is the snapshot returned by the tournament endpoint.
type Tournament struct {
	ID        string
	Name      *string
	Game      *string
	Status    *string
	StartTime *string
	EndTime   *string
	Stages    []StageRef
	Raw       json.RawMessage
}

// StageRef points at one bracket phase of a tournament.
type StageRef struct {
	ID           string
	Name         *string
	TournamentID string
}

// Match is one bracket match. Slots keeps upstream order and holds at most
// the slots the upstream record carried.
type Match struct {
	ID            string
	Round         *int
	MatchNumber   *int
	Status        MatchStatus
	RawState      *string
	ScheduledTime *string
	Slots         []MatchSlot
	Raw           json.RawMessage
}

func (m Match) HasID() bool {
	return strings.TrimSpace(m.ID) != ""
}

// MatchSlot is one team position inside a match.
type MatchSlot struct {
	TeamID *string
	Score  *int
	Result *string
}

// Team is a registered tournament team with its roster.
type Team struct {
	ID       string
	Name     *string
	TeamName *string
	Players  []Player
	Raw      json.RawMessage
}

// DisplayName prefers name, then teamName, then a placeholder built from the id.
func (t Team) DisplayName() string {
	if t.Name != nil && strings.TrimSpace(*t.Name) != "" {
		return *t.Name
	}
	if t.TeamName != nil && strings.TrimSpace(*t.TeamName) != "" {
		return *t.TeamName
	}
	return PlaceholderName(t.ID)
}

func PlaceholderName(id string) string {
	prefix := id
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "Team_" + prefix
}

// Player is a roster entry. Every field is optional upstream.
type Player struct {
	Name       *string `json:"name"`
	InGameName *string `json:"inGameName"`
	Username   *string `json:"username"`
}

// JoinedMatchRow is a match denormalized with its resolved teams.
type JoinedMatchRow struct {
	MatchID       *string      `json:"match_id"`
	Round         *int         `json:"round"`
	MatchNumber   *int         `json:"match_number"`
	State         MatchStatus  `json:"state"`
	ScheduledTime *string      `json:"scheduled_time"`
	Teams         []JoinedSlot `json:"teams"`
	Winner        *string      `json:"winner"`
}

// JoinedSlot is a match slot with the team name and roster copied in.
// Name stays nil when no team record matched the slot's team id.
type JoinedSlot struct {
	TeamID  *string  `json:"team_id"`
	Score   *int     `json:"score"`
	Result  *string  `json:"result"`
	Name    *string  `json:"name"`
	Players []Player `json:"players"`
}

// Slot returns the slot at index i, or nil when the row has fewer slots.
func (r JoinedMatchRow) Slot(i int) *JoinedSlot {
	if i < 0 || i >= len(r.Teams) {
		return nil
	}
	return &r.Teams[i]
}
