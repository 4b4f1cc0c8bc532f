package bracket

import "strings"

// MaxSlots is the number of team positions a joined row carries.
const MaxSlots = 2

// IndexTeams builds an exact-id lookup. The first team wins when ids repeat.
func IndexTeams(teams []Team) map[string]Team {
	out := make(map[string]Team, len(teams))
	for _, item := range teams {
		if item.ID == "" {
			continue
		}
		if _, exists := out[item.ID]; exists {
			continue
		}
		out[item.ID] = item
	}
	return out
}

// JoinMatches resolves team names and rosters for every match slot.
// Output order equals input order.
func JoinMatches(matches []Match, teams []Team) []JoinedMatchRow {
	byID := IndexTeams(teams)
	out := make([]JoinedMatchRow, 0, len(matches))
	for _, item := range matches {
		out = append(out, JoinMatch(item, byID))
	}
	return out
}

func JoinMatch(item Match, teamsByID map[string]Team) JoinedMatchRow {
	row := JoinedMatchRow{
		Round:         item.Round,
		MatchNumber:   item.MatchNumber,
		State:         item.Status,
		ScheduledTime: item.ScheduledTime,
		Teams:         make([]JoinedSlot, 0, MaxSlots),
	}
	if row.State == "" {
		row.State = StatusUnknown
	}
	if item.HasID() {
		id := item.ID
		row.MatchID = &id
	}

	for _, slot := range item.Slots {
		if len(row.Teams) == MaxSlots {
			break
		}
		row.Teams = append(row.Teams, joinSlot(slot, teamsByID))
	}

	row.Winner = DetermineWinner(row.Slot(0), row.Slot(1))
	return row
}

func joinSlot(slot MatchSlot, teamsByID map[string]Team) JoinedSlot {
	out := JoinedSlot{
		TeamID:  slot.TeamID,
		Score:   slot.Score,
		Result:  slot.Result,
		Players: []Player{},
	}
	if slot.TeamID == nil {
		return out
	}

	team, ok := teamsByID[strings.TrimSpace(*slot.TeamID)]
	if !ok {
		return out
	}
	name := team.DisplayName()
	out.Name = &name
	if len(team.Players) > 0 {
		out.Players = team.Players
	}
	return out
}

// MissingTeamIDs lists slot team ids that have no team record, in first-seen order.
func MissingTeamIDs(matches []Match, teams []Team) []string {
	byID := IndexTeams(teams)
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range matches {
		for _, slot := range item.Slots {
			if slot.TeamID == nil {
				continue
			}
			id := strings.TrimSpace(*slot.TeamID)
			if id == "" {
				continue
			}
			if _, ok := byID[id]; ok {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
