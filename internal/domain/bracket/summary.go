package bracket

const summaryTeamSampleSize = 5

// Summary is the aggregate report written next to the detailed exports.
type Summary struct {
	TotalMatches int            `json:"total_matches"`
	TotalTeams   int            `json:"total_teams"`
	TotalPlayers int            `json:"total_players"`
	MatchStatus  map[string]int `json:"match_status"`
	TeamsSample  []TeamSample   `json:"teams_sample"`
}

type TeamSample struct {
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
}

func Summarize(matches []Match, teams []Team) Summary {
	out := Summary{
		TotalMatches: len(matches),
		TotalTeams:   len(teams),
		MatchStatus:  make(map[string]int, 4),
		TeamsSample:  make([]TeamSample, 0, summaryTeamSampleSize),
	}
	for _, item := range matches {
		status := item.Status
		if status == "" {
			status = StatusUnknown
		}
		out.MatchStatus[string(status)]++
	}
	for idx, team := range teams {
		out.TotalPlayers += len(team.Players)
		if idx < summaryTeamSampleSize {
			out.TeamsSample = append(out.TeamsSample, TeamSample{
				Name:        team.DisplayName(),
				PlayerCount: len(team.Players),
			})
		}
	}
	return out
}
