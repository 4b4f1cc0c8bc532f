package battlefy

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
)

// GetJSON fetches path relative to the API base and decodes it into target.
// The raw body is returned alongside so callers can keep upstream records intact.
func (c *Client) GetJSON(ctx context.Context, path string, target any) ([]byte, error) {
	raw, err := c.get(ctx, c.baseURL+path, "application/json")
	if err != nil {
		return nil, err
	}
	if target == nil {
		return raw, nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, crerr.Wrapf(ErrDecode, "decode %s: %v", path, err)
	}
	return raw, nil
}

// GetRaw fetches an absolute URL and returns the body untouched.
func (c *Client) GetRaw(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL, "*/*")
}

func (c *Client) FetchTournament(ctx context.Context, tournamentID string) (bracket.Tournament, error) {
	path := "/tournaments/" + url.PathEscape(tournamentID)
	raw, err := c.GetJSON(ctx, path, nil)
	if err != nil {
		return bracket.Tournament{}, err
	}

	record, ok := singleRecord(raw)
	if !ok {
		return bracket.Tournament{}, crerr.Wrapf(ErrDecode, "decode %s: expected object", path)
	}
	out, err := decodeTournament(record, tournamentID)
	if err != nil {
		return bracket.Tournament{}, crerr.Wrapf(ErrDecode, "decode %s: %v", path, err)
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context, tournamentID string) ([]bracket.Team, error) {
	path := "/tournaments/" + url.PathEscape(tournamentID) + "/teams"
	raw, err := c.GetJSON(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	items, ok := splitArray(raw)
	if !ok {
		return nil, crerr.Wrapf(ErrDecode, "decode %s: expected array", path)
	}
	out := make([]bracket.Team, 0, len(items))
	for idx, item := range items {
		if !isObject(item) {
			c.logger.WarnContext(ctx, "skip non-object team record", "path", path, "index", idx)
			continue
		}
		team, decodeErr := decodeTeam(item)
		if decodeErr != nil {
			c.logger.WarnContext(ctx, "team record kept raw", "path", path, "index", idx, "error", decodeErr)
		}
		out = append(out, team)
	}
	return out, nil
}

func (c *Client) FetchMatches(ctx context.Context, stageID string) ([]bracket.Match, error) {
	path := "/stages/" + url.PathEscape(stageID) + "/matches"
	raw, err := c.GetJSON(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	items, ok := splitArray(raw)
	if !ok {
		return nil, crerr.Wrapf(ErrDecode, "decode %s: expected array", path)
	}
	out := make([]bracket.Match, 0, len(items))
	for idx, item := range items {
		if !isObject(item) {
			c.logger.WarnContext(ctx, "skip non-object match record", "path", path, "index", idx)
			continue
		}
		match, decodeErr := decodeMatch(item)
		if decodeErr != nil {
			c.logger.WarnContext(ctx, "match record kept raw", "path", path, "index", idx, "error", decodeErr)
		}
		out = append(out, match)
	}
	return out, nil
}

func (c *Client) FetchMatch(ctx context.Context, matchID string) (bracket.Match, error) {
	if strings.TrimSpace(matchID) == "" {
		return bracket.Match{}, crerr.New("match id is required")
	}
	path := "/matches/" + url.PathEscape(matchID)
	raw, err := c.GetJSON(ctx, path, nil)
	if err != nil {
		return bracket.Match{}, err
	}

	record, ok := singleRecord(raw)
	if !ok {
		return bracket.Match{}, crerr.Wrapf(ErrDecode, "decode %s: expected object", path)
	}
	out, err := decodeMatch(record)
	if err != nil {
		return bracket.Match{}, crerr.Wrapf(ErrDecode, "decode %s: %v", path, err)
	}
	if out.ID == "" {
		out.ID = matchID
	}
	return out, nil
}

func (c *Client) FetchTeam(ctx context.Context, teamID string) (bracket.Team, error) {
	path := "/teams/" + url.PathEscape(teamID)
	raw, err := c.GetJSON(ctx, path, nil)
	if err != nil {
		return bracket.Team{}, err
	}

	record, ok := singleRecord(raw)
	if !ok {
		return bracket.Team{}, crerr.Wrapf(ErrDecode, "decode %s: expected object", path)
	}
	out, err := decodeTeam(record)
	if err != nil {
		return bracket.Team{}, crerr.Wrapf(ErrDecode, "decode %s: %v", path, err)
	}
	if out.ID == "" {
		out.ID = teamID
	}
	return out, nil
}

// FetchRoster returns the CDN team listing for a tournament as raw text.
func (c *Client) FetchRoster(ctx context.Context, tournamentID string) (string, error) {
	raw, err := c.GetRaw(ctx, c.RosterURL(tournamentID))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Client) RosterURL(tournamentID string) string {
	return fmt.Sprintf("%s/tournaments/%s/teams", c.cdnBaseURL, url.PathEscape(tournamentID))
}
