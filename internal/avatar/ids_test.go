package avatar

import (
	"errors"
	"strings"
	"testing"
)

const (
	tournamentHex = "68a3db0a4f64b2003f7b4c3f"
	stageHex      = "68a64aec397e4d002b97de80"
)

func TestValidID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{tournamentHex, true},
		{"68A3DB0A4F64B2003F7B4C3F", false},
		{"68a3db0a4f64b2003f7b4c3", false},
		{"68a3db0a4f64b2003f7b4c3ff", false},
		{"68a3db0a4f64b2003f7b4c3g", false},
		{"", false},
		{" 68a3db0a4f64b2003f7b4c3f ", false},
	}
	for _, tc := range cases {
		if got := ValidID(tc.in); got != tc.want {
			t.Fatalf("ValidID(%q)=%v want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseShareURL(t *testing.T) {
	t.Parallel()

	cases := []string{
		"https://battlefy.com/some-org/spring-cup/" + tournamentHex + "/stage/" + stageHex + "/bracket/1",
		"https://example.com/tournament/" + tournamentHex + "/info?x=1&stage/" + stageHex,
		"https://battlefy.com/org/" + tournamentHex + "/x/" + stageHex + "/bracket",
		"HTTPS://BATTLEFY.COM/ORG/CUP/" + tournamentHex + "/STAGE/" + stageHex,
	}
	for _, in := range cases {
		ids, ok := ParseShareURL(in)
		if !ok {
			t.Fatalf("expected %q to parse", in)
		}
		if ids.TournamentID != tournamentHex || ids.StageID != stageHex {
			t.Fatalf("unexpected ids from %q: %+v", in, ids)
		}
	}
	if _, ok := ParseShareURL("https://battlefy.com/org/cup"); ok {
		t.Fatalf("expected url without ids to fail")
	}
}

func TestResolveIDs_Precedence(t *testing.T) {
	t.Parallel()

	shareURL := "https://battlefy.com/org/cup/" + tournamentHex + "/stage/" + stageHex + "/bracket"
	ids, err := ResolveIDs(IDOptions{URL: shareURL, TournamentID: "ignored", StageID: "ignored"}, nil, nil)
	if err != nil || ids.TournamentID != tournamentHex {
		t.Fatalf("expected url to win, got=%+v err=%v", ids, err)
	}

	ids, err = ResolveIDs(IDOptions{TournamentID: " " + tournamentHex + " ", StageID: stageHex}, nil, nil)
	if err != nil || ids.StageID != stageHex || ids.TournamentID != tournamentHex {
		t.Fatalf("expected explicit pair, got=%+v err=%v", ids, err)
	}

	if _, err := ResolveIDs(IDOptions{URL: "https://battlefy.com/nothing"}, nil, nil); !errors.Is(err, ErrUnparseableURL) {
		t.Fatalf("expected unparseable url error, got=%v", err)
	}
	if _, err := ResolveIDs(IDOptions{TournamentID: "abc", StageID: stageHex}, nil, nil); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected invalid id error, got=%v", err)
	}
	upper := "https://battlefy.com/org/cup/" + strings.ToUpper(tournamentHex) + "/stage/" + stageHex + "/bracket"
	parsed, ok := ParseShareURL(upper)
	if !ok || parsed.TournamentID != strings.ToUpper(tournamentHex) {
		t.Fatalf("expected ids captured as written, got=%+v ok=%v", parsed, ok)
	}
	if _, err := ResolveIDs(IDOptions{URL: upper}, nil, nil); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected uppercase url id rejected, got=%v", err)
	}
	if _, err := ResolveIDs(IDOptions{TournamentID: tournamentHex}, nil, nil); !errors.Is(err, ErrPromptAbandoned) {
		t.Fatalf("expected prompt error without input, got=%v", err)
	}
}

func TestPromptIDs_RepromptsUntilValid(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("nope\n" + tournamentHex + "\n\nXYZ\n" + stageHex + "\n")
	var out strings.Builder

	ids, err := ResolveIDs(IDOptions{}, in, &out)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if ids.TournamentID != tournamentHex || ids.StageID != stageHex {
		t.Fatalf("unexpected ids: %+v", ids)
	}
	if got := strings.Count(out.String(), "Invalid id"); got != 3 {
		t.Fatalf("expected 3 rejections, got=%d output=%q", got, out.String())
	}
}

func TestPromptIDs_EOF(t *testing.T) {
	t.Parallel()

	_, err := PromptIDs(strings.NewReader(tournamentHex+"\n"), nil)
	if !errors.Is(err, ErrPromptAbandoned) {
		t.Fatalf("expected abandoned prompt, got=%v", err)
	}
}
