package avatar

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidID       = crerr.New("identifier must be 24 lowercase hexadecimal characters")
	ErrUnparseableURL  = crerr.New("could not extract tournament and stage ids from url")
	ErrPromptAbandoned = crerr.New("identifier prompt closed before a valid id was entered")
)

var idPattern = regexp.MustCompile(`^[a-f0-9]{24}$`)

// Share links come in several shapes; the first pattern that matches wins.
var shareURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)battlefy\.com/.*?/([a-f0-9]{24})/stage/([a-f0-9]{24})`),
	regexp.MustCompile(`(?i)tournament/([a-f0-9]{24}).*?stage/([a-f0-9]{24})`),
	regexp.MustCompile(`(?i)/([a-f0-9]{24})/.*?/([a-f0-9]{24})/bracket`),
}

// IDs is a resolved tournament and stage identifier pair.
type IDs struct {
	TournamentID string
	StageID      string
}

// IDOptions carries the identifier inputs a CLI collected from flags.
type IDOptions struct {
	URL          string
	TournamentID string
	StageID      string
}

func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// ParseShareURL extracts the ids from a tournament share link as written.
// The caller still validates them, so uppercase hex is rejected like any
// other input channel.
func ParseShareURL(raw string) (IDs, bool) {
	for _, pattern := range shareURLPatterns {
		groups := pattern.FindStringSubmatch(raw)
		if len(groups) != 3 {
			continue
		}
		return IDs{
			TournamentID: groups[1],
			StageID:      groups[2],
		}, true
	}
	return IDs{}, false
}

// ResolveIDs picks the identifier source in order: share url, explicit pair,
// interactive prompt on in/out. The result always passes ValidID.
func ResolveIDs(opts IDOptions, in io.Reader, out io.Writer) (IDs, error) {
	var ids IDs
	switch {
	case strings.TrimSpace(opts.URL) != "":
		parsed, ok := ParseShareURL(strings.TrimSpace(opts.URL))
		if !ok {
			return IDs{}, crerr.Wrapf(ErrUnparseableURL, "url %q", opts.URL)
		}
		ids = parsed
	case strings.TrimSpace(opts.TournamentID) != "" && strings.TrimSpace(opts.StageID) != "":
		ids = IDs{
			TournamentID: strings.TrimSpace(opts.TournamentID),
			StageID:      strings.TrimSpace(opts.StageID),
		}
	default:
		if in == nil {
			return IDs{}, crerr.Wrap(ErrPromptAbandoned, "no input available")
		}
		prompted, err := PromptIDs(in, out)
		if err != nil {
			return IDs{}, err
		}
		ids = prompted
	}

	if !ValidID(ids.TournamentID) {
		return IDs{}, crerr.Wrapf(ErrInvalidID, "tournament id %q", ids.TournamentID)
	}
	if !ValidID(ids.StageID) {
		return IDs{}, crerr.Wrapf(ErrInvalidID, "stage id %q", ids.StageID)
	}
	return ids, nil
}

// PromptIDs asks for each id until a valid one is entered.
func PromptIDs(in io.Reader, out io.Writer) (IDs, error) {
	if out == nil {
		out = io.Discard
	}
	scanner := bufio.NewScanner(in)

	tournamentID, err := promptOne(scanner, out, "Tournament ID: ")
	if err != nil {
		return IDs{}, err
	}
	stageID, err := promptOne(scanner, out, "Stage ID: ")
	if err != nil {
		return IDs{}, err
	}
	return IDs{TournamentID: tournamentID, StageID: stageID}, nil
}

func promptOne(scanner *bufio.Scanner, out io.Writer, label string) (string, error) {
	for {
		_, _ = fmt.Fprint(out, label)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", crerr.Wrap(err, "read identifier")
			}
			return "", ErrPromptAbandoned
		}
		value := strings.TrimSpace(scanner.Text())
		if ValidID(value) {
			return value, nil
		}
		_, _ = fmt.Fprintln(out, "Invalid id: expected 24 hexadecimal characters")
	}
}
