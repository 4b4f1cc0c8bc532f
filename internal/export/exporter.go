package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
	"github.com/riskibarqy/bracket-exporter/internal/platform/fsutil"
	"github.com/riskibarqy/bracket-exporter/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"
)

// Fixed artifact names.
const (
	FullDumpFile        = "COMPLETE_BRACKET_DATA.json"
	DetailedMatchesFile = "DETAILED_MATCHES.json"
	SummaryFile         = "BRACKET_SUMMARY.json"
	MatchesCSVFile      = "ALL_MATCHES_CSV.csv"
	RostersCSVFile      = "TEAMS_WITH_PLAYERS.csv"
)

// RenderFunc serializes one artifact of a snapshot.
type RenderFunc func(w io.Writer, snapshot bracket.Snapshot) error

type Artifact struct {
	Name   string
	Render RenderFunc
}

func DefaultArtifacts() []Artifact {
	return []Artifact{
		{Name: FullDumpFile, Render: RenderFullDump},
		{Name: DetailedMatchesFile, Render: RenderDetailedMatches},
		{Name: SummaryFile, Render: RenderSummary},
		{Name: MatchesCSVFile, Render: RenderMatchesCSV},
		{Name: RostersCSVFile, Render: RenderRostersCSV},
	}
}

// Writer writes every artifact into one directory. Artifacts are independent:
// a failing one never prevents the others from being written.
type Writer struct {
	dir        string
	artifacts  []Artifact
	maxWorkers int
	logger     *logging.Logger
}

type WriterOption func(*Writer)

func WithArtifacts(artifacts ...Artifact) WriterOption {
	return func(w *Writer) {
		w.artifacts = artifacts
	}
}

func WithMaxWorkers(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.maxWorkers = n
		}
	}
}

func NewWriter(dir string, logger *logging.Logger, opts ...WriterOption) *Writer {
	if logger == nil {
		logger = logging.Default()
	}
	if dir == "" {
		dir = "."
	}
	w := &Writer{
		dir:        dir,
		artifacts:  DefaultArtifacts(),
		maxWorkers: 1,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Export renders and writes all artifacts. It returns the paths written, in
// artifact order, and an error joining every artifact that failed.
func (w *Writer) Export(ctx context.Context, snapshot bracket.Snapshot) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create output dir %s", w.dir)
	}

	written := make([]string, len(w.artifacts))
	var mu sync.Mutex

	p := pool.New().WithErrors().WithMaxGoroutines(w.maxWorkers)
	for idx, artifact := range w.artifacts {
		idx, artifact := idx, artifact
		p.Go(func() error {
			if err := ctx.Err(); err != nil {
				return crerr.Wrapf(err, "write %s", artifact.Name)
			}
			path, err := w.writeArtifact(snapshot, artifact)
			if err != nil {
				w.logger.ErrorContext(ctx, "artifact export failed", "artifact", artifact.Name, "error", err)
				return crerr.Wrapf(err, "write %s", artifact.Name)
			}
			mu.Lock()
			written[idx] = path
			mu.Unlock()
			return nil
		})
	}
	err := p.Wait()

	out := make([]string, 0, len(written))
	for _, path := range written {
		if path != "" {
			out = append(out, path)
		}
	}
	return out, err
}

func (w *Writer) writeArtifact(snapshot bracket.Snapshot, artifact Artifact) (string, error) {
	if artifact.Render == nil {
		return "", crerr.Newf("artifact %s has no renderer", artifact.Name)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	started := time.Now()
	if err := artifact.Render(buf, snapshot); err != nil {
		return "", crerr.Wrap(err, "render")
	}

	path := filepath.Join(w.dir, artifact.Name)
	if err := fsutil.WriteFileAtomic(path, buf.B, 0o644); err != nil {
		return "", err
	}
	w.logger.Info("artifact written", "path", path, "bytes", buf.Len(), "duration", time.Since(started))
	return path, nil
}
