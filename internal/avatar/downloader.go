package avatar

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/bracket-exporter/internal/platform/fsutil"
	"github.com/riskibarqy/bracket-exporter/internal/platform/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultDir          = "avatars"
	defaultTimeout      = 15 * time.Second
	maxAvatarBytes      = 10 << 20
	avatarFilePerm      = 0o644
	avatarDirectoryPerm = 0o755
)

var ErrAvatarTooLarge = crerr.New("avatar image exceeds size limit")

// RosterSource returns the raw roster text that avatar urls are scraped from.
type RosterSource interface {
	FetchRoster(ctx context.Context, tournamentID string) (string, error)
}

type DownloaderConfig struct {
	Dir string
	// Delay is the pause between consecutive image requests. Skipped files do not wait.
	Delay   time.Duration
	Workers int
	Timeout time.Duration
	// MaxBytes caps one image body. Larger images fail instead of being truncated.
	MaxBytes int64
	// HTTPClient overrides the instrumented default client.
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Report counts the outcome of one download run.
type Report struct {
	Found      int
	Downloaded int
	Skipped    int
	Failed     int
}

type Downloader struct {
	source   RosterSource
	dir      string
	workers  int
	timeout  time.Duration
	maxBytes int64
	limiter  *rate.Limiter
	client   *http.Client
	logger   *logging.Logger
}

func NewDownloader(source RosterSource, cfg DownloaderConfig) *Downloader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = maxAvatarBytes
	}
	var limiter *rate.Limiter
	if cfg.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport.(*http.Transport).Clone()),
		}
	}

	return &Downloader{
		source:   source,
		dir:      dir,
		workers:  workers,
		timeout:  timeout,
		maxBytes: maxBytes,
		limiter:  limiter,
		client:   client,
		logger:   logger,
	}
}

// Run fetches the roster for tournamentID and downloads every avatar it references.
func (d *Downloader) Run(ctx context.Context, tournamentID string) (Report, error) {
	text, err := d.source.FetchRoster(ctx, tournamentID)
	if err != nil {
		return Report{}, crerr.Wrapf(err, "fetch roster for tournament %s", tournamentID)
	}
	d.logger.InfoContext(ctx, "roster fetched", "tournament_id", tournamentID, "bytes", len(text))

	urls := ExtractAvatarURLs(text)
	if len(urls) == 0 {
		d.logger.WarnContext(ctx, "no avatar urls found", "tournament_id", tournamentID)
		return Report{}, nil
	}
	return d.Download(ctx, urls)
}

type outcome int

const (
	outcomeDownloaded outcome = iota
	outcomeSkipped
	outcomeFailed
)

type downloadJob struct {
	url  string
	name string
}

// Download stores each url under its derived file name. Files already on
// disk are skipped, so re-running against the same urls writes nothing new.
func (d *Downloader) Download(ctx context.Context, urls []string) (Report, error) {
	report := Report{Found: len(urls)}
	if err := os.MkdirAll(d.dir, avatarDirectoryPerm); err != nil {
		return report, crerr.Wrapf(err, "create avatar dir %s", d.dir)
	}

	jobs := make([]downloadJob, 0, len(urls))
	claimed := make(map[string]struct{}, len(urls))
	for idx, item := range urls {
		name := AvatarFileName(item, idx+1)
		if _, ok := claimed[name]; ok {
			report.Skipped++
			continue
		}
		claimed[name] = struct{}{}
		jobs = append(jobs, downloadJob{url: item, name: name})
	}

	var downloaded, skipped, failed atomic.Int32
	record := func(job downloadJob, result outcome, err error) {
		switch result {
		case outcomeDownloaded:
			downloaded.Add(1)
		case outcomeSkipped:
			skipped.Add(1)
		default:
			failed.Add(1)
			d.logger.WarnContext(ctx, "avatar download failed", "file", job.name, "error", err)
		}
	}

	pool, err := ants.NewPool(d.workers)
	if err != nil {
		return report, crerr.Wrap(err, "create download pool")
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		job := job
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			result, err := d.fetchOne(ctx, job)
			record(job, result, err)
		}); err != nil {
			workers.Done()
			record(job, outcomeFailed, err)
		}
	}
	workers.Wait()

	report.Downloaded = int(downloaded.Load())
	report.Skipped += int(skipped.Load())
	report.Failed = int(failed.Load())
	d.logger.InfoContext(ctx, "avatar download finished",
		"found", report.Found,
		"downloaded", report.Downloaded,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"dir", d.dir,
	)
	return report, ctx.Err()
}

func (d *Downloader) fetchOne(ctx context.Context, job downloadJob) (outcome, error) {
	path := filepath.Join(d.dir, job.name)
	if fsutil.Exists(path) {
		d.logger.DebugContext(ctx, "avatar already present", "file", job.name)
		return outcomeSkipped, nil
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return outcomeFailed, err
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, job.url, nil)
	if err != nil {
		return outcomeFailed, crerr.Wrap(err, "build request")
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return outcomeFailed, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return outcomeFailed, crerr.Newf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return outcomeFailed, crerr.Wrap(err, "read body")
	}
	if int64(len(data)) > d.maxBytes {
		return outcomeFailed, crerr.Wrapf(ErrAvatarTooLarge, "more than %d bytes", d.maxBytes)
	}
	if err := fsutil.WriteFileAtomic(path, data, avatarFilePerm); err != nil {
		return outcomeFailed, err
	}
	d.logger.InfoContext(ctx, "avatar downloaded", "file", job.name, "bytes", len(data))
	return outcomeDownloaded, nil
}
