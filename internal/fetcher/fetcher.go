// Package fetcher downloads product documents with a bounded worker pool.
// Most requests against the free catalog tier come back as fast 404s, so a
// fairly high worker count pays off. Fetches are independent and idempotent;
// resumability comes from the seen set and the mirror files on disk.
package fetcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/feed"
	"github.com/kailas-cloud/harvest/internal/metrics"
	"github.com/kailas-cloud/harvest/internal/resume"
)

// Job is one product document to mirror locally.
type Job struct {
	ProductID string
	Path      string // feed-relative document path
	LocalPath string // mirror destination
}

// Tally is the outcome count of a fetch run. Counters are approximate under
// concurrent progress logging but exact once Run returns.
type Tally struct {
	Downloaded int64
	Restricted int64
	Failed     int64
	Skipped    int64
}

// Fetcher runs fetch jobs against the feed with bounded concurrency.
type Fetcher struct {
	client  *feed.Client
	seen    resume.SeenSet
	workers int
	log     *zap.Logger
	met     *metrics.Set
}

// New creates a fetcher.
func New(client *feed.Client, seen resume.SeenSet, workers int, log *zap.Logger, met *metrics.Set) *Fetcher {
	if workers <= 0 {
		workers = 16
	}
	return &Fetcher{client: client, seen: seen, workers: workers, log: log, met: met}
}

// Run processes all jobs and returns the outcome tally. Individual failures
// never abort the run; ctx cancellation stops dispatching new jobs.
func (f *Fetcher) Run(ctx context.Context, jobs []Job) Tally {
	var (
		downloaded, restricted, failed, skipped atomic.Int64
		wg                                      sync.WaitGroup
	)

	jobCh := make(chan Job)
	start := time.Now()

	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				switch f.fetchOne(ctx, job) {
				case outcomeDownloaded:
					downloaded.Add(1)
				case outcomeRestricted:
					restricted.Add(1)
				case outcomeSkipped:
					skipped.Add(1)
				default:
					failed.Add(1)
				}

				if n := downloaded.Load(); n > 0 && n%100 == 0 {
					f.log.Info("fetch progress",
						zap.Int64("downloaded", n),
						zap.Int64("restricted", restricted.Load()),
						zap.Int64("failed", failed.Load()),
					)
				}
			}
		}()
	}

dispatch:
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			break dispatch
		case jobCh <- job:
		}
	}
	close(jobCh)
	wg.Wait()

	t := Tally{
		Downloaded: downloaded.Load(),
		Restricted: restricted.Load(),
		Failed:     failed.Load(),
		Skipped:    skipped.Load(),
	}
	f.log.Info("fetch complete",
		zap.Int64("downloaded", t.Downloaded),
		zap.Int64("restricted", t.Restricted),
		zap.Int64("failed", t.Failed),
		zap.Int64("skipped", t.Skipped),
		zap.Duration("elapsed", time.Since(start).Round(time.Second)),
	)
	return t
}

type outcome int

const (
	outcomeDownloaded outcome = iota
	outcomeRestricted
	outcomeFailed
	outcomeSkipped
)

func (f *Fetcher) fetchOne(ctx context.Context, job Job) outcome {
	// Resumability: no network call when the id or the mirror file exists.
	if seen, err := f.seen.Contains(ctx, job.ProductID); err == nil && seen {
		f.met.FetchOutcome("skipped")
		return outcomeSkipped
	}
	if _, err := os.Stat(job.LocalPath); err == nil {
		f.met.FetchOutcome("skipped")
		return outcomeSkipped
	}

	body, res, err := f.client.Fetch(ctx, job.Path)
	f.met.FetchOutcome(res.String())

	switch res {
	case feed.OutcomeOK:
		if err := writeMirror(job.LocalPath, body); err != nil {
			f.log.Warn("mirror write failed", zap.String("path", job.LocalPath), zap.Error(err))
			return outcomeFailed
		}
		if err := f.seen.Add(ctx, job.ProductID); err != nil {
			f.log.Warn("seen set update failed", zap.String("id", job.ProductID), zap.Error(err))
		}
		return outcomeDownloaded
	case feed.OutcomeRestricted:
		return outcomeRestricted
	default:
		if err != nil {
			f.log.Debug("fetch failed", zap.String("path", job.Path), zap.Error(err))
		}
		return outcomeFailed
	}
}

func writeMirror(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
