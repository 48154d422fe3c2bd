package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Failure records a file that could not be processed.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report summarizes a directory run.
type Report struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Failures  []Failure     `json:"failures,omitempty"`
	Outputs   []string      `json:"outputs,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`

	mu sync.Mutex
}

func newReport() *Report {
	return &Report{RunID: uuid.New().String()}
}

func (r *Report) recordSuccess(output string) {
	r.mu.Lock()
	r.Processed++
	r.Outputs = append(r.Outputs, output)
	r.mu.Unlock()
}

func (r *Report) recordFailure(path string, err error) {
	r.mu.Lock()
	r.Failed++
	r.Failures = append(r.Failures, Failure{Path: path, Error: err.Error()})
	r.mu.Unlock()
}

// Summary returns a one-line description for the operator.
func (r *Report) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("%d image(s) processed, %d failed in %s",
		r.Processed, r.Failed, r.Elapsed.Round(time.Millisecond))
}

// ProcessDirectory processes every image under dir, descending into
// subdirectories only when recursive is set.
//
// Files are streamed from the directory walk to the workers; with more than
// one worker, files are processed concurrently but each page is still
// handled region by region. Per-file failures are logged and collected in
// the report. The returned error is non-nil only when dir itself cannot be
// read or ctx is canceled; the partial report is returned in both cases.
func (d *Driver) ProcessDirectory(ctx context.Context, dir string, recursive bool) (*Report, error) {
	start := time.Now()
	report := newReport()
	log := d.log.With("run", report.RunID)
	log.Info("Processing directory", "path", dir, "recursive", recursive, "workers", d.workers)

	g, gctx := errgroup.WithContext(ctx)
	paths := make(chan string)

	g.Go(func() error {
		defer close(paths)
		return walkImages(gctx, dir, recursive, log, func(path string) error {
			select {
			case paths <- path:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for path := range paths {
				if gctx.Err() != nil {
					continue
				}
				res, err := d.ProcessOne(gctx, path)
				if err != nil {
					log.Error("Failed to process image", "path", path, "error", err)
					report.recordFailure(path, err)
					continue
				}
				report.recordSuccess(res.Output)
			}
			return nil
		})
	}

	err := g.Wait()
	report.Elapsed = time.Since(start)
	if err != nil {
		log.Error("Directory processing stopped", "path", dir, "error", err)
		return report, fmt.Errorf("failed to process directory %s: %w", dir, err)
	}

	log.Info("Directory processing completed", "path", dir, "summary", report.Summary())
	return report, nil
}
