package scanner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ironsheep/doc-scanner/internal/imaging"
)

// FileJob is one photograph to rectify.
type FileJob struct {
	Input  string
	Output string
}

// FileResult reports the outcome of one FileJob.
type FileResult struct {
	Input     string
	Output    string
	Detection *Detection
	Err       error
}

// BatchConfig holds configuration for RectifyFiles.
type BatchConfig struct {
	Workers    int                   // Number of parallel workers (0 = runtime.NumCPU())
	OnProgress func(done, total int) // Optional, called after each file
}

type fileJob struct {
	index int
	job   FileJob
}

type fileResult struct {
	index int
	det   *Detection
	err   error
}

// RectifyFiles scans every job with a pool of workers. Results are returned
// in the same order as jobs, including failed ones.
//
// Cancelling ctx stops dispatching new files; jobs that never ran report
// ctx.Err(). The returned error is the first per-file failure, if any.
func (s *Scanner) RectifyFiles(ctx context.Context, jobs []FileJob, cfg BatchConfig) ([]FileResult, error) {
	if len(jobs) == 0 {
		return nil, errors.New("no files provided")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	workers := min(cfg.Workers, len(jobs))

	queue := make(chan fileJob, len(jobs))
	results := make(chan fileResult, len(jobs))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go s.worker(ctx, queue, results, &wg)
	}

	go func() {
		defer close(queue)
		for i, job := range jobs {
			select {
			case queue <- fileJob{index: i, job: job}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]FileResult, len(jobs))
	done := make([]bool, len(jobs))
	processed := 0
	for r := range results {
		ordered[r.index].Detection = r.det
		ordered[r.index].Err = r.err
		done[r.index] = true
		processed++
		if cfg.OnProgress != nil {
			cfg.OnProgress(processed, len(jobs))
		}
	}

	var firstErr error
	for i, job := range jobs {
		ordered[i].Input = job.Input
		ordered[i].Output = job.Output
		if !done[i] {
			ordered[i].Err = ctx.Err()
			if ordered[i].Err == nil {
				ordered[i].Err = context.Canceled
			}
		}
		if ordered[i].Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", job.Input, ordered[i].Err)
		}
	}
	return ordered, firstErr
}

func (s *Scanner) worker(ctx context.Context, queue <-chan fileJob, results chan<- fileResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case j, ok := <-queue:
			if !ok {
				return
			}
			det, err := s.ScanFile(ctx, j.job.Input, j.job.Output)
			if err != nil {
				s.log.Error("failed to rectify file", "input", j.job.Input, "error", err)
			}
			// results is buffered for every job, so this never blocks.
			results <- fileResult{index: j.index, det: det, err: err}
		case <-ctx.Done():
			return
		}
	}
}

// DefaultOutputExt is used when the input extension names a format that
// cannot be written.
const DefaultOutputExt = ".png"

// OutputPath returns where the page for input is written: outDir (or the
// directory of input when empty), the input base name plus suffix, and the
// extension of format (or of input when empty). An extension Save cannot
// encode, or none at all, becomes DefaultOutputExt.
//
//	OutputPath("scans/receipt.jpg", "out", "_page", "png") == "out/receipt_page.png"
//	OutputPath("scans/receipt.webp", "", "_page", "") == "scans/receipt_page.png"
func OutputPath(input, outDir, suffix, format string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(filepath.Base(input), ext)
	if format != "" {
		ext = "." + strings.TrimPrefix(strings.ToLower(format), ".")
	}
	if !imaging.Writable(ext) {
		ext = DefaultOutputExt
	}
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, base+suffix+ext)
}
