// Package fetch fans detail requests out to the scan service through a
// bounded worker pool. Analytics stay pure; this is the only place report
// building touches the network.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/rankwatch/internal/rankapi"
)

const (
	// DefaultConcurrency bounds in-flight detail fetches.
	DefaultConcurrency = 5

	// DefaultTimeout applies per individual fetch.
	DefaultTimeout = 10 * time.Second
)

// Source supplies per-scan detail. *rankapi.Client satisfies this.
type Source interface {
	GetScan(ctx context.Context, uuid string) (*rankapi.Scan, error)
}

// Options bound the fan-out. Zero values fall back to the defaults.
// Progress, when set, is called once per scan as its fetch settles; it
// must be safe to call from multiple goroutines.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	Progress    func()
}

// Details fetches keyword-level detail for each scan and returns the merged
// slice in input order. A failing fetch keeps that scan's summary and adds
// one warning; the batch itself never fails.
func Details(ctx context.Context, src Source, scans []rankapi.Scan, opts Options) ([]rankapi.Scan, []string) {
	if len(scans) == 0 {
		return nil, nil
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	out := make([]rankapi.Scan, len(scans))
	copy(out, scans)
	// One slot per scan keeps warnings in input order without a lock.
	warnSlots := make([]string, len(scans))

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i := range scans {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if opts.Progress != nil {
				defer opts.Progress()
			}

			// The select below picks arbitrarily when both cases are
			// ready, so a dead context needs checking first.
			if ctx.Err() != nil {
				warnSlots[idx] = fmt.Sprintf("%s: skipped: %v", scanLabel(scans[idx]), ctx.Err())
				return
			}

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				warnSlots[idx] = fmt.Sprintf("%s: skipped: %v", scanLabel(scans[idx]), ctx.Err())
				return
			}

			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			detail, err := src.GetScan(fetchCtx, scans[idx].UUID)
			if err != nil {
				warnSlots[idx] = fmt.Sprintf("%s: keyword detail unavailable: %v", scanLabel(scans[idx]), err)
				return
			}
			out[idx] = *detail
		}(i)
	}
	wg.Wait()

	var warnings []string
	for _, w := range warnSlots {
		if w != "" {
			warnings = append(warnings, w)
		}
	}
	return out, warnings
}

func scanLabel(s rankapi.Scan) string {
	if s.Business.Name != "" {
		return s.Business.Name
	}
	return "scan " + s.UUID
}
