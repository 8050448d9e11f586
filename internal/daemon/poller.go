package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
	"github.com/blackwell-systems/rankwatch/internal/config"
	"github.com/blackwell-systems/rankwatch/internal/rankapi"
	"github.com/blackwell-systems/rankwatch/internal/store"
)

// ScanSource lists scan summaries for drop detection. *rankapi.Client
// satisfies it.
type ScanSource interface {
	AllScans(ctx context.Context) ([]rankapi.Scan, error)
}

// Poller polls the scan listing on an interval and compares each business's
// newest scan against the mark saved from earlier polls. When a new scan's
// average rank is worse than the marked rank by more than the drop
// threshold, it logs an alert. Marks persist in the store, so an alert
// fires once per scan, not once per poll.
type Poller struct {
	source     ScanSource
	store      *store.Store
	log        *zap.SugaredLogger
	configPath string

	mu        sync.Mutex
	interval  time.Duration
	threshold float64

	ctx    context.Context
	cancel context.CancelFunc
	ticker *time.Ticker
	fsw    *fsnotify.Watcher
	wg     sync.WaitGroup
}

// New creates a Poller. configPath is the config file to watch for live
// setting reloads; empty disables reloading (env-only configuration). A nil
// logger falls back to a no-op logger.
func New(src ScanSource, st *store.Store, cfg *config.Config, configPath string, log *zap.SugaredLogger) (*Poller, error) {
	if src == nil {
		return nil, fmt.Errorf("scan source cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		source:    src,
		store:     st,
		log:       log,
		interval:  cfg.Watch.Interval,
		threshold: cfg.Watch.DropThreshold,
		ctx:       ctx,
		cancel:    cancel,
	}
	if configPath != "" {
		p.configPath = filepath.Clean(configPath)
	}
	return p, nil
}

// Start sweeps the scan listing once immediately, then begins interval
// polling. When a config path was given it also starts watching the config
// file for live watch-setting changes.
func (p *Poller) Start() error {
	if p.configPath != "" {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			p.log.Warnw("config reload disabled", "error", err)
		} else {
			// Watch the directory: editors replace the file on save, and a
			// watch on the old inode goes quiet after the rename.
			if err := fsw.Add(filepath.Dir(p.configPath)); err != nil {
				fsw.Close()
				p.log.Warnw("config reload disabled", "path", p.configPath, "error", err)
			} else {
				p.fsw = fsw
			}
		}
	}

	interval, threshold := p.settings()
	p.log.Infow("watch started", "interval", interval, "drop_threshold", threshold)

	p.sweep()

	p.ticker = time.NewTicker(interval)

	p.wg.Add(1)
	go p.runPollLoop()

	if p.fsw != nil {
		p.wg.Add(1)
		go p.runReloadLoop()
	}

	return nil
}

// Stop halts polling and config watching. Safe to call before Start and
// more than once; an in-flight sweep is canceled rather than waited out.
func (p *Poller) Stop() error {
	p.cancel()
	if p.ticker != nil {
		p.ticker.Stop()
	}
	if p.fsw != nil {
		p.fsw.Close()
	}
	p.wg.Wait()
	return nil
}

func (p *Poller) runPollLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ticker.C:
			p.sweep()
		case <-p.ctx.Done():
			return
		}
	}
}

// sweep pulls the full scan listing and updates the per-business marks,
// alerting on drops beyond the threshold. Errors are logged, never fatal:
// the next tick retries.
func (p *Poller) sweep() {
	scans, err := p.source.AllScans(p.ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return // shutting down
		}
		p.log.Warnw("scan poll failed", "error", err)
		return
	}

	_, threshold := p.settings()
	grouped := analyzer.GroupScans(scans)

	for _, name := range grouped.Names() {
		latest := grouped.Latest(name)

		mark, err := p.store.GetScanMark(name)
		if err != nil {
			p.log.Warnw("failed to load scan mark", "business", name, "error", err)
			continue
		}

		if mark == nil {
			p.log.Infow("tracking business", "business", name, "scan", latest.UUID)
			p.saveMark(name, latest, latest.AvgRank)
			continue
		}
		if mark.ScanUUID == latest.UUID {
			continue // nothing new since the last poll
		}

		// A rankless scan advances the mark but keeps the last known rank
		// as the comparison baseline.
		if latest.AvgRank == nil {
			p.saveMark(name, latest, mark.AvgRank)
			continue
		}

		if mark.AvgRank != nil {
			drop := *latest.AvgRank - *mark.AvgRank
			if drop > threshold {
				p.log.Warnw("ranking drop detected",
					"business", name,
					"from", *mark.AvgRank,
					"to", *latest.AvgRank,
					"drop", drop,
					"scan", latest.UUID,
				)
			}
		}
		p.saveMark(name, latest, latest.AvgRank)
	}

	p.log.Debugw("poll complete", "scans", len(scans), "businesses", grouped.Len())
}

func (p *Poller) saveMark(name string, latest *rankapi.Scan, avgRank *float64) {
	mark := &store.ScanMark{
		Business: name,
		ScanUUID: latest.UUID,
		AvgRank:  avgRank,
		SeenAt:   time.Now().UTC(),
	}
	if err := p.store.UpsertScanMark(mark); err != nil {
		p.log.Warnw("failed to save scan mark", "business", name, "error", err)
	}
}

func (p *Poller) runReloadLoop() {
	defer p.wg.Done()

	for {
		select {
		case ev, ok := <-p.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != p.configPath {
				continue
			}
			// Write covers in-place saves; Create covers the temp-file
			// rename dance editors do.
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.reloadConfig()
		case err, ok := <-p.fsw.Errors:
			if !ok {
				return
			}
			p.log.Warnw("config watcher error", "error", err)
		}
	}
}

// reloadConfig re-reads the config file and applies the watch settings.
// Only interval and drop threshold reload live; API and logging changes
// need a restart. A broken file keeps the current settings.
func (p *Poller) reloadConfig() {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		p.log.Warnw("config reload failed, keeping current settings", "error", err)
		return
	}

	p.mu.Lock()
	oldInterval := p.interval
	p.interval = cfg.Watch.Interval
	p.threshold = cfg.Watch.DropThreshold
	p.mu.Unlock()

	if p.ticker != nil && cfg.Watch.Interval != oldInterval {
		p.ticker.Reset(cfg.Watch.Interval)
	}

	p.log.Infow("watch settings reloaded",
		"interval", cfg.Watch.Interval,
		"drop_threshold", cfg.Watch.DropThreshold,
	)
}

func (p *Poller) settings() (time.Duration, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval, p.threshold
}
