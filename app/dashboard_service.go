package app

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"commuteboard/adapters/csvfile"
	"commuteboard/domain/commute"
	"commuteboard/internal/config"
	"commuteboard/internal/errors"
)

// Tab is the chart-ready view of one itinerary: aggregate rows for both
// groupings plus a warning when the underlying file could not be loaded.
type Tab struct {
	ID          string
	Name        string
	File        string
	ByTime      []commute.AggregateRow
	ByWeekday   []commute.AggregateRow
	SampleCount int
	Warning     string
}

// Snapshot is one immutable render of every tab. Handlers only ever read
// snapshots; each refresh recomputes everything from the raw files.
type Snapshot struct {
	Tabs        []Tab
	RefreshedAt time.Time
}

// Tab returns the tab with the given itinerary ID.
func (s Snapshot) Tab(id string) (Tab, bool) {
	for _, tab := range s.Tabs {
		if tab.ID == id {
			return tab, true
		}
	}
	return Tab{}, false
}

// DashboardService owns the load-aggregate cycle: it resolves itineraries
// from config (or by scanning the data directory), loads each CSV, and keeps
// the latest snapshot for the HTTP front ends. A gocron job re-runs the cycle
// periodically, mirroring the collector's fixed fetch slots.
type DashboardService struct {
	mu       sync.RWMutex
	cfg      *config.Config
	location *time.Location
	snapshot Snapshot

	scheduler    gocron.Scheduler
	refreshJob   gocron.Job
	refreshEvery time.Duration
}

// NewDashboardService creates the service and resolves the display zone.
func NewDashboardService(cfg *config.Config) (*DashboardService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.Wrap(err, "unresolvable display timezone")
	}
	return &DashboardService{cfg: cfg, location: loc}, nil
}

// Start performs the initial refresh and schedules periodic ones. The first
// refresh is best-effort: a broken data directory still yields a dashboard,
// just one full of empty charts.
func (s *DashboardService) Start(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("[Service] initial refresh failed: %v", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrap(err, "failed to create refresh scheduler")
	}
	interval := s.config().RefreshInterval()
	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.refreshTask()),
		gocron.WithName("snapshot-refresh"),
	)
	if err != nil {
		return errors.Wrap(err, "failed to schedule snapshot refresh")
	}

	scheduler.Start()
	s.mu.Lock()
	s.scheduler = scheduler
	s.refreshJob = job
	s.refreshEvery = interval
	s.mu.Unlock()
	log.Printf("[Service] refreshing snapshot every %s", interval)
	return nil
}

// refreshTask is the body of the scheduled refresh job.
func (s *DashboardService) refreshTask() func() {
	return func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Refresh(jobCtx); err != nil {
			log.Printf("[Service] scheduled refresh failed: %v", err)
		}
	}
}

// Shutdown stops the refresh scheduler.
func (s *DashboardService) Shutdown() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

// Snapshot returns the latest aggregate snapshot.
func (s *DashboardService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetConfig swaps in a new configuration (config-file hot reload) and
// refreshes immediately so the tabs reflect it.
func (s *DashboardService) SetConfig(ctx context.Context, cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return errors.Wrap(err, "unresolvable display timezone")
	}

	s.mu.Lock()
	s.cfg = cfg
	s.location = loc
	scheduler, job, prevInterval := s.scheduler, s.refreshJob, s.refreshEvery
	s.mu.Unlock()

	// A changed refresh interval must reach the running job, not just the
	// stored config.
	if interval := cfg.RefreshInterval(); scheduler != nil && job != nil && interval != prevInterval {
		updated, err := scheduler.Update(
			job.ID(),
			gocron.DurationJob(interval),
			gocron.NewTask(s.refreshTask()),
			gocron.WithName("snapshot-refresh"),
		)
		if err != nil {
			return errors.Wrap(err, "failed to reschedule snapshot refresh")
		}
		s.mu.Lock()
		s.refreshJob = updated
		s.refreshEvery = interval
		s.mu.Unlock()
		log.Printf("[Service] refreshing snapshot every %s", interval)
	}

	return s.Refresh(ctx)
}

// Refresh recomputes every tab from the raw CSV files. Tabs load
// concurrently; they are pure reads of independent files, so order does not
// matter. A tab whose file is missing or malformed degrades to an empty
// chart with a warning instead of failing the refresh.
func (s *DashboardService) Refresh(ctx context.Context) error {
	sources := s.resolveSources()

	tabs := make([]Tab, len(sources))
	g, _ := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			tabs[i] = s.loadTab(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = Snapshot{Tabs: tabs, RefreshedAt: time.Now()}
	s.mu.Unlock()

	log.Printf("[Service] snapshot refreshed: %d tabs", len(tabs))
	return nil
}

type tabSource struct {
	id   string
	name string
	file string
}

// resolveSources maps config itineraries to data files, falling back to a
// data-directory scan when no itineraries are declared. Either way the tab
// order comes from OrderDataFiles.
func (s *DashboardService) resolveSources() []tabSource {
	cfg := s.config()

	idByFile := make(map[string]string)
	byFile := make(map[string]tabSource)
	var files []string

	if len(cfg.Itineraries) > 0 {
		for _, itin := range cfg.Itineraries {
			file := filepath.Join(cfg.DataDir, itin.OutputFile)
			idByFile[file] = itin.ID
			byFile[file] = tabSource{id: itin.ID, name: itin.Label(), file: file}
			files = append(files, file)
		}
	} else {
		matches, err := filepath.Glob(filepath.Join(cfg.DataDir, "*.csv"))
		if err != nil {
			log.Printf("[Service] data dir scan failed: %v", err)
		}
		for _, file := range matches {
			base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			byFile[file] = tabSource{id: base, name: base, file: file}
			files = append(files, file)
		}
	}

	var sources []tabSource
	for _, file := range OrderDataFiles(idByFile, files) {
		sources = append(sources, byFile[file])
	}
	return sources
}

// loadTab runs one load-aggregate cycle for a single itinerary. The loader
// signals failure; this is where the caller substitutes the empty result set.
func (s *DashboardService) loadTab(src tabSource) Tab {
	tab := Tab{ID: src.id, Name: src.name, File: src.file}

	reader := csvfile.NewReader(src.file, csvfile.ParseOptions{
		Location:     s.displayLocation(),
		HalfHourOnly: true,
	})
	samples, err := reader.Load()
	if err != nil {
		switch {
		case errors.HasCode(err, errors.CodeFileNotFound):
			tab.Warning = "Data file not found: " + filepath.Base(src.file)
		default:
			tab.Warning = "Commute data unavailable"
		}
		log.Printf("[Service] %s: %v", src.id, err)
		samples = nil
	}

	tab.SampleCount = len(samples)
	tab.ByTime = commute.AggregateByTime(samples)
	tab.ByWeekday = commute.AggregateByWeekdayAndTime(samples)
	return tab
}

func (s *DashboardService) config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *DashboardService) displayLocation() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}
