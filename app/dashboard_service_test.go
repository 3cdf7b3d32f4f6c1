package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commuteboard/internal/config"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func testConfig(t *testing.T, dataDir string, itineraries ...config.Itinerary) *config.Config {
	t.Helper()
	cfg := &config.Config{
		DataDir:         dataDir,
		DisplayTimezone: "UTC",
		Itineraries:     itineraries,
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestDashboardService_Refresh(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "to-1.csv",
		"2024-03-06T08:00:00Z,10\n"+
			"2024-03-06T08:00:00Z,20\n"+
			"2024-03-06T08:30:00Z,5\n")
	writeCSV(t, dir, "from-1.csv",
		"2024-03-06T17:30:00Z,42\n")

	cfg := testConfig(t, dir,
		config.Itinerary{ID: "2", Name: "From work", OutputFile: "from-1.csv"},
		config.Itinerary{ID: "1", Name: "To work", OutputFile: "to-1.csv"},
	)

	svc, err := NewDashboardService(cfg)
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))

	snap := svc.Snapshot()
	require.Len(t, snap.Tabs, 2)

	// Declared IDs drive tab order, not config order.
	assert.Equal(t, "To work", snap.Tabs[0].Name)
	assert.Equal(t, "From work", snap.Tabs[1].Name)

	toWork := snap.Tabs[0]
	assert.Empty(t, toWork.Warning)
	assert.Equal(t, 3, toWork.SampleCount)
	require.Len(t, toWork.ByTime, 2)
	assert.Equal(t, "08:00", toWork.ByTime[0].TimeOfDay)
	assert.Equal(t, 15.0, toWork.ByTime[0].Mean)
	assert.False(t, toWork.ByTime[1].HasStdDev())
}

func TestDashboardService_MissingFileDegradesToEmptyTab(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir, config.Itinerary{ID: "1", Name: "To work", OutputFile: "to-1.csv"})

	svc, err := NewDashboardService(cfg)
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))

	snap := svc.Snapshot()
	require.Len(t, snap.Tabs, 1)
	tab := snap.Tabs[0]
	assert.Contains(t, tab.Warning, "not found")
	assert.Zero(t, tab.SampleCount)
	assert.Empty(t, tab.ByTime)
	assert.Empty(t, tab.ByWeekday)
}

func TestDashboardService_MalformedFileDegradesToEmptyTab(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "to-1.csv", "garbage,not-a-number\n")
	cfg := testConfig(t, dir, config.Itinerary{ID: "1", OutputFile: "to-1.csv"})

	svc, err := NewDashboardService(cfg)
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))

	tab := svc.Snapshot().Tabs[0]
	assert.Equal(t, "Commute data unavailable", tab.Warning)
	assert.Empty(t, tab.ByTime)
}

func TestDashboardService_FallbackScanWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "to.csv", "2024-03-06T08:00:00Z,10\n")
	writeCSV(t, dir, "from.csv", "2024-03-06T17:00:00Z,12\n")

	svc, err := NewDashboardService(testConfig(t, dir))
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))

	snap := svc.Snapshot()
	require.Len(t, snap.Tabs, 2)
	// Filename order when nothing is declared.
	assert.Equal(t, "from", snap.Tabs[0].ID)
	assert.Equal(t, "to", snap.Tabs[1].ID)
	assert.Equal(t, 1, snap.Tabs[0].SampleCount)
}

func TestDashboardService_HalfHourDownsampling(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "to.csv",
		"2024-03-06T08:00:00Z,10\n"+
			"2024-03-06T08:15:00Z,12\n"+
			"2024-03-06T08:30:00Z,9\n"+
			"2024-03-06T08:45:00Z,11\n")

	svc, err := NewDashboardService(testConfig(t, dir))
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))

	tab := svc.Snapshot().Tabs[0]
	assert.Equal(t, 2, tab.SampleCount)
	require.Len(t, tab.ByTime, 2)
	assert.Equal(t, "08:00", tab.ByTime[0].TimeOfDay)
	assert.Equal(t, "08:30", tab.ByTime[1].TimeOfDay)
}

func TestDashboardService_SetConfig(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeCSV(t, dirA, "to.csv", "2024-03-06T08:00:00Z,10\n")
	writeCSV(t, dirB, "other.csv", "2024-03-06T09:00:00Z,30\n")

	svc, err := NewDashboardService(testConfig(t, dirA))
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))
	require.Equal(t, "to", svc.Snapshot().Tabs[0].ID)

	require.NoError(t, svc.SetConfig(context.Background(), testConfig(t, dirB)))
	snap := svc.Snapshot()
	require.Len(t, snap.Tabs, 1)
	assert.Equal(t, "other", snap.Tabs[0].ID)
}

func TestDashboardService_SetConfigReschedulesRefresh(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "to.csv", "2024-03-06T08:00:00Z,10\n")

	svc, err := NewDashboardService(testConfig(t, dir))
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Shutdown()

	next := testConfig(t, dir)
	next.RefreshIntervalMinutes = 1
	require.NoError(t, svc.SetConfig(context.Background(), next))

	svc.mu.RLock()
	interval := svc.refreshEvery
	jobs := svc.scheduler.Jobs()
	svc.mu.RUnlock()

	assert.Equal(t, time.Minute, interval)
	require.Len(t, jobs, 1)
	assert.Equal(t, "snapshot-refresh", jobs[0].Name())
}

func TestSnapshot_Tab(t *testing.T) {
	snap := Snapshot{Tabs: []Tab{{ID: "1"}, {ID: "2"}}}

	tab, ok := snap.Tab("2")
	assert.True(t, ok)
	assert.Equal(t, "2", tab.ID)

	_, ok = snap.Tab("3")
	assert.False(t, ok)
}
