package csvfile

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"commuteboard/domain/commute"
	"commuteboard/internal/errors"
)

// timestampLayouts are tried in order when parsing the first CSV column. The
// collector writes RFC3339, but older data files carry bare local timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseOptions controls how raw timestamps become bucketed samples.
type ParseOptions struct {
	// Location, when set, interprets zone-less source timestamps as UTC and
	// converts every sample into this zone before bucketing. When nil the
	// timestamps are bucketed as written (the legacy behavior).
	Location *time.Location

	// HalfHourOnly drops samples whose minute component is not 0 or 30,
	// aligning the charts with the collector's fixed half-hour slots.
	HalfHourOnly bool
}

// Reader loads commute samples from a headerless two-column CSV file
// (timestamp, duration in minutes) written by the collector.
type Reader struct {
	filePath string
	opts     ParseOptions
}

// NewReader creates a reader for a single itinerary data file.
func NewReader(filePath string, opts ParseOptions) *Reader {
	return &Reader{filePath: filePath, opts: opts}
}

// Load reads and parses the whole file. A missing file fails with
// FILE_NOT_FOUND and an unreadable or malformed one with DATA_UNAVAILABLE;
// the caller decides whether to substitute an empty sample set.
func (r *Reader) Load() ([]commute.Sample, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.FileNotFound(r.filePath)
	}

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.DataUnavailable("failed to open data file", err)
	}
	defer file.Close()

	samples, err := r.parse(file)
	if err != nil {
		return nil, err
	}

	if r.opts.HalfHourOnly {
		before := len(samples)
		samples = commute.FilterHalfHour(samples)
		if dropped := before - len(samples); dropped > 0 {
			log.Printf("[csvfile] %s: dropped %d off-slot samples", r.filePath, dropped)
		}
	}
	return samples, nil
}

func (r *Reader) parse(src io.Reader) ([]commute.Sample, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DataUnavailable("failed to parse CSV", err)
	}

	samples := make([]commute.Sample, 0, len(records))
	for i, record := range records {
		ts, err := parseTimestamp(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, errors.Wrapf(errors.DataUnavailable("bad timestamp", err), "row %d of %s", i+1, r.filePath)
		}
		duration, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, errors.Wrapf(errors.DataUnavailable("bad duration", err), "row %d of %s", i+1, r.filePath)
		}

		if r.opts.Location != nil {
			ts = ts.In(r.opts.Location)
		}
		samples = append(samples, commute.Sample{Timestamp: ts, Duration: duration})
	}
	return samples, nil
}

func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		// Zone-less layouts are read as UTC; the collector runs in UTC.
		ts, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
