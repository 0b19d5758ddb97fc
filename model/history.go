package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the timestamp format written to the benchmark log: local
// ISO-8601 with microseconds and no zone designator.
const TimeLayout = "2006-01-02T15:04:05.000000"

// NoRevision is recorded when the source-control revision cannot be detected.
const NoRevision = "<no-git-sha-detected>"

// BenchmarkRecord represents one line of the benchmark log.
// Records are appended and never rewritten.
type BenchmarkRecord struct {
	// Time the benchmark was started
	Timestamp time.Time
	// Git commit hash of the working tree (or NoRevision)
	Commit string
	// Whether the engine under test is a debug build
	Debug bool
	// Example case that was timed
	Name string
	// Elapsed wall-clock time of the engine run
	Elapsed time.Duration
}

// benchmarkLine is the on-disk shape of a BenchmarkRecord. Field order is the
// order the keys appear in the log.
type benchmarkLine struct {
	Time    string  `json:"time"`
	Commit  string  `json:"commit"`
	Debug   bool    `json:"debug"`
	Name    string  `json:"name"`
	Seconds float64 `json:"time-s"`
}

// MarshalJSON encodes the record as a single self-describing log line.
// HTML escaping is disabled so NoRevision is written verbatim.
func (r BenchmarkRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(benchmarkLine{
		Time:    r.Timestamp.Format(TimeLayout),
		Commit:  r.Commit,
		Debug:   r.Debug,
		Name:    r.Name,
		Seconds: r.Elapsed.Seconds(),
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a log line written by MarshalJSON.
func (r *BenchmarkRecord) UnmarshalJSON(data []byte) error {
	var line benchmarkLine
	if err := json.Unmarshal(data, &line); err != nil {
		return err
	}

	ts, err := time.ParseInLocation(TimeLayout, line.Time, time.Local)
	if err != nil {
		return fmt.Errorf("invalid benchmark time %q: %w", line.Time, err)
	}

	*r = BenchmarkRecord{
		Timestamp: ts,
		Commit:    line.Commit,
		Debug:     line.Debug,
		Name:      line.Name,
		Elapsed:   time.Duration(line.Seconds * float64(time.Second)),
	}
	return nil
}
