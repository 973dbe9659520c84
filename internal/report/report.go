/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package report appends the two output formats a completed window
// produces: a newline-delimited detail line per endpoint with a
// non-empty reason, and a newline-delimited IDEA0 line per endpoint
// with a positive verdict. Both files are opened append-only, file
// locked for the duration of a window's write, and retried once on
// transient failure per spec.md §7.
package report

import (
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	json "github.com/goccy/go-json"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/danielpoliakov/bota/internal/adapter"
	"github.com/danielpoliakov/bota/internal/classifier"
	"github.com/danielpoliakov/bota/internal/filter"
)

// ideaTimeFormat is IDEA0's required second-precision, Zulu-suffixed
// timestamp layout, distinct from adapter.TimeFormat.
const ideaTimeFormat = "2006-01-02T15:04:05Z"

// timeLayout is the detail format's microsecond-precision timestamp
// layout, matching the one every inbound flow record uses.
const timeLayout = adapter.TimeFormat

// Verdict is one endpoint's window-end detection outcome.
type Verdict struct {
	Positive bool
	Reason   map[string]classifier.Reason
}

// Writer appends detail and IDEA records for completed windows to the
// two configured output files.
type Writer struct {
	detailPath string
	ideaPath   string
	filterBy   filter.By
}

// NewWriter constructs a Writer over the given output paths. filterBy
// determines whether IDEA Source entries are tagged IPv4/IPv6 or MAC.
func NewWriter(detailPath, ideaPath string, filterBy filter.By) *Writer {
	return &Writer{detailPath: detailPath, ideaPath: ideaPath, filterBy: filterBy}
}

type detailRecord struct {
	Endpoint  string              `json:"endpoint"`
	TimeStart string              `json:"time_start"`
	TimeEnd   string              `json:"time_end"`
	Alert     bool                `json:"alert"`
	Reason    map[string]classifier.Reason `json:"reason"`
}

// WriteDetail appends one detail line per endpoint whose reason is
// non-empty, covering the window [timeStart, timeEnd).
func (w *Writer) WriteDetail(timeStart, timeEnd time.Time, verdicts map[string]Verdict) error {
	var lines []string
	for endpoint, v := range verdicts {
		if len(v.Reason) == 0 {
			continue
		}
		rec := detailRecord{
			Endpoint:  endpoint,
			TimeStart: timeStart.Format(timeLayout),
			TimeEnd:   timeEnd.Format(timeLayout),
			Alert:     v.Positive,
			Reason:    v.Reason,
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		lines = append(lines, string(b))
	}
	if len(lines) == 0 {
		return nil
	}
	return appendLocked(w.detailPath, lines)
}

type ideaRecord struct {
	Format       string                   `json:"Format"`
	ID           string                   `json:"ID"`
	DetectTime   string                   `json:"DetectTime"`
	WinStartTime string                   `json:"WinStartTime"`
	WinEndTime   string                   `json:"WinEndTime"`
	Category     []string                 `json:"Category"`
	Description  string                   `json:"Description"`
	Source       []map[string]interface{} `json:"Source"`
}

// WriteIDEA appends one IDEA0 line per endpoint with a positive
// verdict. detectTime is the time_last the monitor closes the window
// with: that of the record that triggered the close, or of the last
// record seen when input ends.
func (w *Writer) WriteIDEA(timeStart, timeEnd, detectTime time.Time, verdicts map[string]Verdict) error {
	var lines []string
	for endpoint, v := range verdicts {
		if !v.Positive {
			continue
		}
		idea := ideaRecord{
			Format:       "IDEA0",
			ID:           uuid.NewString(),
			DetectTime:   detectTime.Format(ideaTimeFormat),
			WinStartTime: timeStart.Format(ideaTimeFormat),
			WinEndTime:   timeEnd.Format(ideaTimeFormat),
			Category:     []string{"Intrusion.Botnet"},
			Description:  "IoT Botnet",
			Source:       []map[string]interface{}{w.source(endpoint)},
		}
		b, err := json.Marshal(idea)
		if err != nil {
			return err
		}
		lines = append(lines, string(b))
	}
	if len(lines) == 0 {
		return nil
	}
	return appendLocked(w.ideaPath, lines)
}

func (w *Writer) source(endpoint string) map[string]interface{} {
	if w.filterBy == filter.ByMAC {
		return map[string]interface{}{
			"Type": []string{"Botnet"},
			"MAC":  []string{endpoint},
		}
	}
	version := "IP4"
	if strings.Contains(endpoint, ":") {
		version = "IP6"
	}
	return map[string]interface{}{
		"Type":  []string{"Botnet"},
		version: []string{endpoint},
	}
}

// appendLocked opens path append-only under an exclusive file lock and
// writes lines, one per line. A single failed attempt is retried once
// after a short backoff before giving up, per spec.md §7.
func appendLocked(path string, lines []string) error {
	op := func() error {
		fl := flock.New(path + ".lock")
		if err := fl.Lock(); err != nil {
			return err
		}
		defer fl.Unlock()

		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()

		for _, line := range lines {
			if _, err := f.WriteString(line); err != nil {
				return err
			}
			if _, err := f.WriteString("\n"); err != nil {
				return err
			}
		}
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), 1)
	return backoff.Retry(op, bo)
}
