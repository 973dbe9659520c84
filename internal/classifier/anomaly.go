/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package classifier

import (
	"strconv"
	"time"

	"github.com/danielpoliakov/bota/internal/adapter"
	"github.com/danielpoliakov/bota/internal/stats"
)

// AnomalyAgg selects how AnomalyClassifier aggregates a field's values
// within one sub-window.
type AnomalyAgg int

const (
	AnomalySum AnomalyAgg = iota
	AnomalyUnique
)

// AnomalyInterval is the aggregation sub-window width, independent of
// (and shorter than) the monitor's own window grid.
const AnomalyInterval = 60 * time.Second

// Anomaly tracks one endpoint-scoped time series (e.g. bytes sent per
// sub-window) and flags sustained deviation from both a fixed
// threshold and a smoothed prediction. Unlike the sticky classifiers,
// Positive and Reason are computed live from accumulated counters
// rather than latched on first match, so a window that later falls
// quiet can still report a decision made earlier in it.
type Anomaly struct {
	field     string
	kind      AnomalyAgg
	threshold float64

	timeNext time.Time
	hasNext  bool

	sum    float64
	unique map[string]struct{}

	smoothing *stats.SES
	windows   int
	max       float64

	overPrediction int
	overThreshold  int
}

// NewAnomaly constructs an Anomaly classifier over field, aggregated
// with kind, flagging threshold breaches above threshold.
func NewAnomaly(field string, kind AnomalyAgg, threshold float64) *Anomaly {
	ses, _ := stats.NewSES(0.1) // 0.1 is always in range; error impossible
	a := &Anomaly{
		field:     field,
		kind:      kind,
		threshold: threshold,
		smoothing: ses,
	}
	a.reset()
	return a
}

// Smoothing exposes the underlying SES model so prior warm-start
// sampling can prime it before any traffic arrives.
func (a *Anomaly) Smoothing() *stats.SES { return a.smoothing }

// SetWindows seeds the window counter directly, used alongside
// Smoothing during prior warm-start.
func (a *Anomaly) SetWindows(n int) { a.windows = n }

// TimeNext reports the sub-window clock's current boundary, for
// diagnostics and tests.
func (a *Anomaly) TimeNext() time.Time { return a.timeNext }

func (a *Anomaly) reset() {
	a.sum = 0
	a.unique = make(map[string]struct{})
}

func (a *Anomaly) OnMessage(rec *adapter.Record) {
	timeLast, err := rec.TimeLast()
	if err != nil {
		return
	}

	if a.hasNext && timeLast.Before(a.timeNext) {
		a.aggregate(rec)
		return
	}

	a.processWindow(timeLast)
	a.reset()
	a.aggregate(rec)
}

func (a *Anomaly) aggregate(rec *adapter.Record) {
	switch a.kind {
	case AnomalySum:
		if v, err := strconv.ParseFloat(rec.Data[a.field], 64); err == nil {
			a.sum += v
		}
	case AnomalyUnique:
		a.unique[rec.Data[a.field]] = struct{}{}
	}
}

func (a *Anomaly) Sync(timeNew time.Time) {
	if a.hasNext && a.timeNext.Before(timeNew) {
		a.processWindow(timeNew)
		a.reset()
	}
	a.timeNext = timeNew.Add(AnomalyInterval)
	a.hasNext = true
}

// Flush resets the explanation counters without disturbing the
// smoothing model, window count, or sub-window clock, matching the
// anomaly classifier's distinct flush semantics.
func (a *Anomaly) Flush() {
	a.max = 0
	a.overPrediction = 0
	a.overThreshold = 0
}

func (a *Anomaly) current() float64 {
	switch a.kind {
	case AnomalyUnique:
		return float64(len(a.unique))
	default:
		return a.sum
	}
}

func (a *Anomaly) processWindow(timeLast time.Time) {
	a.windows++
	current := a.current()

	if a.windows > 2 {
		predUpper := a.smoothing.Pred() + 5*a.smoothing.StdE()
		if current > predUpper {
			a.overPrediction++
		}
	}

	if current > a.threshold {
		a.overThreshold++
	}

	if current > a.max {
		a.max = current
	}

	a.smoothing.Update(current)

	if !a.hasNext {
		return
	}

	missing := int(timeLast.Sub(a.timeNext) / AnomalyInterval)
	for i := 0; i < missing; i++ {
		a.windows++
		a.smoothing.Update(0)
	}
	a.timeNext = a.timeNext.Add(AnomalyInterval * time.Duration(missing+1))
}

// Positive reports whether at least one prediction-based anomaly and
// more than one threshold-based anomaly have accumulated since the
// last Flush.
func (a *Anomaly) Positive() bool {
	return a.overPrediction > 0 && a.overThreshold > 1
}

// Reason returns the field's observed maximum and anomaly counts,
// empty unless Positive.
func (a *Anomaly) Reason() Reason {
	if !a.Positive() {
		return Reason{}
	}
	return Reason{
		"max":             a.max,
		"over_prediction": a.overPrediction,
		"over_threshold":  a.overThreshold,
	}
}
