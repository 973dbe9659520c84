/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package classifier implements the per-signal detectors an endpoint
// owns: content-pattern (DHT, Stratum), IP-list membership (Tor),
// ML-scored flow features (CNC), and time-series anomaly. Each is
// modeled as a tagged variant honoring the same on_message/sync/flush
// surface rather than through deep inheritance, so the endpoint can
// hold them side by side and compose verdicts by classifier name.
package classifier

import (
	"time"

	"github.com/danielpoliakov/bota/internal/adapter"
)

// Reason is the free-form classification explanation a positive
// classifier attaches to its verdict.
type Reason map[string]interface{}

// Classifier is the common surface every detection signal implements.
type Classifier interface {
	// OnMessage processes one record relevant to this classifier.
	OnMessage(rec *adapter.Record)
	// Sync advances the classifier's internal clock, if it has one.
	Sync(t time.Time)
	// Flush resets the classification decision at a window boundary.
	// SES/Welford state, where present, survives a Flush.
	Flush()
	// Positive reports the current classification decision.
	Positive() bool
	// Reason explains a positive decision; empty when not positive.
	Reason() Reason
}

// FlowReason builds the base reason shared by every flow-level
// classifier: the flow's identifying 7-tuple fields.
func FlowReason(rec *adapter.Record) Reason {
	return Reason{
		"time_first": rec.Data["time_first"],
		"time_last":  rec.Data["time_last"],
		"dst_ip":     rec.Data["dst_ip"],
		"src_ip":     rec.Data["src_ip"],
		"dst_port":   rec.Data["dst_port"],
		"src_port":   rec.Data["src_port"],
		"protocol":   rec.Data["protocol"],
	}
}

// sticky is embedded by the classifiers (DHT, Stratum, Tor, CNC) that
// share the "first positive wins until flush" rule.
type sticky struct {
	positive bool
	reason   Reason
}

func (s *sticky) Positive() bool { return s.positive }
func (s *sticky) Reason() Reason { return s.reason }
func (s *sticky) Flush() {
	s.positive = false
	s.reason = nil
}
func (s *sticky) Sync(time.Time) {}
