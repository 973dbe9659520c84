/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package endpoint groups the eight classifiers the monitor runs per
// observed address into one unit, dispatches records to the subset
// relevant to each record's type, and composes their individual
// verdicts into a single endpoint-level detection per spec.md §4.7.
package endpoint

import (
	"math/rand"
	"time"

	"github.com/danielpoliakov/bota/internal/adapter"
	"github.com/danielpoliakov/bota/internal/classifier"
	"github.com/danielpoliakov/bota/internal/predictor"
	"github.com/danielpoliakov/bota/internal/stats"
)

// anomalyKeys are the four anomaly classifiers, keyed identically to
// classifier names used in Verdict composition and report output.
var anomalyKeys = []string{"bytes", "packets", "dst_ip", "dst_port"}

// AnomalyThresholds configures the four anomaly classifiers' fixed
// trigger thresholds.
type AnomalyThresholds struct {
	Bytes   float64
	Packets float64
	DstIP   float64
	DstPort float64
}

// PriorConfig warms an endpoint's anomaly classifiers with 300
// synthetic Poisson-distributed sub-windows before any traffic is
// observed, so early genuine windows are not scored against an
// uninitialized, overly narrow prediction band.
type PriorConfig struct {
	Bytes   float64
	Packets float64
	DstIP   float64
	DstPort float64
}

// Config bundles the dependencies every Endpoint needs regardless of
// its addressing scheme.
type Config struct {
	Anomaly AnomalyThresholds
	Prior   *PriorConfig
	Model   predictor.Predictor
	Rand    rand.Source
}

// DirectionRole classifies whether an endpoint originated or received
// a given record, mirroring adapter.DirectionRole.
type DirectionRole = adapter.DirectionRole

// Endpoint is the address-agnostic detection unit: it owns one
// instance of each of the eight classifiers and knows how to route
// records and compose their verdicts. NewIPEndpoint and NewMACEndpoint
// supply the address-specific DirectionRole logic.
type Endpoint struct {
	direction func(rec *adapter.Record) DirectionRole

	dht     *classifier.DHT
	stratum *classifier.Stratum
	tor     *classifier.Tor
	cnc     *classifier.CNC
	anomaly map[string]*classifier.Anomaly
}

func newEndpoint(cfg Config, relays *classifier.RelaySet, direction func(*adapter.Record) DirectionRole) *Endpoint {
	e := &Endpoint{
		direction: direction,
		dht:       classifier.NewDHT(),
		stratum:   classifier.NewStratum(),
		tor:       classifier.NewTor(relays),
		cnc:       classifier.NewCNC(cfg.Model),
		anomaly: map[string]*classifier.Anomaly{
			"bytes":    classifier.NewAnomaly("bytes", classifier.AnomalySum, cfg.Anomaly.Bytes),
			"packets":  classifier.NewAnomaly("packets", classifier.AnomalySum, cfg.Anomaly.Packets),
			"dst_ip":   classifier.NewAnomaly("dst_ip", classifier.AnomalyUnique, cfg.Anomaly.DstIP),
			"dst_port": classifier.NewAnomaly("dst_port", classifier.AnomalyUnique, cfg.Anomaly.DstPort),
		},
	}

	if cfg.Prior != nil {
		priors := map[string]float64{
			"bytes":    cfg.Prior.Bytes,
			"packets":  cfg.Prior.Packets,
			"dst_ip":   cfg.Prior.DstIP,
			"dst_port": cfg.Prior.DstPort,
		}
		for _, k := range anomalyKeys {
			a := e.anomaly[k]
			for _, v := range stats.PoissonSamples(priors[k], 300, cfg.Rand) {
				a.Smoothing().Update(v)
			}
			a.SetWindows(300)
		}
	}

	return e
}

// NewIPEndpoint constructs an endpoint addressed by ip: records whose
// src_ip equals ip are observed as "source", all others as
// "destination".
func NewIPEndpoint(ip string, cfg Config, relays *classifier.RelaySet) *Endpoint {
	return newEndpoint(cfg, relays, func(rec *adapter.Record) DirectionRole {
		if rec.SrcIP() == ip {
			return adapter.Source
		}
		return adapter.Destination
	})
}

// NewMACEndpoint constructs an endpoint addressed by mac: records
// whose src_mac equals mac are observed as "source", all others as
// "destination".
func NewMACEndpoint(mac string, cfg Config, relays *classifier.RelaySet) *Endpoint {
	return newEndpoint(cfg, relays, func(rec *adapter.Record) DirectionRole {
		if rec.SrcMAC() == mac {
			return adapter.Source
		}
		return adapter.Destination
	})
}

// OnMessage routes rec to the classifiers relevant to its type,
// stamping its observed DirectionRole first so CNC's feature swap and
// the anomaly classifiers' source-only restriction both see it.
func (e *Endpoint) OnMessage(rec *adapter.Record) {
	rec.DirectionRole = e.direction(rec)

	switch rec.Type {
	case adapter.Basic:
		e.tor.OnMessage(rec)
		if rec.DirectionRole == adapter.Source {
			for _, k := range anomalyKeys {
				e.anomaly[k].OnMessage(rec)
			}
		}
	case adapter.PStats:
		e.cnc.OnMessage(rec)
	case adapter.IDPContent:
		e.dht.OnMessage(rec)
		e.stratum.OnMessage(rec)
	}
}

// Sync advances every classifier's internal clock to time_new.
func (e *Endpoint) Sync(timeNew time.Time) {
	e.tor.Sync(timeNew)
	e.dht.Sync(timeNew)
	e.stratum.Sync(timeNew)
	e.cnc.Sync(timeNew)
	for _, k := range anomalyKeys {
		e.anomaly[k].Sync(timeNew)
	}
}

// Flush resets every classifier's classification decision.
func (e *Endpoint) Flush() {
	e.tor.Flush()
	e.dht.Flush()
	e.stratum.Flush()
	e.cnc.Flush()
	for _, k := range anomalyKeys {
		e.anomaly[k].Flush()
	}
}

// AnomalyTimeNext reports the named anomaly classifier's sub-window
// clock boundary, for diagnostics and tests. key must be one of
// anomalyKeys.
func (e *Endpoint) AnomalyTimeNext(key string) time.Time {
	return e.anomaly[key].TimeNext()
}

// Verdict composes the endpoint's eight classifier decisions into one
// malicious/benign call, per spec.md §4.7:
//
//   - CNC positive AND any anomaly classifier positive
//   - Tor positive AND any anomaly classifier positive
//   - DHT positive AND Stratum positive
//
// The returned reason includes every classifier's non-empty
// explanation, keyed by classifier name, regardless of which rule
// fired.
func (e *Endpoint) Verdict() (bool, map[string]classifier.Reason) {
	positives := map[string]bool{
		"dht":     e.dht.Positive(),
		"stratum": e.stratum.Positive(),
		"tor":     e.tor.Positive(),
		"cnc":     e.cnc.Positive(),
	}
	reasons := map[string]classifier.Reason{
		"dht":     e.dht.Reason(),
		"stratum": e.stratum.Reason(),
		"tor":     e.tor.Reason(),
		"cnc":     e.cnc.Reason(),
	}
	anyAnomaly := false
	for _, k := range anomalyKeys {
		p := e.anomaly[k].Positive()
		positives[k] = p
		reasons[k] = e.anomaly[k].Reason()
		anyAnomaly = anyAnomaly || p
	}

	positive := (positives["cnc"] && anyAnomaly) ||
		(positives["tor"] && anyAnomaly) ||
		(positives["dht"] && positives["stratum"])

	out := make(map[string]classifier.Reason)
	for k, r := range reasons {
		if len(r) > 0 {
			out[k] = r
		}
	}

	return positive, out
}
