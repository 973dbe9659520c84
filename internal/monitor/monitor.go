/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package monitor drives the window-grid state machine: it owns the
// set of endpoints currently under observation, advances the shared
// 500-second window clock, and reports a verdict for every endpoint
// once a window closes.
package monitor

import (
	"time"

	"github.com/danielpoliakov/bota/internal/adapter"
	"github.com/danielpoliakov/bota/internal/classifier"
	"github.com/danielpoliakov/bota/internal/endpoint"
	"github.com/danielpoliakov/bota/internal/filter"
	"github.com/danielpoliakov/bota/internal/log"
	"github.com/danielpoliakov/bota/internal/report"
)

// Interval is the monitor's evaluation window width.
const Interval = 500 * time.Second

// EndpointFactory constructs a new Endpoint for an identifier the
// filter has just matched for the first time.
type EndpointFactory func(id string) *endpoint.Endpoint

// Monitor implements adapter.Sink: it is the single point every
// ingestion goroutine's records funnel through, already serialized by
// the adapter.Collector's lock.
type Monitor struct {
	filter     filter.Filter
	factory    EndpointFactory
	writer     *report.Writer
	lg         *log.Logger
	eofStreams int

	endpoints map[string]*endpoint.Endpoint

	timeStart time.Time
	timeNext  time.Time
	timeLast  time.Time
	hasStart  bool

	eofCount int
	end      bool
}

// New constructs a Monitor. factory is called once per newly observed
// endpoint identifier; writer receives the detail/IDEA output for each
// completed window. eofStreams is the number of ingestion interfaces
// feeding the monitor's Collector — end-of-input is reached once every
// interface has reported its own eof record.
func New(f filter.Filter, factory EndpointFactory, writer *report.Writer, lg *log.Logger, eofStreams int) *Monitor {
	return &Monitor{
		filter:     f,
		factory:    factory,
		writer:     writer,
		lg:         lg,
		eofStreams: eofStreams,
		endpoints:  make(map[string]*endpoint.Endpoint),
	}
}

// Done reports whether the monitor has observed EOF on every
// ingestion interface and finished processing its final window.
func (m *Monitor) Done() bool { return m.end }

// OnMessage implements adapter.Sink.
func (m *Monitor) OnMessage(rec *adapter.Record) {
	if rec.Type == adapter.EOF {
		m.eofCount++
		if m.eofCount == m.eofStreams {
			if m.hasStart {
				m.processWindow(m.timeLast)
			}
			m.end = true
		}
		return
	}

	timeLast, err := rec.TimeLast()
	if err != nil {
		m.lg.Warn("dropping record with unparsable time_last")
		return
	}
	m.timeLast = timeLast

	switch {
	case !m.hasStart:
		m.setTime(timeLast)
	case timeLast.After(m.timeNext):
		m.processWindow(timeLast)
		m.setTime(m.timeNext)
	}

	id, ok := m.endpointID(rec)
	if !ok {
		return
	}

	ep, known := m.endpoints[id]
	if !known {
		ep = m.factory(id)
		ep.Sync(m.timeStart)
		m.endpoints[id] = ep
	}
	ep.OnMessage(rec)
}

func (m *Monitor) setTime(start time.Time) {
	m.timeStart = start
	m.timeNext = start.Add(Interval)
	m.hasStart = true
}

func (m *Monitor) endpointID(rec *adapter.Record) (string, bool) {
	switch m.filter.FilterBy() {
	case filter.ByIP:
		if m.filter.Apply(rec.SrcIP()) {
			return rec.SrcIP(), true
		}
		if m.filter.Apply(rec.DstIP()) {
			return rec.DstIP(), true
		}
	case filter.ByMAC:
		if m.filter.Apply(rec.SrcMAC()) {
			return rec.SrcMAC(), true
		}
		if m.filter.Apply(rec.DstMAC()) {
			return rec.DstMAC(), true
		}
	}
	return "", false
}

func (m *Monitor) processWindow(timeLast time.Time) map[string]report.Verdict {
	verdicts := make(map[string]report.Verdict, len(m.endpoints))
	for id, ep := range m.endpoints {
		ep.Sync(timeLast)
		positive, reason := ep.Verdict()
		ep.Flush()
		verdicts[id] = report.Verdict{Positive: positive, Reason: reason}
	}

	if err := m.writer.WriteDetail(m.timeStart, m.timeNext, verdicts); err != nil {
		m.lg.Warn("detail report write failed", log.KVErr(err))
	}
	if err := m.writer.WriteIDEA(m.timeStart, m.timeNext, timeLast, verdicts); err != nil {
		m.lg.Warn("idea report write failed", log.KVErr(err))
	}

	return verdicts
}
