/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package classifier

import (
	"bufio"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/danielpoliakov/bota/internal/adapter"
	"github.com/danielpoliakov/bota/internal/boerr"
	"github.com/danielpoliakov/bota/internal/filter"
	"github.com/danielpoliakov/bota/internal/log"
)

// RelaySet is the process-wide, read-mostly Tor relay address list.
// It is initialized once at startup and, if hot reload is enabled,
// swapped atomically in place rather than mutated — every Tor
// classifier holds a reference to the same RelaySet and always reads
// its current handle.
type RelaySet struct {
	cur atomic.Pointer[filter.IPListFilter]
}

// NewRelaySet loads relays from path: a newline-delimited file of bare
// IPs or "[ipv6]"-bracketed addresses. Returns boerr.LoadFailure if the
// file cannot be read.
func NewRelaySet(path string) (*RelaySet, error) {
	rs := &RelaySet{}
	if err := rs.reload(path); err != nil {
		return nil, err
	}
	return rs, nil
}

func (rs *RelaySet) reload(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return boerr.LoadFailure
	}
	defer f.Close()

	var addrs []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "[")
		line = strings.TrimSuffix(line, "]")
		addrs = append(addrs, line)
	}
	if err := sc.Err(); err != nil {
		return boerr.LoadFailure
	}

	rs.cur.Store(filter.NewIPListFilter(addrs))
	return nil
}

// Contains reports whether ip is currently a known relay.
func (rs *RelaySet) Contains(ip string) bool {
	lf := rs.cur.Load()
	return lf != nil && lf.Apply(ip)
}

// Watch reloads the relay set whenever path changes on disk, swapping
// the handle atomically so in-flight classifiers never observe a
// partially-updated list. It runs until the returned *fsnotify.Watcher
// is closed.
func (rs *RelaySet) Watch(path string, lg *log.Logger) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := rs.reload(path); err != nil {
						lg.Warn("tor relay reload failed", log.KVErr(err))
					} else {
						lg.Info("tor relay list reloaded", log.KV("path", path))
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				lg.Warn("tor relay watcher error", log.KVErr(err))
			}
		}
	}()
	return w, nil
}

// Tor detects flows to or from a known Tor relay. Consumes basic
// records; sticky-positive within a window.
type Tor struct {
	sticky
	relays *RelaySet
}

// NewTor constructs a Tor classifier backed by the given process-wide
// relay set.
func NewTor(relays *RelaySet) *Tor {
	return &Tor{relays: relays}
}

func (t *Tor) OnMessage(rec *adapter.Record) {
	if t.positive {
		return
	}
	packets, _ := rec.Packets()
	packetsRev, _ := rec.PacketsRev()
	if packets+packetsRev < 3 {
		return
	}
	if t.relays.Contains(rec.DstIP()) || t.relays.Contains(rec.SrcIP()) {
		t.positive = true
		t.reason = FlowReason(rec)
	}
}
