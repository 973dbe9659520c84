/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package adapter

import (
	"strings"
	"sync"

	"github.com/danielpoliakov/bota/internal/log"
)

// RawField is one undecoded field as produced by a Decoder, before
// the §4.9 normalization rules are applied.
type RawField struct {
	Name  string
	Value string
	// List, when true, marks a field whose Items should be joined as
	// "[" + "|".join(items) + "]" rather than taken from Value.
	List  bool
	Items []string
}

// RawRecord is one undecoded inbound record: a stream kind plus its
// raw fields.
type RawRecord struct {
	Type   Type
	Fields []RawField
}

// Normalize applies the §4.9 field normalization rules — lowercase
// names, bracket-and-pipe list encoding — turning a RawRecord into the
// Record the monitor consumes. IP/MAC canonicalization and timestamp
// formatting are the Decoder's responsibility since they require
// knowing the field's source type (the decoder sees typed values;
// Normalize only sees already-stringified ones).
func Normalize(raw RawRecord) *Record {
	data := make(map[string]string, len(raw.Fields))
	for _, f := range raw.Fields {
		name := strings.ToLower(f.Name)
		if f.List {
			data[name] = "[" + strings.Join(f.Items, "|") + "]"
		} else {
			data[name] = f.Value
		}
	}
	return &Record{Type: raw.Type, Data: data}
}

// Decoder produces RawRecords from one inbound interface until it is
// exhausted or fails. Implementations normalize IP/MAC fields to
// canonical strings, byte blobs to lowercase hex, and timestamps to
// TimeFormat before returning a RawField — i.e. everything in §4.9
// except the bracket-and-pipe list join, which Normalize applies
// uniformly.
type Decoder interface {
	// Next returns the next raw record, or ok=false once the
	// interface is exhausted (after which the caller synthesizes the
	// eof record itself).
	Next() (rec RawRecord, ok bool, err error)
	Close() error
}

// Sink receives normalized records. The monitor implements Sink.
type Sink interface {
	OnMessage(*Record)
}

// Collector runs one goroutine per configured interface, decoding and
// normalizing records and forwarding them to a shared Sink under a
// single mutex so the sink observes a linear sequence of records
// regardless of how many interfaces are feeding it concurrently.
// Grounded on bota/collector.py's per-interface thread + threading.Lock
// around the callback.
type Collector struct {
	sink Sink
	lg   *log.Logger
	mu   sync.Mutex
	wg   sync.WaitGroup
}

// NewCollector builds a Collector delivering into sink.
func NewCollector(sink Sink, lg *log.Logger) *Collector {
	if lg == nil {
		lg = log.NewDiscardLogger()
	}
	return &Collector{sink: sink, lg: lg}
}

// Start launches one goroutine per decoder. Each decoder runs until it
// returns ok=false or a transport error; a per-stream failure is
// logged and only that stream stops, the rest continue until their
// own EOF. Whenever a stream stops, exhausted or failed, its goroutine
// delivers a synthetic eof record so the monitor's per-interface eof
// count advances.
func (c *Collector) Start(decoders []Decoder) {
	for _, d := range decoders {
		c.wg.Add(1)
		go c.run(d)
	}
}

// Wait blocks until every interface goroutine has exited.
func (c *Collector) Wait() {
	c.wg.Wait()
}

func (c *Collector) run(d Decoder) {
	defer c.wg.Done()
	defer d.Close()
	for {
		raw, ok, err := d.Next()
		if err != nil {
			c.lg.Warn("interface decode failed, closing stream", log.KVErr(err))
			break
		}
		if !ok {
			break
		}
		rec := Normalize(raw)
		c.deliver(rec)
	}
	c.deliver(&Record{Type: EOF, Data: map[string]string{}})
}

func (c *Collector) deliver(rec *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink.OnMessage(rec)
}
