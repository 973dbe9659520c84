/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package adapter

import (
	"sync"
	"testing"
)

func TestNormalizeScalarAndList(t *testing.T) {
	raw := RawRecord{
		Type: Basic,
		Fields: []RawField{
			{Name: "DST_IP", Value: "1.2.3.4"},
			{Name: "ppi_pkt_lengths", List: true, Items: []string{"60", "52", "54"}},
		},
	}

	rec := Normalize(raw)

	if rec.Type != Basic {
		t.Fatalf("type = %v, want basic", rec.Type)
	}
	if rec.Data["dst_ip"] != "1.2.3.4" {
		t.Fatalf("dst_ip = %q, want lowercased key with original value", rec.Data["dst_ip"])
	}
	if rec.Data["ppi_pkt_lengths"] != "[60|52|54]" {
		t.Fatalf("ppi_pkt_lengths = %q, want bracket-pipe join", rec.Data["ppi_pkt_lengths"])
	}
}

type fakeSink struct {
	mu   sync.Mutex
	recs []*Record
}

func (f *fakeSink) OnMessage(rec *Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
}

type fakeDecoder struct {
	recs   []RawRecord
	i      int
	closed bool
}

func (d *fakeDecoder) Next() (RawRecord, bool, error) {
	if d.i >= len(d.recs) {
		return RawRecord{}, false, nil
	}
	rec := d.recs[d.i]
	d.i++
	return rec, true, nil
}

func (d *fakeDecoder) Close() error { d.closed = true; return nil }

func TestCollectorDeliversAndSignalsEOF(t *testing.T) {
	d := &fakeDecoder{recs: []RawRecord{
		{Type: Basic, Fields: []RawField{{Name: "src_ip", Value: "1.1.1.1"}}},
		{Type: Basic, Fields: []RawField{{Name: "src_ip", Value: "2.2.2.2"}}},
	}}
	sink := &fakeSink{}
	c := NewCollector(sink, nil)

	c.Start([]Decoder{d})
	c.Wait()

	if !d.closed {
		t.Fatal("expected decoder closed")
	}
	if len(sink.recs) != 3 {
		t.Fatalf("recs = %d, want 3 (2 records + synthetic eof)", len(sink.recs))
	}
	if sink.recs[2].Type != EOF {
		t.Fatalf("last record type = %v, want eof", sink.recs[2].Type)
	}
}

func TestCollectorMultipleInterfacesSerialized(t *testing.T) {
	d1 := &fakeDecoder{recs: []RawRecord{{Type: Basic, Fields: []RawField{{Name: "src_ip", Value: "1.1.1.1"}}}}}
	d2 := &fakeDecoder{recs: []RawRecord{{Type: Basic, Fields: []RawField{{Name: "src_ip", Value: "2.2.2.2"}}}}}
	sink := &fakeSink{}
	c := NewCollector(sink, nil)

	c.Start([]Decoder{d1, d2})
	c.Wait()

	eofs := 0
	for _, r := range sink.recs {
		if r.Type == EOF {
			eofs++
		}
	}
	if eofs != 2 {
		t.Fatalf("eofs = %d, want 2 (one per interface)", eofs)
	}
	if len(sink.recs) != 4 {
		t.Fatalf("recs = %d, want 4", len(sink.recs))
	}
}
