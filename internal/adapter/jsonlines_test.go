/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package adapter

import (
	"io"
	"strings"
	"testing"
)

type stringReadCloser struct{ io.Reader }

func (stringReadCloser) Close() error { return nil }

func TestJSONLinesDecoder(t *testing.T) {
	body := `{"type":"basic","data":{"src_ip":"10.0.0.10","packets":100,"active":true}}
{"type":"eof","data":{}}
`
	d := NewJSONLinesDecoder(stringReadCloser{strings.NewReader(body)}, "")

	raw, ok, err := d.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if raw.Type != Basic {
		t.Fatalf("type = %v, want basic", raw.Type)
	}

	rec := Normalize(raw)
	if rec.Data["src_ip"] != "10.0.0.10" {
		t.Fatalf("src_ip = %q", rec.Data["src_ip"])
	}
	if rec.Data["packets"] != "100" {
		t.Fatalf("packets = %q, want integral string", rec.Data["packets"])
	}
	if rec.Data["active"] != "true" {
		t.Fatalf("active = %q, want \"true\"", rec.Data["active"])
	}

	raw, ok, err = d.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if raw.Type != EOF {
		t.Fatalf("type = %v, want eof", raw.Type)
	}

	_, ok, err = d.Next()
	if err != nil {
		t.Fatalf("Next: err=%v", err)
	}
	if ok {
		t.Fatal("expected ok=false at end of stream")
	}
}

func TestJSONLinesDecoderSkipsBlankLines(t *testing.T) {
	body := "\n{\"type\":\"basic\",\"data\":{\"src_ip\":\"10.0.0.10\"}}\n\n"
	d := NewJSONLinesDecoder(stringReadCloser{strings.NewReader(body)}, "")

	raw, ok, err := d.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if raw.Type != Basic {
		t.Fatalf("type = %v", raw.Type)
	}
}

func TestJSONLinesDecoderListField(t *testing.T) {
	body := `{"type":"pstats","data":{"ppi_pkt_lengths":[60,52,54]}}` + "\n"
	d := NewJSONLinesDecoder(stringReadCloser{strings.NewReader(body)}, "")

	raw, _, err := d.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	rec := Normalize(raw)
	if rec.Data["ppi_pkt_lengths"] != "[60|52|54]" {
		t.Fatalf("ppi_pkt_lengths = %q", rec.Data["ppi_pkt_lengths"])
	}
}

func TestJSONLinesDecoderIfaceTypeOverride(t *testing.T) {
	body := `{"type":"basic","data":{"src_ip":"10.0.0.10"}}
{"type":"eof","data":{}}
`
	d := NewJSONLinesDecoder(stringReadCloser{strings.NewReader(body)}, PStats)

	raw, ok, err := d.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if raw.Type != PStats {
		t.Fatalf("type = %v, want pstats (interface-assigned, not self-reported)", raw.Type)
	}

	raw, ok, err = d.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if raw.Type != EOF {
		t.Fatalf("type = %v, want eof even with an interface type set", raw.Type)
	}
}
