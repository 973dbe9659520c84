/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package adapter normalizes inbound flow records from whatever wire
// shape an interface's Decoder produces into the typed dictionary the
// rest of the detection pipeline consumes, and fans deliveries from
// concurrent interfaces into the monitor under a single lock.
package adapter

import (
	"fmt"
	"strconv"
	"time"
)

// Type tags the kind of flow record, which determines which required
// fields are present and which classifiers it is eligible for.
type Type string

const (
	Basic      Type = "basic"
	PStats     Type = "pstats"
	IDPContent Type = "idpcontent"
	EOF        Type = "eof"
)

// TimeFormat is the microsecond-precision layout every timestamp field
// is normalized to.
const TimeFormat = "2006-01-02T15:04:05.000000"

// DirectionRole describes whether the owning endpoint originated or
// received a flow.
type DirectionRole string

const (
	Source      DirectionRole = "source"
	Destination DirectionRole = "destination"
)

// Record is one normalized flow record: a type tag plus a flat map of
// lowercase field name to its normalized string value. List-valued
// fields are pre-joined as "[a|b|c]" by the adapter, matching the
// wire shape described in spec.md §4.9.
type Record struct {
	Type          Type
	Data          map[string]string
	DirectionRole DirectionRole
}

func (r *Record) field(name string) string {
	if r.Data == nil {
		return ""
	}
	return r.Data[name]
}

func (r *Record) SrcIP() string  { return r.field("src_ip") }
func (r *Record) DstIP() string  { return r.field("dst_ip") }
func (r *Record) SrcMAC() string { return r.field("src_mac") }
func (r *Record) DstMAC() string { return r.field("dst_mac") }

// TimeLast parses the record's time_last field. A malformed timestamp
// aborts handling of this one record; it never panics.
func (r *Record) TimeLast() (time.Time, error) {
	return time.Parse(TimeFormat, r.field("time_last"))
}

// TimeFirst parses the record's time_first field.
func (r *Record) TimeFirst() (time.Time, error) {
	return time.Parse(TimeFormat, r.field("time_first"))
}

func (r *Record) intField(name string) (int64, error) {
	v := r.field(name)
	if v == "" {
		return 0, fmt.Errorf("field %s missing", name)
	}
	return strconv.ParseInt(v, 10, 64)
}

func (r *Record) Packets() (int64, error)    { return r.intField("packets") }
func (r *Record) PacketsRev() (int64, error) { return r.intField("packets_rev") }
func (r *Record) Bytes() (int64, error)      { return r.intField("bytes") }
func (r *Record) BytesRev() (int64, error)   { return r.intField("bytes_rev") }
func (r *Record) DstPort() (int64, error)    { return r.intField("dst_port") }

// IDPContent returns the hex-encoded initial-data-payload prefix.
func (r *Record) IDPContent() string { return r.field("idp_content") }

// PPIPktTimes returns the bracketed, pipe-separated per-packet time
// list verbatim.
func (r *Record) PPIPktTimes() string { return r.field("ppi_pkt_times") }
