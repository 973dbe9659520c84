/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package flowfeat extracts the per-packet timing, length and flag
// statistics the CNC classifier's predictor scores, and implements
// the source/destination swap a destination-side observation needs
// before it can be compared against the same column vector. The exact
// feature extractor this mirrors (fet.pstats) is an external,
// independently-trained collaborator per spec.md §4.5/§9 and is not
// part of this pack; the columns below are this project's own fixed
// ordering, excluding bytes_rev_rate and bytes_total_rate as the spec
// requires.
package flowfeat

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/danielpoliakov/bota/internal/adapter"
)

// Columns is the fixed, ordered feature vector the CNC predictor
// scores. bytes_rev_rate and bytes_total_rate are intentionally absent.
var Columns = []string{
	"duration",
	"packets",
	"packets_rev",
	"bytes",
	"bytes_rev",
	"bytes_rate",
	"packets_rate",
	"ppi_len_mean",
	"ppi_len_std",
	"ppi_len_min",
	"ppi_len_max",
	"ppi_iat_mean",
	"ppi_iat_std",
	"ppi_dir_ratio",
}

// MinPackets is the minimum per-packet sample count the engineered
// per-packet statistics require to be meaningful.
const MinPackets = 3

// Row holds one engineered feature row plus the duration, which the
// CNC classifier filters on independently of the column vector.
type Row struct {
	Duration float64
	Values   []float64
}

// Extract builds the engineered feature row for rec, swapping
// source/destination fields (including per-packet direction signs)
// when the owning endpoint observed the flow as its destination.
// Returns ok=false if fewer than MinPackets per-packet samples are
// available.
func Extract(rec *adapter.Record, swap bool) (Row, bool) {
	lengths := parseFloats(rec.Data["ppi_pkt_lengths"])
	times := parseTimesMicros(rec.Data["ppi_pkt_times"])
	dirs := parseFloats(rec.Data["ppi_pkt_directions"])
	if swap {
		for i := range dirs {
			dirs[i] = -dirs[i]
		}
	}

	if len(lengths) < MinPackets || len(times) < MinPackets {
		return Row{}, false
	}

	duration := 0.0
	if len(times) >= 2 {
		duration = (times[len(times)-1] - times[0]) / 1e6
	}

	packets, _ := rec.Packets()
	packetsRev, _ := rec.PacketsRev()
	bytes, _ := rec.Bytes()
	bytesRev, _ := rec.BytesRev()
	if swap {
		packets, packetsRev = packetsRev, packets
		bytes, bytesRev = bytesRev, bytes
	}

	bytesRate, packetsRate := 0.0, 0.0
	if duration > 0 {
		bytesRate = float64(bytes+bytesRev) / duration
		packetsRate = float64(packets+packetsRev) / duration
	}

	lenMean, lenStd, lenMin, lenMax := meanStdMinMax(lengths)
	iat := interarrival(times)
	iatMean, iatStd, _, _ := meanStdMinMax(iat)
	dirRatio := dirRatioOf(dirs)

	return Row{
		Duration: duration,
		Values: []float64{
			duration,
			float64(packets),
			float64(packetsRev),
			float64(bytes),
			float64(bytesRev),
			bytesRate,
			packetsRate,
			lenMean,
			lenStd,
			lenMin,
			lenMax,
			iatMean,
			iatStd,
			dirRatio,
		},
	}, true
}

func dirRatioOf(dirs []float64) float64 {
	if len(dirs) == 0 {
		return 0
	}
	var pos float64
	for _, d := range dirs {
		if d > 0 {
			pos++
		}
	}
	return pos / float64(len(dirs))
}

func interarrival(times []float64) []float64 {
	if len(times) < 2 {
		return nil
	}
	out := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		out = append(out, (times[i]-times[i-1])/1e6)
	}
	return out
}

func meanStdMinMax(xs []float64) (mean, std, min, max float64) {
	if len(xs) == 0 {
		return 0, 0, 0, 0
	}
	min, max = xs[0], xs[0]
	for _, x := range xs {
		mean += x
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	std /= float64(len(xs))
	return mean, sqrt(std), min, max
}

func sqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// parseFloats parses a "[a|b|c]" bracketed, pipe-separated list of
// numbers as produced by the ingestion adapter.
func parseFloats(s string) []float64 {
	items := splitBracketed(s)
	out := make([]float64, 0, len(items))
	for _, it := range items {
		if v, err := strconv.ParseFloat(it, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// parseTimesMicros parses a "[t1|t2|...]" list of TimeFormat
// timestamps into microseconds-since-epoch floats, for interarrival
// arithmetic.
func parseTimesMicros(s string) []float64 {
	items := splitBracketed(s)
	out := make([]float64, 0, len(items))
	for _, it := range items {
		t, err := time.Parse(adapter.TimeFormat, it)
		if err != nil {
			continue
		}
		out = append(out, float64(t.UnixMicro()))
	}
	return out
}

func splitBracketed(s string) []string {
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}
