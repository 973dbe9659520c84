/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package classifier

import (
	"encoding/hex"
	"strings"

	"github.com/danielpoliakov/bota/internal/adapter"
)

// stratumPattern is one of Stratum's six matching substrings, hex
// encoded since idp_content arrives hex encoded.
type stratumPattern struct {
	id  int
	hex string
}

var stratumPatterns = []stratumPattern{
	{0, hexOf(`"id":`)},
	{1, hexOf(`"jsonrpc":`)},
	{2, hexOf(`"method":`)},
	{3, hexOf(`"params":`)},
	{4, hexOf(`"login"`)},
	{5, hexOf(`"job"`)},
}

// stratumRule is a boolean-AND rule: it fires when every pattern id in
// need has matched.
type stratumRule struct {
	name string
	need map[int]bool
}

// stratumRules is evaluated in order; the first rule whose full
// pattern set matched wins.
var stratumRules = []stratumRule{
	{"stratum_login", setOf(0, 1, 2, 3, 4)},
	{"stratum_job", setOf(1, 2, 3, 5)},
}

func hexOf(s string) string { return strings.ToLower(hex.EncodeToString([]byte(s))) }

func setOf(ids ...int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// Stratum detects Stratum mining-pool protocol traffic by scanning
// for a fixed set of JSON-RPC field markers in the hex-encoded initial
// data payload. No Aho-Corasick (or similar automaton) library is
// present anywhere in the retrieved example pack, so the "or
// equivalent" the spec allows is used instead: one substring scan per
// pattern over a short payload prefix. Consumes idpcontent records
// only; sticky-positive within a window.
type Stratum struct {
	sticky
}

// NewStratum constructs an idle Stratum classifier.
func NewStratum() *Stratum { return &Stratum{} }

func (s *Stratum) OnMessage(rec *adapter.Record) {
	if s.positive {
		return
	}

	content := rec.IDPContent()
	matched := make(map[int]bool, len(stratumPatterns))
	for _, p := range stratumPatterns {
		if strings.Contains(content, p.hex) {
			matched[p.id] = true
		}
	}

	for _, rule := range stratumRules {
		if subsetOf(rule.need, matched) {
			s.positive = true
			reason := FlowReason(rec)
			reason["rule"] = rule.name
			s.reason = reason
			return
		}
	}
}

func subsetOf(need, have map[int]bool) bool {
	for id := range need {
		if !have[id] {
			return false
		}
	}
	return true
}
