/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package classifier

import (
	"testing"

	"github.com/danielpoliakov/bota/internal/adapter"
)

func stratumRecord(content string) *adapter.Record {
	return &adapter.Record{
		Type: adapter.IDPContent,
		Data: map[string]string{
			"time_first":  "2021-01-01T00:00:00.000000",
			"time_last":   "2021-01-01T00:03:00.000000",
			"dst_ip":      "10.0.10.10",
			"src_ip":      "10.0.10.20",
			"dst_port":    "6881",
			"src_port":    "42000",
			"protocol":    "17",
			"idp_content": content,
		},
	}
}

func TestStratumLogin(t *testing.T) {
	c := NewStratum()

	login := hexOf(`"id":`) + hexOf(`"jsonrpc":`) + hexOf(`"method":`) + hexOf(`"params":`) + hexOf(`"login"`)
	c.OnMessage(stratumRecord(login))

	if !c.Positive() {
		t.Fatal("expected positive for stratum login pattern set")
	}
	if got := c.Reason()["rule"]; got != "stratum_login" {
		t.Fatalf("rule = %v, want stratum_login", got)
	}
}

func TestStratumJob(t *testing.T) {
	c := NewStratum()

	job := hexOf(`"jsonrpc":`) + hexOf(`"method":`) + hexOf(`"params":`) + hexOf(`"job"`)
	c.OnMessage(stratumRecord(job))

	if !c.Positive() {
		t.Fatal("expected positive for stratum job pattern set")
	}
	if got := c.Reason()["rule"]; got != "stratum_job" {
		t.Fatalf("rule = %v, want stratum_job", got)
	}
}

func TestStratumNoMatch(t *testing.T) {
	c := NewStratum()

	mix := hexOf(`"id":`) + hexOf(`"jsonrpc":`) + hexOf(`"method":`) + hexOf(`"job"`)
	c.OnMessage(stratumRecord(mix))

	if c.Positive() {
		t.Fatal("expected not positive: neither rule's full pattern set matched")
	}
	if len(c.Reason()) != 0 {
		t.Fatalf("reason = %v, want empty", c.Reason())
	}
}
