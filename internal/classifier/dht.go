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

// dhtPrefix is the hex encoding of the literal BitTorrent DHT
// announce prefix "d1:ad2:id20:".
var dhtPrefix = strings.ToLower(hex.EncodeToString([]byte("d1:ad2:id20:")))

// DHT detects BitTorrent DHT traffic by its bencoded announce prefix
// in the flow's initial data payload. Consumes idpcontent records
// only; sticky-positive within a window.
type DHT struct {
	sticky
}

// NewDHT constructs an idle DHT classifier.
func NewDHT() *DHT { return &DHT{} }

func (d *DHT) OnMessage(rec *adapter.Record) {
	if d.positive {
		return
	}
	if strings.HasPrefix(rec.IDPContent(), dhtPrefix) {
		d.positive = true
		d.reason = FlowReason(rec)
	}
}
