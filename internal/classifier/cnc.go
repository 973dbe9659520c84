/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package classifier

import (
	"math"

	"github.com/danielpoliakov/bota/internal/adapter"
	"github.com/danielpoliakov/bota/internal/flowfeat"
	"github.com/danielpoliakov/bota/internal/predictor"
)

// MinDuration is the shortest flow duration the CNC predictor's
// training data covers; shorter flows are skipped rather than scored.
const MinDuration = 50.0

// CNC scores pstats records against an external command-and-control
// traffic model. Consumes pstats records only; sticky-positive within
// a window, recording the predicted probability alongside the usual
// flow reason fields.
type CNC struct {
	sticky
	model predictor.Predictor
}

// NewCNC constructs a CNC classifier backed by model.
func NewCNC(model predictor.Predictor) *CNC {
	return &CNC{model: model}
}

func (c *CNC) OnMessage(rec *adapter.Record) {
	if c.positive {
		return
	}
	if rec.Type != adapter.PStats {
		return
	}

	packets, _ := rec.Packets()
	packetsRev, _ := rec.PacketsRev()
	if packets+packetsRev < flowfeat.MinPackets {
		return
	}
	if rec.PPIPktTimes() == "[]" || rec.PPIPktTimes() == "" {
		return
	}

	swap := rec.DirectionRole == adapter.Destination
	row, ok := flowfeat.Extract(rec, swap)
	if !ok || row.Duration < MinDuration {
		return
	}

	proba, err := c.model.PredictProba(row.Values)
	if err != nil {
		return
	}
	label, err := c.model.Predict(row.Values)
	if err != nil || label != predictor.LabelCNC {
		return
	}

	reason := FlowReason(rec)
	reason["probability"] = round6(proba[1])
	c.positive = true
	c.reason = reason
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
