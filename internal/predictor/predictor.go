/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package predictor defines the opaque ML-scoring capability the CNC
// classifier depends on and ships one concrete implementation of it.
// The detector only ever depends on the Predictor interface; swapping
// in a colocated scoring process or a native model runtime requires no
// change to any caller, per the Design Notes' "ML predictor
// abstraction."
package predictor

// Label is the predicted class for a flow.
type Label string

const (
	LabelBenign Label = "benign"
	LabelCNC    Label = "cnc"
)

// Predictor scores a single feature row over a fixed, ordered column
// vector — the external training pipeline, feature extractor, and
// serialization format are not this package's concern.
type Predictor interface {
	// Predict returns the most likely label for features.
	Predict(features []float64) (Label, error)
	// PredictProba returns [p_benign, p_cnc] for features.
	PredictProba(features []float64) ([2]float64, error)
}
