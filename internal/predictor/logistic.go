/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package predictor

import (
	"math"
	"os"

	json "github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"

	"github.com/danielpoliakov/bota/internal/boerr"
)

// logisticModel is the embedded handcrafted Predictor the Design Notes
// invite: a one-vs-rest logistic regression over the CNC column
// vector, serialized as a small JSON weight file. It honors the same
// Predictor contract a linked native model runtime would.
type logisticModel struct {
	weights *mat.VecDense
	bias    float64
	cutoff  float64
}

type logisticModelFile struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Cutoff  float64   `json:"cutoff"`
}

// LoadLogisticModel reads a JSON-serialized weight vector from path.
// Returns boerr.LoadFailure if the file is missing or malformed.
func LoadLogisticModel(path string) (Predictor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, boerr.LoadFailure
	}
	defer f.Close()

	var lmf logisticModelFile
	if err := json.NewDecoder(f).Decode(&lmf); err != nil {
		return nil, boerr.LoadFailure
	}
	if len(lmf.Weights) == 0 {
		return nil, boerr.LoadFailure
	}
	cutoff := lmf.Cutoff
	if cutoff == 0 {
		cutoff = 0.5
	}
	return &logisticModel{
		weights: mat.NewVecDense(len(lmf.Weights), lmf.Weights),
		bias:    lmf.Bias,
		cutoff:  cutoff,
	}, nil
}

func (m *logisticModel) score(features []float64) (float64, error) {
	if len(features) != m.weights.Len() {
		return 0, boerr.InternalInvariant
	}
	x := mat.NewVecDense(len(features), features)
	z := mat.Dot(m.weights, x) + m.bias
	return sigmoid(z), nil
}

func (m *logisticModel) Predict(features []float64) (Label, error) {
	p, err := m.score(features)
	if err != nil {
		return "", err
	}
	if p >= m.cutoff {
		return LabelCNC, nil
	}
	return LabelBenign, nil
}

func (m *logisticModel) PredictProba(features []float64) ([2]float64, error) {
	p, err := m.score(features)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
