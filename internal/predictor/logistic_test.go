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
	"path/filepath"
	"testing"
)

func writeModelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadLogisticModel(t *testing.T) {
	path := writeModelFile(t, `{"weights":[1,-1],"bias":0,"cutoff":0.5}`)

	m, err := LoadLogisticModel(path)
	if err != nil {
		t.Fatalf("LoadLogisticModel: %v", err)
	}

	proba, err := m.PredictProba([]float64{5, 5})
	if err != nil {
		t.Fatalf("PredictProba: %v", err)
	}
	if math.Abs(proba[1]-0.5) > 1e-9 {
		t.Fatalf("p_cnc = %v, want 0.5 (weights cancel)", proba[1])
	}

	label, err := m.Predict([]float64{10, 0})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if label != LabelCNC {
		t.Fatalf("label = %v, want cnc for strongly positive score", label)
	}

	label, err = m.Predict([]float64{0, 10})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if label != LabelBenign {
		t.Fatalf("label = %v, want benign for strongly negative score", label)
	}
}

func TestLoadLogisticModelMissingFile(t *testing.T) {
	if _, err := LoadLogisticModel("/nonexistent/model.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadLogisticModelEmptyWeights(t *testing.T) {
	path := writeModelFile(t, `{"weights":[],"bias":0}`)
	if _, err := LoadLogisticModel(path); err == nil {
		t.Fatal("expected error for empty weights")
	}
}

func TestScoreDimensionMismatch(t *testing.T) {
	path := writeModelFile(t, `{"weights":[1,2,3],"bias":0}`)
	m, err := LoadLogisticModel(path)
	if err != nil {
		t.Fatalf("LoadLogisticModel: %v", err)
	}
	if _, err := m.Predict([]float64{1, 2}); err == nil {
		t.Fatal("expected error for feature vector length mismatch")
	}
}
