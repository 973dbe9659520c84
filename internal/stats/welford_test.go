/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package stats

import (
	"math"
	"math/rand"
	"testing"
)

func TestWelfordMeanVar(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	vals := make([]float64, 1000)
	for i := range vals {
		vals[i] = float64(r.Intn(100))
	}

	var w Welford
	var sum float64
	for _, x := range vals {
		w.Update(x)
		sum += x
	}
	mean := sum / float64(len(vals))

	var sqDiff float64
	for _, x := range vals {
		sqDiff += (x - mean) * (x - mean)
	}
	popVar := sqDiff / float64(len(vals))

	if !closeEnough(w.Mean(), mean, 1e-9) {
		t.Fatalf("mean = %v, want %v", w.Mean(), mean)
	}
	if !closeEnough(w.Var(), popVar, 1e-6) {
		t.Fatalf("var = %v, want %v", w.Var(), popVar)
	}
}

func TestWelfordSingleObservation(t *testing.T) {
	var w Welford
	w.Update(42)
	if w.Var() != 0 {
		t.Fatalf("var after one observation = %v, want 0", w.Var())
	}
	if w.Mean() != 42 {
		t.Fatalf("mean = %v, want 42", w.Mean())
	}
}

func closeEnough(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
