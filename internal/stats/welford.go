/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package stats implements the online statistics the anomaly
// classifier rides on: Welford's running mean/variance and simple
// exponential smoothing over its residuals.
package stats

import "math"

// Welford computes a running mean and variance in a single pass,
// following https://www.johndcook.com/blog/standard_deviation.
type Welford struct {
	n    int64
	mean float64
	s    float64
}

// Update folds a new observation into the running statistics.
func (w *Welford) Update(x float64) {
	w.n++
	if w.n == 1 {
		w.mean = x
		w.s = 0
		return
	}
	newMean := w.mean + (x-w.mean)/float64(w.n)
	w.s += (x - w.mean) * (x - newMean)
	w.mean = newMean
}

// N returns the number of observations folded in so far.
func (w *Welford) N() int64 { return w.n }

// Mean returns the running mean.
func (w *Welford) Mean() float64 { return w.mean }

// Var returns the running population variance, 0 until a second
// observation arrives.
func (w *Welford) Var() float64 {
	if w.n <= 1 {
		return 0
	}
	return w.s / float64(w.n)
}

// Std returns the running standard deviation.
func (w *Welford) Std() float64 {
	return math.Sqrt(w.Var())
}
