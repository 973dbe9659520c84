/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package stats

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// PoissonSamples draws n samples from a Poisson distribution with the
// given mean, used to warm-start an anomaly classifier's smoother so
// its prediction rule is active from the very first window.
func PoissonSamples(mean float64, n int, src rand.Source) []float64 {
	d := distuv.Poisson{Lambda: mean, Src: src}
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}
