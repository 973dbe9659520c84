/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package stats

import "github.com/danielpoliakov/bota/internal/boerr"

// SES implements Brown's simple exponential smoothing along with a
// Welford tracker over its one-step-ahead residuals, so a prediction
// interval can be derived from the residual standard deviation.
type SES struct {
	alpha   float64
	y       float64
	primed  bool
	welford Welford
}

// NewSES constructs a smoother with the given smoothing factor, which
// must lie in [0, 1].
func NewSES(alpha float64) (*SES, error) {
	if alpha < 0 || alpha > 1 {
		return nil, boerr.BadInput
	}
	return &SES{alpha: alpha}, nil
}

// Update folds a new observation into the level and, from the second
// call onward, into the residual statistics.
func (s *SES) Update(x float64) {
	if !s.primed {
		s.y = x
		s.primed = true
		return
	}
	s.welford.Update(x - s.y)
	s.y = s.alpha*x + (1-s.alpha)*s.y
}

// Pred returns the current level, i.e. the prediction for the next
// observation.
func (s *SES) Pred() float64 { return s.y }

// StdE returns the standard deviation of the one-step-ahead residuals.
func (s *SES) StdE() float64 { return s.welford.Std() }
