/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package boerr defines the error kinds shared across the detection
// pipeline so callers can distinguish fatal construction failures from
// per-record faults with errors.Is.
package boerr

import "errors"

var (
	// BadInput marks malformed configuration input: an invalid CIDR,
	// an out-of-range smoothing factor, an unknown filter or
	// aggregation kind.
	BadInput = errors.New("bad input")

	// LoadFailure marks a predictor or relay list that could not be
	// read or deserialized at startup.
	LoadFailure = errors.New("load failure")

	// TransportFailure marks a recoverable per-stream ingestion error.
	TransportFailure = errors.New("transport failure")

	// InternalInvariant marks an unexpected collaborator response,
	// such as a predictor returning a label outside its known set.
	// Callers treat it as a skipped record, not a fatal error.
	InternalInvariant = errors.New("internal invariant violated")
)
