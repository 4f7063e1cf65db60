package pipeline

import "github.com/rotisserie/eris"

// ErrNoEvidence is the terminal per-query outcome when no candidate clears
// the acceptance policy. It is reported as an explicit NO_ANSWER result and
// never fails a batch.
var ErrNoEvidence = eris.New("pipeline: no evidence found")
