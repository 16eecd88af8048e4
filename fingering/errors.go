package fingering

import "errors"

var (
	// ErrUnplayablePitch means no string/fret pair can sound the
	// pitch on the configured instrument.
	ErrUnplayablePitch = errors.New("pitch not playable on this instrument")

	// ErrInfeasibleSpan means a note group has no finger assignment
	// within the configured hand span. It is recovered per group by
	// the fallback policy and only surfaces when recovery fails too.
	ErrInfeasibleSpan = errors.New("no feasible fingering for note group")
)
