package viewmodels

import "sync/atomic"

// LoadKind is the phase of a view's data load
type LoadKind int

const (
	Idle LoadKind = iota
	Loading
	Loaded
	Failed
)

func (k LoadKind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "idle"
}

// LoadState tracks one view's load. Every Begin takes a new generation so a
// response from an older request can be recognised and dropped.
type LoadState struct {
	Kind LoadKind
	Err  error
	Gen  uint64
}

// generations are process-wide so a discarded view's late response never
// matches a fresh view of the same page
var lastGen atomic.Uint64

// Begin starts a new load and returns the state to keep
func (s LoadState) Begin() LoadState {
	return LoadState{Kind: Loading, Gen: lastGen.Add(1)}
}

// Finish applies the result of the load started at gen.
// ok is false when gen is stale and the result must be ignored.
func (s LoadState) Finish(gen uint64, err error) (next LoadState, ok bool) {
	if gen != s.Gen {
		return s, false
	}
	if err != nil {
		return LoadState{Kind: Failed, Err: err, Gen: gen}, true
	}
	return LoadState{Kind: Loaded, Gen: gen}, true
}

func (s LoadState) IsLoading() bool { return s.Kind == Loading }
func (s LoadState) IsLoaded() bool  { return s.Kind == Loaded }
func (s LoadState) IsFailed() bool  { return s.Kind == Failed }
