package reconcile

import "time"

// Window is a game's tolerant match interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow widens [start, end] by the symmetric leeway on both sides.
func NewWindow(start, end time.Time, leeway time.Duration) Window {
	return Window{Start: start.Add(-leeway), End: end.Add(leeway)}
}

// Contains reports whether the timestamp falls inside the window. Both bounds
// are inclusive.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && !ts.After(w.End)
}
