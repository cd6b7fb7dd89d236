package pipeline

import "fmt"

// State is a position in the reconstruction state machine.
type State int

const (
	StateIndexing State = iota
	StateSmoothing
	StateHullBuilding
	StateExporting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIndexing:     "Indexing",
	StateSmoothing:    "Smoothing",
	StateHullBuilding: "HullBuilding",
	StateExporting:    "Exporting",
	StateDone:         "Done",
	StateFailed:       "Failed",
}

// String returns the state name, e.g. "HullBuilding".
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// next returns the state that follows s on success.
func (s State) next() State {
	if s.Terminal() {
		return s
	}
	return s + 1
}
