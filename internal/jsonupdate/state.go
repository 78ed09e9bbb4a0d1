package jsonupdate

// State is a step of a single update.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateDefaulting
	StateDefaulted
	StateLoadFailed
	StateDefaultFailed
	StateUpdating
	StateUpdated
	StateUpdateFailed
	StatePersisting
	StateDone
	StatePersistFailed
)

var stateNames = [...]string{
	StateIdle:          "idle",
	StateLoading:       "loading",
	StateLoaded:        "loaded",
	StateDefaulting:    "defaulting",
	StateDefaulted:     "defaulted",
	StateLoadFailed:    "load-failed",
	StateDefaultFailed: "default-failed",
	StateUpdating:      "updating",
	StateUpdated:       "updated",
	StateUpdateFailed:  "update-failed",
	StatePersisting:    "persisting",
	StateDone:          "done",
	StatePersistFailed: "persist-failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further step follows s.
func (s State) Terminal() bool {
	switch s {
	case StateLoadFailed, StateDefaultFailed, StateUpdateFailed, StateDone, StatePersistFailed:
		return true
	}
	return false
}
