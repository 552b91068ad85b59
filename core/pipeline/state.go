package pipeline

import "fmt"

// State is a step of a pipeline run.
type State int

const (
	Idle State = iota
	Fetching
	Tokenizing
	Classifying
	BuildingSections
	Rendering
	Done
	Failed
)

var stateNames = map[State]string{
	Idle:             "idle",
	Fetching:         "fetching",
	Tokenizing:       "tokenizing",
	Classifying:      "classifying",
	BuildingSections: "building_sections",
	Rendering:        "rendering",
	Done:             "done",
	Failed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for st, name := range stateNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown pipeline state %q", text)
}

// StageError reports the state a run was in when it failed.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
