package session

import "fmt"

// State is the controller's position in the extraction workflow.
type State int

const (
	Idle State = iota
	ImageSelected
	Extracting
	Extracted
	Editing
)

var stateNames = [...]string{
	Idle:          "idle",
	ImageSelected: "image_selected",
	Extracting:    "extracting",
	Extracted:     "extracted",
	Editing:       "editing",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
