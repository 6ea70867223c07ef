package game

import "fmt"

// Status is a game's lifecycle stage. A game only ever moves forward:
// pending, then playing, then done.
type Status int

const (
	StatusPending Status = iota
	StatusPlaying
	// StatusDone is reserved; no transition into it is defined yet.
	StatusDone
)

var statusNames = [...]string{
	StatusPending: "pending",
	StatusPlaying: "playing",
	StatusDone:    "done",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown game status %q", s)
}

// CanBecome reports whether a game in status s may move to next.
func (s Status) CanBecome(next Status) bool {
	return next > s && next <= StatusDone
}
