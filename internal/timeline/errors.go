package timeline

import (
	"errors"
	"fmt"
)

// ErrLoad marks a game source that is missing or unparseable. No partial
// timeline is ever produced alongside it.
var ErrLoad = errors.New("game source could not be loaded")

// RangeError reports a snapshot index outside the timeline.
type RangeError struct {
	Index int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("snapshot index %d out of range [0, %d]", e.Index, e.Max)
}
