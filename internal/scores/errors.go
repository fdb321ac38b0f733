package scores

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced game or round does not exist.
	ErrNotFound = errors.New("not found")

	// ErrActiveGameExists is returned by StartGame while another game is
	// still active.
	ErrActiveGameExists = errors.New("an active game already exists")

	// ErrPointsOutOfRange is returned for score values outside 0..13.
	ErrPointsOutOfRange = errors.New("points must be between 0 and 13")

	// ErrInvalidRoundCount is returned for a non-positive total round count.
	ErrInvalidRoundCount = errors.New("total rounds must be greater than zero")

	// ErrTagTooLong is returned when a trimmed tag exceeds MaxTagLength.
	ErrTagTooLong = fmt.Errorf("tag must be %d characters or fewer", MaxTagLength)
)

// InvalidRoundResultError reports a complete round that does not have
// exactly one zero-point winner. It aborts the entire close operation
// before any write.
type InvalidRoundResultError struct {
	RoundID     string
	ZeroWinners int
}

func (e *InvalidRoundResultError) Error() string {
	return fmt.Sprintf(
		"invalid round result: expected exactly one player with 0 points in round %s, but found %d",
		e.RoundID, e.ZeroWinners,
	)
}
