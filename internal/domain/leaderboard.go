package domain

// Person is one counted entity on a leaderboard.
type Person struct {
	ID    string
	Name  string
	Count int64
}

// Leaderboard is the remote state mirrored into a live message.
type Leaderboard struct {
	Slug   string
	Name   string
	People []Person
}

// Delta is a signed single-step change applied to a person's count.
type Delta int

const (
	DeltaIncrement Delta = 1
	DeltaDecrement Delta = -1
)

// Valid reports whether d is one of the supported steps.
func (d Delta) Valid() bool {
	return d == DeltaIncrement || d == DeltaDecrement
}

// Label renders the delta the way buttons show it.
func (d Delta) Label() string {
	if d > 0 {
		return "+1"
	}
	return "-1"
}

// NoSelectionValue is the sentinel option value shown when a list has no people.
// It must never be accepted as a selection.
const NoSelectionValue = "0"
