package reveal

// Kind is the tag of a click outcome
type Kind string

const (
	// KindRevealed means the click opened a new day
	KindRevealed Kind = "revealed"
	// KindRejected means the click targeted a day that is still locked
	KindRejected Kind = "rejected"
	// KindNoOp means the click changed nothing
	KindNoOp Kind = "noop"
)

// Reason explains a rejected or ignored click
type Reason string

const (
	// ReasonNone is used for revealed outcomes
	ReasonNone Reason = ""
	// ReasonFutureDay is given when the day number is after today
	ReasonFutureDay Reason = "future-day"
	// ReasonAlreadyRevealed is given when the day was opened before
	ReasonAlreadyRevealed Reason = "already-revealed"
	// ReasonNoTarget is given when the click hit no region
	ReasonNoTarget Reason = "no-target"
)

// Outcome describes what a click did. Day is zero for ReasonNoTarget.
type Outcome struct {
	Kind   Kind
	Day    int
	Reason Reason
}

// Revealed builds the outcome of a successful reveal
func Revealed(day int) Outcome {
	return Outcome{Kind: KindRevealed, Day: day}
}

// Rejected builds the outcome of a click on a locked day
func Rejected(day int) Outcome {
	return Outcome{Kind: KindRejected, Day: day, Reason: ReasonFutureDay}
}

// AlreadyRevealed builds the outcome of a repeated click
func AlreadyRevealed(day int) Outcome {
	return Outcome{Kind: KindNoOp, Day: day, Reason: ReasonAlreadyRevealed}
}

// NoTarget builds the outcome of a click outside every region
func NoTarget() Outcome {
	return Outcome{Kind: KindNoOp, Reason: ReasonNoTarget}
}

// String returns the string representation of the Kind
func (k Kind) String() string {
	return string(k)
}

// String returns the string representation of the Reason
func (r Reason) String() string {
	return string(r)
}

// DayState is the per-day view of the calendar at a given date
type DayState string

const (
	// DayLocked is a day after today that has not been revealed
	DayLocked DayState = "locked"
	// DayHidden is an unlocked day that has not been revealed yet
	DayHidden DayState = "hidden"
	// DayRevealed is a day that has been opened
	DayRevealed DayState = "revealed"
)

// String returns the string representation of the DayState
func (s DayState) String() string {
	return string(s)
}
