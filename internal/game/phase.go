package game

// Phase is the lifecycle position of a room's game.
type Phase interface {
	Name() string
	phase()
}

// EndReason says how a round finished.
type EndReason string

const (
	ReasonDomino  EndReason = "domino"
	ReasonBlocked EndReason = "blocked"
)

// NotStarted waits for four connected players.
type NotStarted struct{}

// AwaitingFirstTile is an active round with an empty board.
type AwaitingFirstTile struct {
	// MustBeDoubleSix holds for the first round of a match.
	MustBeDoubleSix bool
	// AnyTileAllowed holds after a tied blocked round.
	AnyTileAllowed bool
}

// InPlay is an active round with tiles on the board.
type InPlay struct{}

// RoundOver waits for every connected player to be ready.
type RoundOver struct {
	Reason EndReason
	Tied   bool
}

// MatchOver is latched until every connected player is ready.
type MatchOver struct {
	Reason      EndReason
	WinningTeam int
	MatchPoints int
}

func (NotStarted) Name() string        { return "notStarted" }
func (AwaitingFirstTile) Name() string { return "awaitingFirstTile" }
func (InPlay) Name() string            { return "inPlay" }
func (RoundOver) Name() string         { return "roundOver" }
func (MatchOver) Name() string         { return "matchOver" }

func (NotStarted) phase()        {}
func (AwaitingFirstTile) phase() {}
func (InPlay) phase()            {}
func (RoundOver) phase()         {}
func (MatchOver) phase()         {}

// RoundActive reports whether tiles may be placed in phase p.
func RoundActive(p Phase) bool {
	switch p.(type) {
	case AwaitingFirstTile, InPlay:
		return true
	}
	return false
}

// awaitingReady reports whether phase p collects ready signals.
func awaitingReady(p Phase) bool {
	switch p.(type) {
	case RoundOver, MatchOver:
		return true
	}
	return false
}
