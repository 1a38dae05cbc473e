package game

import "errors"

// Validation errors are reported to the offending connection only.
var (
	ErrNameRequired      = errors.New("name required")
	ErrNameTaken         = errors.New("name already taken in this room")
	ErrAlreadySeated     = errors.New("connection already seated")
	ErrNotSeated         = errors.New("connection is not seated in a room")
	ErrRoundNotActive    = errors.New("round is not active")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrTileNotInHand     = errors.New("tile not in hand")
	ErrInvalidPosition   = errors.New("position must be left or right")
	ErrMustOpenDoubleSix = errors.New("first tile of the match must be 6|6")
	ErrIllegalPlacement  = errors.New("tile does not match that end")
	ErrIllegalPass       = errors.New("cannot pass with a playable tile")
	ErrNotAwaitingReady  = errors.New("not waiting for ready signals")
)

// ErrRoomFull is a capacity error.
var ErrRoomFull = errors.New("room full")

// ErrTurnOutOfSeating marks an internal consistency fault.
var ErrTurnOutOfSeating = errors.New("current turn is not in seating order")

var validationErrs = []error{
	ErrNameRequired, ErrNameTaken, ErrAlreadySeated, ErrNotSeated,
	ErrRoundNotActive, ErrNotYourTurn, ErrTileNotInHand, ErrInvalidPosition,
	ErrMustOpenDoubleSix, ErrIllegalPlacement, ErrIllegalPass, ErrNotAwaitingReady,
}

// IsValidation reports whether err was caused by a rejected client request.
func IsValidation(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
