// Package pages renders full HTML pages.
package pages

import (
	"fmt"

	"dominom/internal/viewmodel"
)

var phaseLabels = map[string]string{
	"notStarted":        "waiting for players",
	"awaitingFirstTile": "opening",
	"inPlay":            "in play",
	"roundOver":         "round over",
	"matchOver":         "match over",
}

func seatsLabel(room viewmodel.RoomEntry) string {
	return fmt.Sprintf("%d/%d", room.Connected, room.Seats)
}

func roomStatus(room viewmodel.RoomEntry) string {
	status, ok := phaseLabels[room.Phase]
	if !ok {
		status = room.Phase
	}
	if room.Full {
		status += " (full)"
	}
	return status
}
