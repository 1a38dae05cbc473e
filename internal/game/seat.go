package game

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dominom/internal/protocol"
)

const (
	NumSeats      = 4
	HandSize      = 7
	MaxNameLength = 12
)

// Seat identifies one of the four fixed places at a table.
type Seat int

const (
	SeatNone Seat = iota
	Seat1
	Seat2
	Seat3
	Seat4
)

// Seats lists every seat in table order.
var Seats = [NumSeats]Seat{Seat1, Seat2, Seat3, Seat4}

// Valid reports whether s is one of the four seats.
func (s Seat) Valid() bool {
	return s >= Seat1 && s <= Seat4
}

func (s Seat) String() string {
	return fmt.Sprintf("Jugador %d", int(s))
}

// DefaultAvatar returns the stock avatar of a seat.
func (s Seat) DefaultAvatar() protocol.Avatar {
	return protocol.Avatar{Type: "file", Data: fmt.Sprintf("jugador%d_avatar.jpg", int(s))}
}

// Slot is a seat in a room and the player bound to it.
type Slot struct {
	Seat      Seat
	Name      string
	ConnID    string
	Connected bool
	Avatar    protocol.Avatar
}

func (s *Slot) bind(connID string) {
	s.ConnID = connID
	s.Connected = true
}

func (s *Slot) unbind() {
	s.ConnID = ""
	s.Connected = false
}

// NormalizeName trims, truncates and upper-cases a display name.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return cases.Upper(language.Und).String(name)
}
