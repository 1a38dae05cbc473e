package viewmodel

// HomePage holds data for the lobby page template.
type HomePage struct {
	Title       string
	SocketURL   string
	TargetScore int
	Rooms       []RoomEntry
}

// RoomEntry is one open room in the lobby list.
type RoomEntry struct {
	ID        string
	Connected int
	Seats     int
	Phase     string
	Full      bool
}
