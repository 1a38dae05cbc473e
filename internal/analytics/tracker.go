package analytics

import (
	"context"
	"sort"
	"sync"
	"time"
)

const (
	dayLayout        = "2006-01-02"
	DefaultRetention = 30
)

// Tracker is an in-memory Sink that keeps per-day usage counters.
type Tracker struct {
	mu        sync.Mutex
	days      map[string]*dayBucket
	retention int
	now       func() time.Time
}

type dayBucket struct {
	players map[string]struct{}
	rooms   map[string]struct{}
	joins   int
	created int
	tiles   int
	rounds  int
	matches int
}

// NewTracker keeps retention days of counters.
func NewTracker(retention int) *Tracker {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Tracker{
		days:      make(map[string]*dayBucket),
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (t *Tracker) Record(_ context.Context, e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := e.At.UTC().Format(dayLayout)
	b, ok := t.days[key]
	if !ok {
		b = &dayBucket{players: make(map[string]struct{}), rooms: make(map[string]struct{})}
		t.days[key] = b
		t.prune()
	}
	switch e.Type {
	case EventPlayerJoin:
		b.joins++
		if e.Player != "" {
			b.players[e.Player] = struct{}{}
		}
		b.rooms[e.RoomID] = struct{}{}
	case EventRoomCreated:
		b.created++
	case EventTilePlaced:
		b.tiles++
	case EventRoundCompleted:
		b.rounds++
	case EventMatchCompleted:
		b.matches++
	}
	return nil
}

func (t *Tracker) prune() {
	cutoff := t.now().AddDate(0, 0, -t.retention).Format(dayLayout)
	for key := range t.days {
		if key < cutoff {
			delete(t.days, key)
		}
	}
}

// DayStats is one day of usage.
type DayStats struct {
	Date            string `json:"date"`
	UniquePlayers   int    `json:"uniquePlayers"`
	Joins           int    `json:"joins"`
	ActiveRooms     int    `json:"activeRooms"`
	RoomsCreated    int    `json:"roomsCreated"`
	TilePlacements  int    `json:"tilePlacements"`
	RoundsCompleted int    `json:"roundsCompleted"`
	Games           int    `json:"games"`
}

// Report aggregates the last N days.
type Report struct {
	Days            int        `json:"days"`
	TotalPlayers    int        `json:"totalPlayers"`
	TotalJoins      int        `json:"totalJoins"`
	TotalGames      int        `json:"totalGames"`
	RoomsCreated    int        `json:"roomsCreated"`
	TilePlacements  int        `json:"tilePlacements"`
	RoundsCompleted int        `json:"roundsCompleted"`
	Today           DayStats   `json:"today"`
	Daily           []DayStats `json:"dailyBreakdown"`
}

// Summary reports the last days days, today included, newest first.
func (t *Tracker) Summary(days int) Report {
	if days <= 0 {
		days = 7
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	today := now.Format(dayLayout)
	cutoff := now.AddDate(0, 0, -(days - 1)).Format(dayLayout)
	players := make(map[string]struct{})
	rep := Report{Days: days, Today: DayStats{Date: today}}
	for key, b := range t.days {
		if key < cutoff {
			continue
		}
		stats := b.stats(key)
		rep.Daily = append(rep.Daily, stats)
		rep.TotalJoins += b.joins
		rep.TotalGames += b.matches
		rep.RoomsCreated += b.created
		rep.TilePlacements += b.tiles
		rep.RoundsCompleted += b.rounds
		for p := range b.players {
			players[p] = struct{}{}
		}
		if key == today {
			rep.Today = stats
		}
	}
	rep.TotalPlayers = len(players)
	sort.Slice(rep.Daily, func(i, j int) bool { return rep.Daily[i].Date > rep.Daily[j].Date })
	return rep
}

func (b *dayBucket) stats(date string) DayStats {
	return DayStats{
		Date:            date,
		UniquePlayers:   len(b.players),
		Joins:           b.joins,
		ActiveRooms:     len(b.rooms),
		RoomsCreated:    b.created,
		TilePlacements:  b.tiles,
		RoundsCompleted: b.rounds,
		Games:           b.matches,
	}
}
