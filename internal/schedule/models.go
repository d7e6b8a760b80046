package schedule

import (
	"time"

	"github.com/meetgrid/meetgrid/internal/backend"
)

// LocalIDPrefix marks ephemeral, locally-added events. Anything carrying
// this prefix is superseded by the next server fetch.
const LocalIDPrefix = "local-"

// Event is one of the viewer's own calendar events, normalized to absolute
// instants. Local distinguishes an optimistic local add (not yet known to
// the server) from server state.
type Event struct {
	ID     string
	Title  string
	Start  time.Time
	End    time.Time
	AllDay bool
	Local  bool
}

// Duration returns the event length in minutes.
func (e Event) Duration() int {
	return int(e.End.Sub(e.Start) / time.Minute)
}

// AvailableSlot is one interval in which every selected member is free.
// StartWire/EndWire keep the exact instant strings the search returned;
// StartWire doubles as the slot's identity when the user picks it.
type AvailableSlot struct {
	Date      string
	Start     time.Time
	End       time.Time
	StartWire string
	EndWire   string
}

// BusyBlock is one committed interval of a selected group member, shown
// for visualization only.
type BusyBlock struct {
	MemberEmail string
	Title       string
	Start       time.Time
	End         time.Time
	Date        string
}

// SearchMeta describes the search the current slot/busy collections came
// from.
type SearchMeta struct {
	Period     backend.SearchPeriod
	TotalFound int
}
