// Package render maps the current view state and the aggregated
// collections onto renderable grid models. It owns no state and performs
// no I/O; overlap is resolved by ordering and lateral offsets, and all
// time-to-position math is delegated to the timegrid package.
package render

import (
	"time"

	"github.com/meetgrid/meetgrid/internal/schedule"
	"github.com/meetgrid/meetgrid/internal/tz"
	"github.com/meetgrid/meetgrid/internal/view"
)

// Stacking order for the time grid: available slots are interactive
// targets and sit above everything; the viewer's own events sit above
// member busy blocks; the background grid is lowest.
const (
	ZBusy  = 10
	ZEvent = 20
	ZSlot  = 30
)

// Inputs is the complete read-only input of one render pass.
type Inputs struct {
	Granularity view.Granularity
	Anchor      time.Time
	Selected    time.Time
	HasSelected bool
	Now         time.Time

	Events   []schedule.Event
	Slots    []schedule.AvailableSlot
	Searched bool
	Busy     []schedule.BusyBlock

	// Members is the current member selection, in order; busy-block
	// colors and lateral offsets key off a member's index here.
	Members []string

	// SelectedSlotStart is the wire start instant of the slot currently
	// picked for booking, if any.
	SelectedSlotStart string
}

// MemberLegendEntry pairs a selected member with their positional color.
type MemberLegendEntry struct {
	Email string
	Color string
}

// Renderer builds view models in the display timezone.
type Renderer struct {
	conv *tz.Converter
}

// New creates a renderer bound to the display timezone.
func New(conv *tz.Converter) *Renderer {
	return &Renderer{conv: conv}
}

// Legend returns the positional member legend for the current selection.
func (r *Renderer) Legend(members []string) []MemberLegendEntry {
	out := make([]MemberLegendEntry, 0, len(members))
	for i, email := range members {
		out = append(out, MemberLegendEntry{Email: email, Color: MemberColor(i)})
	}
	return out
}

// memberIndex returns a member's position in the selection, or 0 when the
// member is not in it (a block for an unselected member should not occur,
// but rendering must not fail if it does).
func memberIndex(members []string, email string) int {
	for i, m := range members {
		if m == email {
			return i
		}
	}
	return 0
}

// sameDate reports display-zone calendar-date equality.
func (r *Renderer) sameDate(a, b time.Time) bool {
	return r.conv.Date(a) == r.conv.Date(b)
}

// eventsOn filters events to one display-zone day.
func eventsOn(r *Renderer, events []schedule.Event, day time.Time) []schedule.Event {
	var out []schedule.Event
	for _, e := range events {
		if r.sameDate(e.Start, day) {
			out = append(out, e)
		}
	}
	return out
}

func slotsOn(r *Renderer, slots []schedule.AvailableSlot, day time.Time) []schedule.AvailableSlot {
	var out []schedule.AvailableSlot
	for _, s := range slots {
		if r.sameDate(s.Start, day) {
			out = append(out, s)
		}
	}
	return out
}

func busyOn(r *Renderer, busy []schedule.BusyBlock, day time.Time) []schedule.BusyBlock {
	var out []schedule.BusyBlock
	for _, b := range busy {
		if r.sameDate(b.Start, day) {
			out = append(out, b)
		}
	}
	return out
}
