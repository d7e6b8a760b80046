package schedule

import "time"

// Per-day projections filter the collections by calendar date in the
// display zone, never by the wire UTC date: an item whose UTC date differs
// from its local date groups under its local date.

// OwnEventsOn returns the viewer's events falling on the given display-zone
// day.
func (a *Aggregator) OwnEventsOn(day time.Time) []Event {
	want := a.conv.Date(day)

	a.mu.Lock()
	defer a.mu.Unlock()

	var out []Event
	for _, e := range a.events {
		if a.conv.Date(e.Start) == want {
			out = append(out, e)
		}
	}
	return out
}

// AvailableSlotsOn returns the available slots falling on the given
// display-zone day.
func (a *Aggregator) AvailableSlotsOn(day time.Time) []AvailableSlot {
	want := a.conv.Date(day)

	a.mu.Lock()
	defer a.mu.Unlock()

	var out []AvailableSlot
	for _, s := range a.slots {
		if a.conv.Date(s.Start) == want {
			out = append(out, s)
		}
	}
	return out
}

// BusyBlocksOn returns the selected members' busy blocks falling on the
// given display-zone day, in member-selection order.
func (a *Aggregator) BusyBlocksOn(day time.Time) []BusyBlock {
	want := a.conv.Date(day)

	a.mu.Lock()
	defer a.mu.Unlock()

	var out []BusyBlock
	for _, b := range a.busy {
		if a.conv.Date(b.Start) == want {
			out = append(out, b)
		}
	}
	return out
}
