// Package schedule owns the three fetched collections the calendar is
// built from: the viewer's own events, the selected members' busy blocks,
// and the computed available slots. It is the only writer of those
// collections; the renderer and HTTP handlers read snapshots.
//
// Each collection is replaced wholesale per fetch. Competing fetches for
// the same collection are resolved last-write-wins by completion order: a
// fetch takes a monotonically increasing token at issue time and its
// response is discarded if a newer token has been issued meanwhile.
package schedule

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meetgrid/meetgrid/internal/backend"
	"github.com/meetgrid/meetgrid/internal/metrics"
	"github.com/meetgrid/meetgrid/internal/tz"
	"github.com/meetgrid/meetgrid/internal/view"
)

// Aggregator merges the backend's responses into display-ready
// collections keyed to the current window.
type Aggregator struct {
	client *backend.Client
	conv   *tz.Converter

	mu sync.Mutex

	// Own events.
	events        []Event
	loadingEvents bool
	eventsErr     error
	loadedWindow  view.Window
	haveLoaded    bool
	eventsToken   uint64

	// Availability search results. slots == nil means "never searched";
	// an empty non-nil slice means "searched, none found".
	slots           []AvailableSlot
	busy            []BusyBlock
	searchMeta      *SearchMeta
	selectedMembers []string
	searchErr       error
	searchToken     uint64

	// Group context.
	groups        []backend.Group
	activeGroup   *backend.Group
	members       []backend.GroupMember
	loadingGroups bool
	groupsErr     error
}

// NewAggregator builds an aggregator over the given backend client and
// display-zone converter.
func NewAggregator(client *backend.Client, conv *tz.Converter) *Aggregator {
	return &Aggregator{client: client, conv: conv}
}

// LoadOwnEvents fetches the viewer's events for the window and replaces
// the own-events collection wholesale. On failure the collection becomes
// empty and the error is recorded; stale data is never left mixed with a
// failure state. Any locally-added optimistic events are discarded by the
// replacement.
func (a *Aggregator) LoadOwnEvents(ctx context.Context, w view.Window) error {
	a.mu.Lock()
	a.eventsToken++
	token := a.eventsToken
	a.loadingEvents = true
	a.mu.Unlock()

	events, err := a.client.Events(ctx, w.Start, w.End)
	metrics.ObserveFetch("events", err)

	a.mu.Lock()
	defer a.mu.Unlock()

	if token != a.eventsToken {
		// A later fetch was issued while this one was in flight; its
		// result owns the collection regardless of arrival order.
		metrics.StaleDropped("events")
		return nil
	}
	a.loadingEvents = false
	a.loadedWindow = w
	a.haveLoaded = true

	if err != nil {
		a.events = []Event{}
		a.eventsErr = err
		return err
	}

	a.events = a.convertEvents(events)
	a.eventsErr = nil
	return nil
}

// NeedsLoad reports whether the own-events collection is missing, stale
// for the window, or left over from a failed fetch.
func (a *Aggregator) NeedsLoad(w view.Window) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.haveLoaded || a.eventsErr != nil {
		return true
	}
	return !a.loadedWindow.Start.Equal(w.Start) || !a.loadedWindow.End.Equal(w.End)
}

// LoadMembersAndSearch runs the availability search and stores the result
// wholesale: available slots, member busy blocks, and the member list the
// result corresponds to. A search that finds nothing leaves an empty (not
// absent) slot collection so the renderer can tell "searched, none found"
// from "never searched".
func (a *Aggregator) LoadMembersAndSearch(ctx context.Context, req backend.AvailabilityRequest) error {
	a.mu.Lock()
	a.searchToken++
	token := a.searchToken
	a.mu.Unlock()

	result, err := a.client.SearchAvailability(ctx, req)
	metrics.ObserveFetch("availability", err)

	a.mu.Lock()
	defer a.mu.Unlock()

	if token != a.searchToken {
		metrics.StaleDropped("availability")
		return nil
	}

	if err != nil {
		a.slots = nil
		a.busy = nil
		a.searchMeta = nil
		a.searchErr = err
		return err
	}

	a.slots = a.convertSlots(result.AvailableSlots)
	a.busy = a.convertSchedules(req.SelectedMembers, result.MemberSchedules)
	a.searchMeta = &SearchMeta{Period: result.SearchPeriod, TotalFound: result.TotalSlotsFound}
	a.selectedMembers = append([]string(nil), req.SelectedMembers...)
	a.searchErr = nil
	return nil
}

// ClearSearch wholesale-clears the search state: available slots, busy
// blocks, and the member selection. Used on dialog cancel and after a
// successful booking. Idempotent.
func (a *Aggregator) ClearSearch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slots = nil
	a.busy = nil
	a.searchMeta = nil
	a.selectedMembers = nil
	a.searchErr = nil
	// Invalidate any search still in flight so it cannot resurrect the
	// cleared state when it completes.
	a.searchToken++
}

// AddLocalEvent inserts an ephemeral, optimistic event (60 minutes) at the
// given display-zone date and "HH:MM" clock. It lives only until the next
// own-events fetch replaces the collection.
func (a *Aggregator) AddLocalEvent(title string, date string, clock string) (Event, error) {
	start, err := tz.ParseWire(a.conv.WireFromDisplay(clock, date))
	if err != nil {
		return Event{}, err
	}

	ev := Event{
		ID:    LocalIDPrefix + uuid.NewString(),
		Title: title,
		Start: start,
		End:   start.Add(localEventDuration),
		Local: true,
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	return ev, nil
}

// OwnEvents returns a snapshot of the own-events collection.
func (a *Aggregator) OwnEvents() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Event(nil), a.events...)
}

// AvailableSlots returns a snapshot of the available-slot collection and
// whether a search has produced one at all.
func (a *Aggregator) AvailableSlots() ([]AvailableSlot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.slots == nil {
		return nil, false
	}
	return append([]AvailableSlot(nil), a.slots...), true
}

// BusyBlocks returns a snapshot of the member busy blocks.
func (a *Aggregator) BusyBlocks() []BusyBlock {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]BusyBlock(nil), a.busy...)
}

// SelectedMembers returns the member emails the current search results
// correspond to, in selection order.
func (a *Aggregator) SelectedMembers() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.selectedMembers...)
}

// SlotByStart finds a slot by its wire start instant.
func (a *Aggregator) SlotByStart(startWire string) (AvailableSlot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range a.slots {
		if s.StartWire == startWire {
			return s, true
		}
	}
	return AvailableSlot{}, false
}

// SearchMeta returns metadata about the current search, if any.
func (a *Aggregator) SearchMeta() (SearchMeta, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.searchMeta == nil {
		return SearchMeta{}, false
	}
	return *a.searchMeta, true
}

// LoadingEvents reports whether an own-events fetch is in flight.
func (a *Aggregator) LoadingEvents() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadingEvents
}

// EventsError returns the error recorded by the last own-events fetch.
func (a *Aggregator) EventsError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eventsErr
}

// SearchError returns the error recorded by the last availability search.
func (a *Aggregator) SearchError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.searchErr
}

const localEventDuration = 60 * time.Minute

func (a *Aggregator) convertEvents(wire []backend.Event) []Event {
	out := make([]Event, 0, len(wire))
	for _, we := range wire {
		start, err := tz.ParseWire(we.Start)
		if err != nil {
			log.Printf("[WARN] schedule: dropping event %q with bad start %q: %v", we.ID, we.Start, err)
			continue
		}
		end, err := tz.ParseWire(we.End)
		if err != nil {
			log.Printf("[WARN] schedule: dropping event %q with bad end %q: %v", we.ID, we.End, err)
			continue
		}
		out = append(out, Event{
			ID:     we.ID,
			Title:  we.Title,
			Start:  start,
			End:    end,
			AllDay: we.AllDay,
		})
	}
	return out
}

func (a *Aggregator) convertSlots(wire []backend.Slot) []AvailableSlot {
	out := make([]AvailableSlot, 0, len(wire))
	for _, ws := range wire {
		start, err := tz.ParseWire(ws.StartDatetime)
		if err != nil {
			log.Printf("[WARN] schedule: dropping slot with bad start %q: %v", ws.StartDatetime, err)
			continue
		}
		end, err := tz.ParseWire(ws.EndDatetime)
		if err != nil {
			log.Printf("[WARN] schedule: dropping slot with bad end %q: %v", ws.EndDatetime, err)
			continue
		}
		out = append(out, AvailableSlot{
			Date:      ws.Date,
			Start:     start,
			End:       end,
			StartWire: ws.StartDatetime,
			EndWire:   ws.EndDatetime,
		})
	}
	return out
}

// convertSchedules flattens the per-member schedule map in selection
// order, so downstream positional color assignment stays stable for one
// selection.
func (a *Aggregator) convertSchedules(members []string, schedules map[string][]backend.ScheduleEntry) []BusyBlock {
	var out []BusyBlock
	for _, email := range members {
		for _, entry := range schedules[email] {
			start, err := tz.ParseWire(entry.StartDatetime)
			if err != nil {
				log.Printf("[WARN] schedule: dropping busy block for %s with bad start %q: %v", email, entry.StartDatetime, err)
				continue
			}
			end, err := tz.ParseWire(entry.EndDatetime)
			if err != nil {
				log.Printf("[WARN] schedule: dropping busy block for %s with bad end %q: %v", email, entry.EndDatetime, err)
				continue
			}
			out = append(out, BusyBlock{
				MemberEmail: email,
				Title:       entry.Title,
				Start:       start,
				End:         end,
				Date:        entry.Date,
			})
		}
	}
	return out
}
