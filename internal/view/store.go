// Package view holds the navigation state of the dashboard calendar: the
// active granularity, the anchor date driving the visible window, the
// independent mini-calendar navigation date, and the selected date.
//
// The store owns this state exclusively and performs no I/O. Components that
// need to react to a changed fetch window subscribe with OnWindowChange.
package view

import (
	"sync"
	"time"
)

// Granularity is the calendar view mode.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
	GranularityDay   Granularity = "day"
)

// ParseGranularity maps a query-string value to a Granularity.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case GranularityMonth, GranularityWeek, GranularityDay:
		return Granularity(s), true
	}
	return "", false
}

// Window is a half-open [Start,End) fetch window in the display timezone.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Store is the single owner of navigation state.
type Store struct {
	mu           sync.Mutex
	loc          *time.Location
	granularity  Granularity
	anchor       time.Time // midnight in loc
	secondaryNav time.Time // mini-calendar month anchor, midnight in loc
	selected     time.Time // zero = no selection
	listeners    []func(Window)
}

// NewStore creates a store anchored on today in the given display timezone.
func NewStore(loc *time.Location, now time.Time) *Store {
	today := midnight(now, loc)
	return &Store{
		loc:          loc,
		granularity:  GranularityMonth,
		anchor:       today,
		secondaryNav: today,
		selected:     today,
	}
}

// OnWindowChange registers a callback invoked whenever the derived fetch
// window changes (granularity or anchor date). Callbacks run synchronously
// on the mutating goroutine, outside the store lock.
func (s *Store) OnWindowChange(fn func(Window)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetGranularity switches the view mode.
func (s *Store) SetGranularity(g Granularity) {
	s.mu.Lock()
	if s.granularity == g {
		s.mu.Unlock()
		return
	}
	s.granularity = g
	s.notifyLocked()
}

// SetAnchorDate moves the visible window to contain date.
func (s *Store) SetAnchorDate(date time.Time) {
	s.mu.Lock()
	d := midnight(date, s.loc)
	if s.anchor.Equal(d) {
		s.mu.Unlock()
		return
	}
	s.anchor = d
	s.notifyLocked()
}

// SetSelectedDate highlights a date without moving the window.
func (s *Store) SetSelectedDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = midnight(date, s.loc)
}

// ClearSelectedDate removes the highlight.
func (s *Store) ClearSelectedDate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = time.Time{}
}

// SetSecondaryNavDate moves the mini-calendar month directly.
func (s *Store) SetSecondaryNavDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secondaryNav = midnight(date, s.loc)
}

// SelectDateOnMiniNav handles a day click on the mini calendar: the
// selection always follows the click, but the mini-calendar month only
// moves when the clicked day lies in a different month. Clicking a day of
// the month already shown must not make the navigator jump.
func (s *Store) SelectDateOnMiniNav(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := midnight(date, s.loc)
	if !sameMonth(d, s.secondaryNav) {
		s.secondaryNav = d
	}
	s.selected = d
}

// Granularity returns the active view mode.
func (s *Store) Granularity() Granularity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.granularity
}

// AnchorDate returns the date driving the visible window.
func (s *Store) AnchorDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor
}

// SecondaryNavDate returns the mini-calendar month anchor.
func (s *Store) SecondaryNavDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secondaryNav
}

// SelectedDate returns the highlighted date, if any.
func (s *Store) SelectedDate() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, !s.selected.IsZero()
}

// Window derives the fetch window from (granularity, anchor). Month views
// fetch calendar-month bounds only; overflow days shown from adjacent
// months are not fetched. Weeks start on Sunday.
func (s *Store) Window() Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deriveWindow(s.granularity, s.anchor, s.loc)
}

func deriveWindow(g Granularity, anchor time.Time, loc *time.Location) Window {
	switch g {
	case GranularityWeek:
		start := anchor.AddDate(0, 0, -int(anchor.Weekday()))
		return Window{Start: start, End: start.AddDate(0, 0, 7)}
	case GranularityDay:
		return Window{Start: anchor, End: anchor.AddDate(0, 0, 1)}
	default:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	}
}

// notifyLocked snapshots listeners and the derived window, releases the
// lock, then invokes callbacks.
func (s *Store) notifyLocked() {
	listeners := make([]func(Window), len(s.listeners))
	copy(listeners, s.listeners)
	w := deriveWindow(s.granularity, s.anchor, s.loc)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(w)
	}
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
