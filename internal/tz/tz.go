// Package tz converts between wire-format UTC times and the single display
// timezone used for everything the dashboard renders.
//
// Conversion functions on display paths are total: malformed input is
// returned unchanged with a diagnostic log line, never an error. Rendering
// must not fail because one backend value was garbled.
package tz

import (
	"fmt"
	"log"
	"time"
)

const (
	// DateFormat is the calendar-date layout used on the wire and in URLs.
	DateFormat = "2006-01-02"
	// ClockFormat is the "HH:MM" layout for times of day.
	ClockFormat = "15:04"
)

// Converter holds the fixed display timezone.
type Converter struct {
	loc *time.Location
}

// NewConverter loads the named display timezone (e.g. "Asia/Tokyo").
func NewConverter(name string) (*Converter, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load display timezone %q: %w", name, err)
	}
	return &Converter{loc: loc}, nil
}

// Location returns the display timezone.
func (c *Converter) Location() *time.Location {
	return c.loc
}

// ToDisplay shifts an absolute instant into the display timezone.
func (c *Converter) ToDisplay(t time.Time) time.Time {
	return t.In(c.loc)
}

// Clock formats an absolute instant as "HH:MM" in the display timezone.
func (c *Converter) Clock(t time.Time) string {
	return t.In(c.loc).Format(ClockFormat)
}

// Date formats an absolute instant as its calendar date in the display
// timezone. An instant near midnight UTC may land on a different display
// date than its wire date; grouping always uses this value.
func (c *Converter) Date(t time.Time) string {
	return t.In(c.loc).Format(DateFormat)
}

// DisplayClock converts a wire instant string (ISO-8601 with offset) to
// "HH:MM" in the display timezone. Malformed input comes back unchanged.
func (c *Converter) DisplayClock(wire string) string {
	t, err := ParseWire(wire)
	if err != nil {
		log.Printf("[WARN] tz: unparseable wire instant %q: %v", wire, err)
		return wire
	}
	return c.Clock(t)
}

// DisplayClockAt converts a bare UTC clock time ("HH:MM") paired with a wire
// date ("YYYY-MM-DD") to "HH:MM" in the display timezone. Some backend
// payloads carry bare clock fragments instead of full instants; this is the
// only place that reassembles them. Malformed input comes back unchanged.
func (c *Converter) DisplayClockAt(clock, date string) string {
	t, err := time.ParseInLocation(DateFormat+"T"+ClockFormat, date+"T"+clock, time.UTC)
	if err != nil {
		log.Printf("[WARN] tz: unparseable UTC clock %q on %q: %v", clock, date, err)
		return clock
	}
	return c.Clock(t)
}

// WireFromDisplay composes a display-zone clock time and date into a full
// wire instant (UTC, RFC 3339). It is the inverse of DisplayClockAt.
// Malformed input comes back unchanged.
func (c *Converter) WireFromDisplay(clock, date string) string {
	t, err := time.ParseInLocation(DateFormat+"T"+ClockFormat, date+"T"+clock, c.loc)
	if err != nil {
		log.Printf("[WARN] tz: unparseable display clock %q on %q: %v", clock, date, err)
		return clock
	}
	return WireInstant(t)
}

// WireInstant formats an absolute instant for a backend query bound.
func WireInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// WireWindow formats both bounds of a local fetch window for a backend
// query.
func WireWindow(start, end time.Time) (string, string) {
	return WireInstant(start), WireInstant(end)
}

// ParseWire parses a wire instant (ISO-8601 with explicit offset).
func ParseWire(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
