package render

import (
	"sort"
	"time"

	"github.com/meetgrid/meetgrid/internal/schedule"
)

// maxMonthChips is the per-cell cap on rendered own events at month scale;
// anything beyond collapses into a "+N more" line.
const maxMonthChips = 3

// EventChip is one own-event line in a month cell.
type EventChip struct {
	ID     string
	Title  string
	Clock  string
	Color  string
	AllDay bool
}

// MonthCell is one day of the month matrix. At month scale only counts of
// slots and busy blocks are shown, never time detail.
type MonthCell struct {
	Date      time.Time
	Day       int
	Today     bool
	Selected  bool
	Events    []EventChip
	MoreCount int
	SlotCount int
	BusyCount int
}

// MonthGrid is the renderable month view: leading blanks for the days
// before the first of the month, then one cell per day.
type MonthGrid struct {
	Title         string
	Weekdays      []string
	LeadingBlanks int
	Cells         []MonthCell
	Legend        []MemberLegendEntry
	Searched      bool
}

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// BlankSeq yields one element per leading blank so templates can range
// over the padding cells.
func (g MonthGrid) BlankSeq() []struct{} {
	return make([]struct{}, g.LeadingBlanks)
}

// BuildMonth builds the month matrix for the anchor's month.
func (r *Renderer) BuildMonth(in Inputs) MonthGrid {
	loc := r.conv.Location()
	anchor := in.Anchor.In(loc)
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)

	grid := MonthGrid{
		Title:         first.Format("January 2006"),
		Weekdays:      weekdayHeaders,
		LeadingBlanks: int(first.Weekday()),
		Legend:        r.Legend(in.Members),
		Searched:      in.Searched,
	}

	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		cell := MonthCell{
			Date:     day,
			Day:      day.Day(),
			Today:    r.sameDate(day, in.Now),
			Selected: in.HasSelected && r.sameDate(day, in.Selected),
		}

		events := eventsOn(r, in.Events, day)
		sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
		for i, e := range events {
			if i == maxMonthChips {
				cell.MoreCount = len(events) - maxMonthChips
				break
			}
			cell.Events = append(cell.Events, r.chip(e))
		}

		cell.SlotCount = len(slotsOn(r, in.Slots, day))
		cell.BusyCount = len(busyOn(r, in.Busy, day))

		grid.Cells = append(grid.Cells, cell)
	}
	return grid
}

func (r *Renderer) chip(e schedule.Event) EventChip {
	return EventChip{
		ID:     e.ID,
		Title:  e.Title,
		Clock:  r.conv.Clock(e.Start),
		Color:  EventColor(e.ID),
		AllDay: e.AllDay,
	}
}

// MiniDay is one selectable day of the mini navigation calendar.
type MiniDay struct {
	Date     time.Time
	Day      int
	Today    bool
	Selected bool
}

// MiniMonth is the compact month-picker grid driven by the secondary
// navigation date, independent of the main anchor.
type MiniMonth struct {
	Title         string
	LeadingBlanks int
	Days          []MiniDay
}

// LeadingBlanksSeq yields one element per leading blank for template
// ranging.
func (m MiniMonth) LeadingBlanksSeq() []struct{} {
	return make([]struct{}, m.LeadingBlanks)
}

// BuildMiniMonth builds the mini navigator for the month containing
// navDate.
func (r *Renderer) BuildMiniMonth(navDate, selected time.Time, hasSelected bool, now time.Time) MiniMonth {
	loc := r.conv.Location()
	nav := navDate.In(loc)
	first := time.Date(nav.Year(), nav.Month(), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)

	mini := MiniMonth{
		Title:         first.Format("January 2006"),
		LeadingBlanks: int(first.Weekday()),
	}
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		mini.Days = append(mini.Days, MiniDay{
			Date:     day,
			Day:      day.Day(),
			Today:    r.sameDate(day, now),
			Selected: hasSelected && r.sameDate(day, selected),
		})
	}
	return mini
}
