package render

import (
	"time"

	"github.com/meetgrid/meetgrid/internal/timegrid"
	"github.com/meetgrid/meetgrid/internal/view"
)

// lateralStep is the horizontal offset unit applied to overlapping busy
// blocks from different members. Beyond three members the offsets repeat
// and blocks may partially overlap; that is an accepted display
// degradation at this scale.
const lateralStep = 4

// GridRow is one of the 48 half-hour rows of the time axis. Top is the
// row's pixel offset, precomputed for the templates.
type GridRow struct {
	Label  string
	OnHour bool
	Top    int
}

// PlacedEvent is an own event positioned on the time grid.
type PlacedEvent struct {
	ID              string
	Title           string
	Clock           string
	Color           string
	Top             int
	Height          int
	DurationMinutes int
}

// PlacedBusy is a member busy block positioned on the time grid.
type PlacedBusy struct {
	MemberEmail string
	Title       string
	StartClock  string
	EndClock    string
	Color       string
	Top         int
	Height      int
	Offset      int
}

// PlacedSlot is an available slot positioned on the time grid; slots are
// the interactive booking targets.
type PlacedSlot struct {
	StartWire  string
	StartClock string
	EndClock   string
	Top        int
	Height     int
	Selected   bool
}

// DayColumn is one day of the week/day time grid.
type DayColumn struct {
	Date     time.Time
	Weekday  string
	Day      int
	Label    string
	Today    bool
	Selected bool
	Events   []PlacedEvent
	Busy     []PlacedBusy
	Slots    []PlacedSlot
}

// TimeGrid is the renderable week or day view: a fixed 48-row axis and
// one column per visible day.
type TimeGrid struct {
	Rows     []GridRow
	Days     []DayColumn
	Legend   []MemberLegendEntry
	Searched bool
}

// BuildTimeGrid builds the week or day grid for the anchor date. Week
// grids cover the Sunday-start week containing the anchor.
func (r *Renderer) BuildTimeGrid(in Inputs) TimeGrid {
	loc := r.conv.Location()
	anchor := in.Anchor.In(loc)
	dayStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

	first := dayStart
	count := 1
	if in.Granularity == view.GranularityWeek {
		first = dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
		count = 7
	}

	grid := TimeGrid{
		Rows:     buildRows(),
		Legend:   r.Legend(in.Members),
		Searched: in.Searched,
	}

	for i := 0; i < count; i++ {
		day := first.AddDate(0, 0, i)
		grid.Days = append(grid.Days, r.buildDayColumn(in, day))
	}
	return grid
}

func buildRows() []GridRow {
	rows := make([]GridRow, timegrid.CellsPerDay)
	for i := range rows {
		rows[i] = GridRow{Label: timegrid.RowLabel(i), OnHour: i%2 == 0, Top: i * timegrid.CellHeight}
	}
	return rows
}

func (r *Renderer) buildDayColumn(in Inputs, day time.Time) DayColumn {
	col := DayColumn{
		Date:     day,
		Weekday:  day.Format("Mon"),
		Day:      day.Day(),
		Label:    day.Format("January 2"),
		Today:    r.sameDate(day, in.Now),
		Selected: in.HasSelected && r.sameDate(day, in.Selected),
	}

	for _, e := range eventsOn(r, in.Events, day) {
		if e.AllDay {
			// All-day items have no meaningful position on the time axis.
			continue
		}
		top, height := r.span(day, e.Start, e.End)
		col.Events = append(col.Events, PlacedEvent{
			ID:              e.ID,
			Title:           e.Title,
			Clock:           r.conv.Clock(e.Start),
			Color:           EventColor(e.ID),
			Top:             top,
			Height:          height,
			DurationMinutes: e.Duration(),
		})
	}

	for _, b := range busyOn(r, in.Busy, day) {
		idx := memberIndex(in.Members, b.MemberEmail)
		top, height := r.span(day, b.Start, b.End)
		col.Busy = append(col.Busy, PlacedBusy{
			MemberEmail: b.MemberEmail,
			Title:       b.Title,
			StartClock:  r.conv.Clock(b.Start),
			EndClock:    r.conv.Clock(b.End),
			Color:       MemberColor(idx),
			Top:         top,
			Height:      height,
			Offset:      (idx % 3) * lateralStep,
		})
	}

	for _, s := range slotsOn(r, in.Slots, day) {
		top, height := r.span(day, s.Start, s.End)
		col.Slots = append(col.Slots, PlacedSlot{
			StartWire:  s.StartWire,
			StartClock: r.conv.Clock(s.Start),
			EndClock:   r.conv.Clock(s.End),
			Top:        top,
			Height:     height,
			Selected:   s.StartWire != "" && s.StartWire == in.SelectedSlotStart,
		})
	}

	return col
}

// span positions an interval on the day's grid, clipping both bounds to
// the day before handing the clock values to the geometry.
func (r *Renderer) span(day time.Time, start, end time.Time) (top, height int) {
	loc := r.conv.Location()
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	sh, sm := 0, 0
	if local := start.In(loc); local.After(dayStart) {
		sh, sm = local.Hour(), local.Minute()
	}

	eh, em := 24, 0
	if local := end.In(loc); local.Before(dayEnd) {
		eh, em = local.Hour(), local.Minute()
	}

	return timegrid.Span(sh, sm, eh, em)
}
