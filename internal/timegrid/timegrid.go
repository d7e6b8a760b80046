// Package timegrid maps times of day onto a fixed-resolution day grid.
//
// The grid is 48 cells of 30 minutes covering 00:00-24:00. Positions and
// extents are expressed in display units (pixels in the default layout,
// one cell = CellHeight units). All functions are pure.
package timegrid

import "fmt"

const (
	// CellMinutes is the resolution of a single grid cell.
	CellMinutes = 30
	// CellsPerDay is the number of cells covering a full day.
	CellsPerDay = 24 * 60 / CellMinutes
	// CellHeight is the rendered height of one cell in display units.
	CellHeight = 30
	// MinExtent is the floor applied to computed extents so that short
	// items stay visible.
	MinExtent = 20
)

// Offset returns the vertical position of a time of day on the grid.
// Inputs outside 00:00-24:00 violate the grid contract; callers clip
// before calling.
func Offset(hour, minute int) int {
	return (hour*60 + minute) * CellHeight / CellMinutes
}

// Span returns the position and extent for a [start,end) pair on the same
// day. The extent is floored at MinExtent, which also absorbs zero or
// negative durations.
func Span(startHour, startMinute, endHour, endMinute int) (offset, extent int) {
	offset = Offset(startHour, startMinute)

	duration := (endHour*60 + endMinute) - (startHour*60 + startMinute)
	extent = duration * CellHeight / CellMinutes
	if extent < MinExtent {
		extent = MinExtent
	}
	return offset, extent
}

// RowLabel returns the "HH:MM" label for a grid row index.
func RowLabel(row int) string {
	minutes := row * CellMinutes
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
