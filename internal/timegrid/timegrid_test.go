package timegrid

import "testing"

func TestOffset(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		want   int
	}{
		{name: "midnight", hour: 0, minute: 0, want: 0},
		{name: "half past midnight", hour: 0, minute: 30, want: CellHeight},
		{name: "ten o'clock", hour: 10, minute: 0, want: 20 * CellHeight},
		{name: "quarter hour lands mid-cell", hour: 9, minute: 15, want: 555},
		{name: "last cell", hour: 23, minute: 30, want: 47 * CellHeight},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Offset(tc.hour, tc.minute); got != tc.want {
				t.Errorf("Offset(%d, %d) = %d, want %d", tc.hour, tc.minute, got, tc.want)
			}
		})
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name       string
		start, end [2]int
		wantOffset int
		wantExtent int
	}{
		{
			name:       "one hour meeting",
			start:      [2]int{10, 0},
			end:        [2]int{11, 0},
			wantOffset: 20 * CellHeight,
			wantExtent: 2 * CellHeight,
		},
		{
			name:       "thirty minutes",
			start:      [2]int{14, 30},
			end:        [2]int{15, 0},
			wantOffset: 29 * CellHeight,
			wantExtent: CellHeight,
		},
		{
			name:       "sub-thirty-minute item floors at MinExtent",
			start:      [2]int{9, 0},
			end:        [2]int{9, 15},
			wantOffset: 18 * CellHeight,
			wantExtent: MinExtent,
		},
		{
			name:       "zero duration floors at MinExtent",
			start:      [2]int{12, 0},
			end:        [2]int{12, 0},
			wantOffset: 24 * CellHeight,
			wantExtent: MinExtent,
		},
		{
			name:       "inverted interval floors at MinExtent",
			start:      [2]int{12, 0},
			end:        [2]int{11, 0},
			wantOffset: 24 * CellHeight,
			wantExtent: MinExtent,
		},
		{
			name:       "full day",
			start:      [2]int{0, 0},
			end:        [2]int{24, 0},
			wantOffset: 0,
			wantExtent: CellsPerDay * CellHeight,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			offset, extent := Span(tc.start[0], tc.start[1], tc.end[0], tc.end[1])
			if offset != tc.wantOffset || extent != tc.wantExtent {
				t.Errorf("Span(%v, %v) = (%d, %d), want (%d, %d)",
					tc.start, tc.end, offset, extent, tc.wantOffset, tc.wantExtent)
			}
		})
	}
}

func TestRowLabel(t *testing.T) {
	tests := []struct {
		row  int
		want string
	}{
		{row: 0, want: "00:00"},
		{row: 1, want: "00:30"},
		{row: 20, want: "10:00"},
		{row: 47, want: "23:30"},
	}

	for _, tc := range tests {
		if got := RowLabel(tc.row); got != tc.want {
			t.Errorf("RowLabel(%d) = %q, want %q", tc.row, got, tc.want)
		}
	}
}
