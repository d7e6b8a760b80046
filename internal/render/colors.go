package render

// Display palettes. Color assignment is display-only and never persisted.
//
// Own events hash their stable id into the event palette, so an event keeps
// its color across reloads. Member colors are positional: the color follows
// the member's index in the current selection and is recomputed whenever
// the selection changes, so it is not a stable per-member identity.

var eventPalette = [...]string{
	"blue", "green", "purple", "orange", "red", "cyan", "yellow", "pink",
}

var memberPalette = [...]string{
	"purple", "indigo", "pink", "orange", "teal", "yellow",
}

// EventColor returns the palette name for an event id: the sum of the id's
// character codes modulo the palette size.
func EventColor(id string) string {
	sum := 0
	for _, b := range []byte(id) {
		sum += int(b)
	}
	return eventPalette[sum%len(eventPalette)]
}

// MemberColor returns the palette name for a member's position in the
// current selection.
func MemberColor(index int) string {
	if index < 0 {
		index = 0
	}
	return memberPalette[index%len(memberPalette)]
}
