package backend

// Event is a calendar event as returned by the scheduling service. Start
// and End are ISO-8601 instants with explicit offset.
type Event struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	AllDay          bool   `json:"allDay"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// AvailabilityRequest describes one availability search. Dates and clock
// times are display-agnostic wire values: dates as "YYYY-MM-DD", clocks as
// UTC "HH:MM".
type AvailabilityRequest struct {
	GroupID         string
	SelectedMembers []string
	StartDate       string
	EndDate         string
	StartTime       string
	EndTime         string
	DurationMinutes int
}

// Slot is one computed interval during which every selected member is
// free. StartTime/EndTime are bare UTC clock fragments paired with Date;
// StartDatetime/EndDatetime are the full instants.
type Slot struct {
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
}

// ScheduleEntry is one busy interval of a group member.
type ScheduleEntry struct {
	Title         string `json:"title"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
	Date          string `json:"date"`
}

// SearchPeriod echoes the searched window back to the caller.
type SearchPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityResult is the full availability-search response.
type AvailabilityResult struct {
	AvailableSlots  []Slot                     `json:"available_slots"`
	MemberSchedules map[string][]ScheduleEntry `json:"member_schedules"`
	SearchPeriod    SearchPeriod               `json:"search_period"`
	TotalSlotsFound int                        `json:"total_slots_found"`
}

// MeetingRequest books a meeting into a previously returned slot.
type MeetingRequest struct {
	Title          string
	Description    string
	StartDatetime  string
	EndDatetime    string
	AttendeeEmails []string
}

// Meeting is the created-meeting echo returned on a successful booking.
type Meeting struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
}

// Group is one group the viewer belongs to.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int    `json:"memberCount"`
	Role        string `json:"role"`
}

// GroupMember is one member of a group.
type GroupMember struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

// errorResponse is the error body some endpoints return alongside a
// non-2xx status.
type errorResponse struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}
