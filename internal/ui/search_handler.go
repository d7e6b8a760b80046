package ui

import (
	"net/http"
	"strconv"
	"time"

	"github.com/meetgrid/meetgrid/internal/backend"
	"github.com/meetgrid/meetgrid/internal/http/errors"
	"github.com/meetgrid/meetgrid/internal/tz"
)

// membershipPollInterval and membershipPollAttempts bound the wait for a
// just-joined group to appear in the membership list.
const (
	membershipPollInterval = 2 * time.Second
	membershipPollAttempts = 10
)

// SelectGroup makes a group active and loads its members.
func (h *Handler) SelectGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.FormValue("group_id")
	if groupID == "" {
		h.redirect(w, r, "/", map[string]string{"error": "group is required"})
		return
	}
	if err := h.agg.SelectGroup(r.Context(), groupID); err != nil {
		errors.LogError(r, "select group", err)
		h.redirect(w, r, "/", map[string]string{"error": "failed to load group members"})
		return
	}
	h.redirect(w, r, "/", nil)
}

// GroupJoined auto-selects a group the viewer just joined elsewhere. The
// membership list is eventually consistent, so the group is polled for
// rather than assumed present.
func (h *Handler) GroupJoined(w http.ResponseWriter, r *http.Request) {
	groupID := r.FormValue("group_id")
	if groupID == "" {
		h.redirect(w, r, "/", map[string]string{"error": "group is required"})
		return
	}
	if err := h.agg.AwaitGroupMembership(r.Context(), groupID, membershipPollInterval, membershipPollAttempts); err != nil {
		errors.LogError(r, "await group membership", err)
		h.redirect(w, r, "/", map[string]string{"error": "group did not become available"})
		return
	}
	h.redirect(w, r, "/", map[string]string{"status": "group selected"})
}

// Search runs the availability search for the selected members. Clock
// inputs arrive in the display timezone and are sent to the backend as
// UTC clock times paired with the date range.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/", map[string]string{"error": "invalid form"})
		return
	}

	members := r.Form["members"]
	if len(members) == 0 {
		h.redirect(w, r, "/", map[string]string{"error": "select at least one member"})
		return
	}
	startDate := r.FormValue("start_date")
	endDate := r.FormValue("end_date")
	if _, err := h.parseDate(startDate); err != nil {
		h.redirect(w, r, "/", map[string]string{"error": "invalid start date"})
		return
	}
	if _, err := h.parseDate(endDate); err != nil {
		h.redirect(w, r, "/", map[string]string{"error": "invalid end date"})
		return
	}
	duration, err := strconv.Atoi(r.FormValue("duration"))
	if err != nil || duration <= 0 {
		h.redirect(w, r, "/", map[string]string{"error": "invalid duration"})
		return
	}

	req := backend.AvailabilityRequest{
		GroupID:         r.FormValue("group_id"),
		SelectedMembers: members,
		StartDate:       startDate,
		EndDate:         endDate,
		StartTime:       h.utcClock(r.FormValue("start_time"), startDate),
		EndTime:         h.utcClock(r.FormValue("end_time"), startDate),
		DurationMinutes: duration,
	}

	if err := h.agg.LoadMembersAndSearch(r.Context(), req); err != nil {
		errors.LogError(r, "availability search", err)
		h.redirect(w, r, "/", map[string]string{"error": "availability search failed"})
		return
	}
	h.redirect(w, r, "/", nil)
}

// ClearSearch drops the search results and the member selection.
func (h *Handler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	h.workflow.Cancel()
	h.agg.ClearSearch()
	h.redirect(w, r, "/", nil)
}

// utcClock converts a display-zone "HH:MM" on the given date to the UTC
// clock time the search contract expects.
func (h *Handler) utcClock(clock, date string) string {
	t, err := tz.ParseWire(h.conv.WireFromDisplay(clock, date))
	if err != nil {
		return clock
	}
	return t.UTC().Format(tz.ClockFormat)
}
