package ui

import (
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/meetgrid/meetgrid/internal/http/errors"
	"github.com/meetgrid/meetgrid/internal/tz"
	"github.com/meetgrid/meetgrid/internal/view"
)

// SetView switches the calendar granularity.
func (h *Handler) SetView(w http.ResponseWriter, r *http.Request) {
	g, ok := view.ParseGranularity(r.FormValue("view"))
	if !ok {
		h.redirect(w, r, "/", map[string]string{"error": "unknown view"})
		return
	}
	h.store.SetGranularity(g)
	h.redirect(w, r, "/", nil)
}

// Navigate moves the anchor date one step backward or forward at the
// current granularity, or back to today.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	dir := r.FormValue("dir")
	if dir == "today" {
		h.store.SetAnchorDate(h.now())
		h.redirect(w, r, "/", nil)
		return
	}

	step := 1
	if dir == "prev" {
		step = -1
	} else if dir != "next" {
		h.redirect(w, r, "/", map[string]string{"error": "unknown direction"})
		return
	}

	anchor := h.store.AnchorDate()
	switch h.store.Granularity() {
	case view.GranularityWeek:
		anchor = anchor.AddDate(0, 0, 7*step)
	case view.GranularityDay:
		anchor = anchor.AddDate(0, 0, step)
	default:
		anchor = anchor.AddDate(0, step, 0)
	}
	h.store.SetAnchorDate(anchor)
	h.redirect(w, r, "/", nil)
}

// SelectDate highlights a calendar date without moving the window.
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	date, err := h.parseDate(r.FormValue("date"))
	if err != nil {
		h.redirect(w, r, "/", map[string]string{"error": "invalid date"})
		return
	}
	h.store.SetSelectedDate(date)
	h.redirect(w, r, "/", nil)
}

// MiniNav handles the mini calendar: month paging via dir, or a day click
// via date. A day click selects the date; the mini month only moves when
// the clicked day lies outside the month shown.
func (h *Handler) MiniNav(w http.ResponseWriter, r *http.Request) {
	if dir := r.FormValue("dir"); dir != "" {
		step := 1
		if dir == "prev" {
			step = -1
		}
		h.store.SetSecondaryNavDate(h.store.SecondaryNavDate().AddDate(0, step, 0))
		h.redirect(w, r, "/", nil)
		return
	}

	date, err := h.parseDate(r.FormValue("date"))
	if err != nil {
		h.redirect(w, r, "/", map[string]string{"error": "invalid date"})
		return
	}
	h.store.SelectDateOnMiniNav(date)
	h.redirect(w, r, "/", nil)
}

// CreateLocalEvent inserts an optimistic event at the clicked empty cell.
// It renders immediately and lives until the next server fetch replaces
// the collection.
func (h *Handler) CreateLocalEvent(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		h.redirect(w, r, "/", map[string]string{"error": "title is required"})
		return
	}
	date := r.FormValue("date")
	clock := r.FormValue("time")

	if _, err := h.agg.AddLocalEvent(title, date, clock); err != nil {
		errors.LogError(r, "local event", err)
		h.redirect(w, r, "/", map[string]string{"error": "invalid date or time"})
		return
	}
	h.redirect(w, r, "/", map[string]string{"status": "event added"})
}

// ExportICS serves the viewer's events for the current window as an
// iCalendar feed.
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	window := h.store.Window()
	if h.agg.NeedsLoad(window) {
		if err := h.agg.LoadOwnEvents(r.Context(), window); err != nil {
			errors.InternalError(w, r, err, "export: load events")
			return
		}
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//MeetGrid//EN")

	now := h.now().UTC()
	for _, e := range h.agg.OwnEvents() {
		if e.Local {
			// Unconfirmed local events never leave the process.
			continue
		}
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now)
		ve.SetSummary(e.Title)
		if e.AllDay {
			ve.SetAllDayStartAt(e.Start.In(h.conv.Location()))
			ve.SetAllDayEndAt(e.End.In(h.conv.Location()))
		} else {
			ve.SetStartAt(e.Start.UTC())
			ve.SetEndAt(e.End.UTC())
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="meetgrid.ics"`)
	_, _ = w.Write([]byte(cal.Serialize()))
}

func (h *Handler) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(tz.DateFormat, s, h.conv.Location())
}
