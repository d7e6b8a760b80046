// Package ui serves the server-rendered dashboard: the calendar pages,
// the availability-search form, and the booking dialog. Handlers mutate
// the view store and the aggregator, then redirect back to the calendar
// so every page render reads one consistent snapshot.
package ui

import (
	"html/template"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meetgrid/meetgrid/internal/booking"
	"github.com/meetgrid/meetgrid/internal/config"
	"github.com/meetgrid/meetgrid/internal/render"
	"github.com/meetgrid/meetgrid/internal/schedule"
	"github.com/meetgrid/meetgrid/internal/tz"
	"github.com/meetgrid/meetgrid/internal/view"
)

// Handler serves server-rendered HTML pages.
type Handler struct {
	cfg       *config.Config
	store     *view.Store
	agg       *schedule.Aggregator
	workflow  *booking.Workflow
	renderer  *render.Renderer
	conv      *tz.Converter
	templates map[string]*template.Template

	// now is stubbed in tests.
	now func() time.Time
}

func NewHandler(cfg *config.Config, store *view.Store, agg *schedule.Aggregator, wf *booking.Workflow, renderer *render.Renderer, conv *tz.Converter) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     store,
		agg:       agg,
		workflow:  wf,
		renderer:  renderer,
		conv:      conv,
		templates: templates,
		now:       time.Now,
	}
}

// Calendar renders the dashboard for the current view state. Own events
// and the group list load concurrently when either is missing; a fetch
// failure renders as a flash message, never as a failed page.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	window := h.store.Window()

	g, ctx := errgroup.WithContext(r.Context())
	if h.agg.NeedsLoad(window) {
		g.Go(func() error {
			h.agg.LoadOwnEvents(ctx, window)
			return nil
		})
	}
	if len(h.agg.Groups()) == 0 {
		g.Go(func() error {
			h.agg.LoadGroups(ctx)
			return nil
		})
	}
	_ = g.Wait()

	selected, hasSelected := h.store.SelectedDate()
	slots, searched := h.agg.AvailableSlots()

	in := render.Inputs{
		Granularity:       h.store.Granularity(),
		Anchor:            h.store.AnchorDate(),
		Selected:          selected,
		HasSelected:       hasSelected,
		Now:               h.now(),
		Events:            h.agg.OwnEvents(),
		Slots:             slots,
		Searched:          searched,
		Busy:              h.agg.BusyBlocks(),
		Members:           h.agg.SelectedMembers(),
		SelectedSlotStart: h.workflow.SelectedSlotStart(),
	}

	data := map[string]any{
		"Title":       "Calendar",
		"Granularity": string(in.Granularity),
		"MiniMonth":   h.renderer.BuildMiniMonth(h.store.SecondaryNavDate(), selected, hasSelected, in.Now),
		"Groups":      h.agg.Groups(),
		"Members":     h.agg.Members(),
		"Searched":    searched,
	}

	if in.Granularity == view.GranularityMonth {
		data["Month"] = h.renderer.BuildMonth(in)
	} else {
		data["TimeGrid"] = h.renderer.BuildTimeGrid(in)
	}

	if group, ok := h.agg.ActiveGroup(); ok {
		data["ActiveGroup"] = group
	}
	if meta, ok := h.agg.SearchMeta(); ok {
		data["SearchMeta"] = meta
	}
	if draft, ok := h.workflow.Draft(); ok {
		data["Draft"] = draft
		data["DraftStartClock"] = h.conv.Clock(draft.Slot.Start)
		data["DraftEndClock"] = h.conv.Clock(draft.Slot.End)
		data["DraftDate"] = h.conv.Date(draft.Slot.Start)
	}

	data = h.withFlash(r, data)
	if _, has := data["FlashError"]; !has {
		if err := h.agg.EventsError(); err != nil {
			data["FlashError"] = "failed to load events"
		} else if err := h.agg.GroupsError(); err != nil {
			data["FlashError"] = "failed to load groups"
		}
	}

	h.render(w, r, "calendar.html", data)
}
