// Package booking runs the slot-to-meeting workflow as a small state
// machine. It owns the booking draft for its lifetime and is the sole
// writer of submission state; the search results it books against belong
// to the schedule aggregator.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/meetgrid/meetgrid/internal/backend"
	"github.com/meetgrid/meetgrid/internal/metrics"
	"github.com/meetgrid/meetgrid/internal/schedule"
	"github.com/meetgrid/meetgrid/internal/view"
)

// State of the workflow. Selecting a slot opens the dialog in the same
// step; a failed submission reopens the dialog so the user can edit and
// retry.
type State int

const (
	StateIdle State = iota
	StateDialogOpen
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDialogOpen:
		return "dialog"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

const (
	titleMaxLen       = 100
	descriptionMaxLen = 500
)

var (
	// ErrValidation marks a draft rejected before any network call.
	ErrValidation = errors.New("booking: invalid draft")

	// ErrNoSuchSlot means the clicked slot is not in the current search
	// results, usually because a newer search replaced them.
	ErrNoSuchSlot = errors.New("booking: slot not in current results")

	// ErrNotOpen means submit or cancel was invoked without an open dialog.
	ErrNotOpen = errors.New("booking: no booking in progress")
)

// Draft is the meeting being composed for a selected slot. Attendees are
// fixed at slot-selection time from the current member selection.
type Draft struct {
	Title       string
	Description string
	Slot        schedule.AvailableSlot
	Attendees   []string
}

// Workflow drives one booking at a time.
type Workflow struct {
	client *backend.Client
	agg    *schedule.Aggregator
	store  *view.Store

	mu    sync.Mutex
	state State
	draft *Draft
}

// NewWorkflow builds an idle workflow over the backend client, the
// aggregator holding the search results, and the view store supplying the
// window to refresh after a confirmed booking.
func NewWorkflow(client *backend.Client, agg *schedule.Aggregator, store *view.Store) *Workflow {
	return &Workflow{client: client, agg: agg, store: store}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns a snapshot of the open draft, if any.
func (w *Workflow) Draft() (Draft, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return Draft{}, false
	}
	d := *w.draft
	d.Attendees = append([]string(nil), w.draft.Attendees...)
	return d, true
}

// SelectedSlotStart returns the wire start instant of the slot the open
// draft targets, or "" when no dialog is open.
func (w *Workflow) SelectedSlotStart() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return ""
	}
	return w.draft.Slot.StartWire
}

// SelectSlot picks an available slot by its wire start instant and opens
// the booking dialog with a fresh draft. The attendee list is captured
// from the current member selection, not re-derived from the slot. A
// selection while a submission is in flight is ignored.
func (w *Workflow) SelectSlot(startWire string) error {
	slot, ok := w.agg.SlotByStart(startWire)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchSlot, startWire)
	}
	attendees := w.agg.SelectedMembers()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return nil
	}
	w.state = StateDialogOpen
	w.draft = &Draft{Slot: slot, Attendees: attendees}
	return nil
}

// Cancel closes the dialog and discards the draft. Search results stay so
// the user can pick a different slot. Canceling with no open dialog is a
// no-op.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateDialogOpen {
		return
	}
	w.state = StateIdle
	w.draft = nil
}

// Submit validates the draft and books the meeting. On acceptance the
// side effects run in order: the search state is cleared, the dialog
// closes, and the viewer's own events are refetched for the current
// window so the new meeting appears. On rejection the dialog stays open
// with the draft intact for a retry.
//
// A submit while another submission is in flight is a no-op, so a
// double-click cannot book twice.
func (w *Workflow) Submit(ctx context.Context, title, description string) (*backend.Meeting, error) {
	title = strings.TrimSpace(title)

	w.mu.Lock()
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return nil, nil
	}
	if w.state != StateDialogOpen || w.draft == nil {
		w.mu.Unlock()
		return nil, ErrNotOpen
	}
	if err := validate(title, description, w.draft.Attendees); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	w.draft.Title = title
	w.draft.Description = description
	req := backend.MeetingRequest{
		Title:          title,
		Description:    description,
		StartDatetime:  w.draft.Slot.StartWire,
		EndDatetime:    w.draft.Slot.EndWire,
		AttendeeEmails: append([]string(nil), w.draft.Attendees...),
	}
	w.state = StateSubmitting
	w.mu.Unlock()

	meeting, err := w.client.CreateMeeting(ctx, req)

	if err != nil {
		metrics.ObserveBooking("failed")
		w.mu.Lock()
		w.state = StateDialogOpen
		w.mu.Unlock()
		return nil, err
	}

	metrics.ObserveBooking("confirmed")

	w.agg.ClearSearch()

	w.mu.Lock()
	w.state = StateIdle
	w.draft = nil
	w.mu.Unlock()

	// The booking succeeded regardless of this refresh; a failure here is
	// recorded by the aggregator and retried on the next window change.
	_ = w.agg.LoadOwnEvents(ctx, w.store.Window())
	return meeting, nil
}

// validate enforces the draft limits. Lengths count characters, not
// bytes; a multibyte title must get the same 100 characters as an ASCII
// one.
func validate(title, description string, attendees []string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > titleMaxLen {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, titleMaxLen)
	}
	if utf8.RuneCountInString(description) > descriptionMaxLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, descriptionMaxLen)
	}
	if len(attendees) == 0 {
		return fmt.Errorf("%w: at least one attendee is required", ErrValidation)
	}
	return nil
}
