package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/meetgrid/meetgrid/internal/backend"
	"github.com/meetgrid/meetgrid/internal/schedule"
	"github.com/meetgrid/meetgrid/internal/tz"
	"github.com/meetgrid/meetgrid/internal/view"
)

// slotStart is 10:00 JST on June 12, 2024.
const (
	slotStart = "2024-06-12T01:00:00Z"
	slotEnd   = "2024-06-12T01:30:00Z"
)

type fakeBackend struct {
	mu             sync.Mutex
	createCalls    int
	eventsCalls    int
	createStatus   int
	createEntered  chan struct{}
	createRelease  chan struct{}
	lastCreateForm url.Values
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/meeting/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.AvailabilityResult{
			AvailableSlots: []backend.Slot{{
				Date:          "2024-06-12",
				StartTime:     "01:00",
				EndTime:       "01:30",
				StartDatetime: slotStart,
				EndDatetime:   slotEnd,
			}},
			TotalSlotsFound: 1,
		})
	})

	mux.HandleFunc("/api/meeting/create", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		f.mu.Lock()
		f.createCalls++
		f.lastCreateForm = r.PostForm
		entered, release, status := f.createEntered, f.createRelease, f.createStatus
		f.mu.Unlock()

		if entered != nil {
			entered <- struct{}{}
			<-release
		}
		if status != 0 {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"detail": "slot no longer free"})
			return
		}
		json.NewEncoder(w).Encode(backend.Meeting{
			ID:            "m-1",
			Title:         r.PostForm.Get("title"),
			StartDatetime: slotStart,
			EndDatetime:   slotEnd,
		})
	})

	mux.HandleFunc("/api/calendar/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.eventsCalls++
		f.mu.Unlock()
		w.Write([]byte("[]"))
	})

	return mux
}

func (f *fakeBackend) counts() (creates, events int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.eventsCalls
}

// newWorkflow runs a search so one slot is selectable and returns the
// workflow over it.
func newWorkflow(t *testing.T, fb *fakeBackend) (*Workflow, *schedule.Aggregator) {
	t.Helper()

	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	conv, err := tz.NewConverter("Asia/Tokyo")
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	client := backend.NewClient(srv.URL, 5*time.Second)
	agg := schedule.NewAggregator(client, conv)
	store := view.NewStore(conv.Location(), time.Date(2024, time.June, 12, 9, 0, 0, 0, conv.Location()))

	err = agg.LoadMembersAndSearch(context.Background(), backend.AvailabilityRequest{
		GroupID:         "g-1",
		SelectedMembers: []string{"a@example.com", "b@example.com"},
		StartDate:       "2024-06-10",
		EndDate:         "2024-06-14",
		StartTime:       "00:00",
		EndTime:         "09:00",
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("LoadMembersAndSearch: %v", err)
	}

	return NewWorkflow(client, agg, store), agg
}

func TestSelectSlotOpensDialog(t *testing.T) {
	fb := &fakeBackend{}
	wf, _ := newWorkflow(t, fb)

	if err := wf.SelectSlot(slotStart); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}
	if wf.State() != StateDialogOpen {
		t.Fatalf("state = %v, want dialog", wf.State())
	}

	draft, ok := wf.Draft()
	if !ok {
		t.Fatal("no draft after slot selection")
	}
	if draft.Slot.StartWire != slotStart || draft.Slot.EndWire != slotEnd {
		t.Errorf("draft slot = %s..%s", draft.Slot.StartWire, draft.Slot.EndWire)
	}
	if len(draft.Attendees) != 2 || draft.Attendees[0] != "a@example.com" {
		t.Errorf("attendees = %v, want current member selection", draft.Attendees)
	}
	if draft.Title != "" || draft.Description != "" {
		t.Errorf("draft fields not reset: %q / %q", draft.Title, draft.Description)
	}
	if wf.SelectedSlotStart() != slotStart {
		t.Errorf("SelectedSlotStart = %q", wf.SelectedSlotStart())
	}
}

func TestSelectSlotUnknown(t *testing.T) {
	fb := &fakeBackend{}
	wf, _ := newWorkflow(t, fb)

	err := wf.SelectSlot("2030-01-01T00:00:00Z")
	if !errors.Is(err, ErrNoSuchSlot) {
		t.Fatalf("err = %v, want ErrNoSuchSlot", err)
	}
	if wf.State() != StateIdle {
		t.Errorf("state = %v, want idle", wf.State())
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name        string
		title       string
		description string
	}{
		{"empty title", "", ""},
		{"whitespace title", "   ", ""},
		{"title too long", strings.Repeat("x", 101), ""},
		{"multibyte title too long", strings.Repeat("会", 101), ""},
		{"description too long", "Sync", strings.Repeat("x", 501)},
		{"multibyte description too long", "Sync", strings.Repeat("議", 501)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := &fakeBackend{}
			wf, _ := newWorkflow(t, fb)
			if err := wf.SelectSlot(slotStart); err != nil {
				t.Fatalf("SelectSlot: %v", err)
			}

			_, err := wf.Submit(context.Background(), tc.title, tc.description)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if creates, _ := fb.counts(); creates != 0 {
				t.Errorf("backend called %d times on invalid draft", creates)
			}
			if wf.State() != StateDialogOpen {
				t.Errorf("state = %v, want dialog still open", wf.State())
			}
		})
	}
}

// Limits count characters, not bytes: a 40-character Japanese title is
// well under the 100-character cap even though it is 120 bytes.
func TestSubmitMultibyteTitleWithinLimit(t *testing.T) {
	fb := &fakeBackend{}
	wf, _ := newWorkflow(t, fb)
	if err := wf.SelectSlot(slotStart); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}

	title := strings.Repeat("会", 40)
	meeting, err := wf.Submit(context.Background(), title, strings.Repeat("議", 500))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if meeting == nil || meeting.Title != title {
		t.Fatalf("meeting = %+v, want echo of multibyte title", meeting)
	}
}

// A draft whose attendee list came up empty is rejected before any
// network call.
func TestSubmitRequiresAttendees(t *testing.T) {
	fb := &fakeBackend{}
	wf, agg := newWorkflow(t, fb)

	// A re-search with no members selected replaces the captured selection.
	err := agg.LoadMembersAndSearch(context.Background(), backend.AvailabilityRequest{
		GroupID:   "g-1",
		StartDate: "2024-06-10",
		EndDate:   "2024-06-14",
	})
	if err != nil {
		t.Fatalf("LoadMembersAndSearch: %v", err)
	}
	if err := wf.SelectSlot(slotStart); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}

	_, err = wf.Submit(context.Background(), "Design sync", "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if creates, _ := fb.counts(); creates != 0 {
		t.Errorf("backend called %d times with no attendees", creates)
	}
	if wf.State() != StateDialogOpen {
		t.Errorf("state = %v, want dialog still open", wf.State())
	}
}

func TestSubmitConfirmed(t *testing.T) {
	fb := &fakeBackend{}
	wf, agg := newWorkflow(t, fb)
	if err := wf.SelectSlot(slotStart); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}

	meeting, err := wf.Submit(context.Background(), "  Design sync  ", "quarterly planning")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if meeting == nil || meeting.ID != "m-1" {
		t.Fatalf("meeting = %+v", meeting)
	}

	if got := fb.lastCreateForm.Get("title"); got != "Design sync" {
		t.Errorf("submitted title = %q, want trimmed", got)
	}
	if got := fb.lastCreateForm["attendee_emails"]; len(got) != 2 {
		t.Errorf("attendee_emails = %v", got)
	}
	if got := fb.lastCreateForm.Get("start_datetime"); got != slotStart {
		t.Errorf("start_datetime = %q", got)
	}

	// Search state is cleared, the dialog is closed, and the viewer's
	// events were refetched.
	if _, searched := agg.AvailableSlots(); searched {
		t.Error("search results should be cleared after booking")
	}
	if wf.State() != StateIdle {
		t.Errorf("state = %v, want idle", wf.State())
	}
	if _, ok := wf.Draft(); ok {
		t.Error("draft should be destroyed")
	}
	if _, events := fb.counts(); events != 1 {
		t.Errorf("own events refetched %d times, want 1", events)
	}

	if _, err := wf.Submit(context.Background(), "again", ""); !errors.Is(err, ErrNotOpen) {
		t.Errorf("submit after close = %v, want ErrNotOpen", err)
	}
}

func TestSubmitFailureKeepsDialogAndSearch(t *testing.T) {
	fb := &fakeBackend{createStatus: http.StatusConflict}
	wf, agg := newWorkflow(t, fb)
	if err := wf.SelectSlot(slotStart); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}

	_, err := wf.Submit(context.Background(), "Design sync", "")
	if !errors.Is(err, backend.ErrServer) {
		t.Fatalf("err = %v, want ErrServer", err)
	}

	if wf.State() != StateDialogOpen {
		t.Errorf("state = %v, want dialog reopened", wf.State())
	}
	if _, ok := wf.Draft(); !ok {
		t.Error("draft should survive a failed submission")
	}
	slots, searched := agg.AvailableSlots()
	if !searched || len(slots) != 1 {
		t.Errorf("search state changed on failure: %d slots, searched=%v", len(slots), searched)
	}
	if _, events := fb.counts(); events != 0 {
		t.Errorf("own events refetched %d times on failure, want 0", events)
	}
}

func TestDoubleSubmitSingleCall(t *testing.T) {
	fb := &fakeBackend{
		createEntered: make(chan struct{}, 1),
		createRelease: make(chan struct{}),
	}
	wf, _ := newWorkflow(t, fb)
	if err := wf.SelectSlot(slotStart); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background(), "Design sync", "")
		done <- err
	}()

	<-fb.createEntered

	// Second submit while the first is in flight must not reach the
	// backend.
	meeting, err := wf.Submit(context.Background(), "Design sync", "")
	if err != nil || meeting != nil {
		t.Fatalf("in-flight submit = (%v, %v), want silent no-op", meeting, err)
	}

	close(fb.createRelease)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	if creates, _ := fb.counts(); creates != 1 {
		t.Errorf("backend called %d times, want exactly 1", creates)
	}
}

func TestCancelKeepsSearchResults(t *testing.T) {
	fb := &fakeBackend{}
	wf, agg := newWorkflow(t, fb)
	if err := wf.SelectSlot(slotStart); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}

	wf.Cancel()

	if wf.State() != StateIdle {
		t.Errorf("state = %v, want idle", wf.State())
	}
	if _, ok := wf.Draft(); ok {
		t.Error("draft should be discarded on cancel")
	}
	slots, searched := agg.AvailableSlots()
	if !searched || len(slots) != 1 {
		t.Error("cancel must not clear search results")
	}

	// The same slot is selectable again.
	if err := wf.SelectSlot(slotStart); err != nil {
		t.Errorf("re-select after cancel: %v", err)
	}
}
