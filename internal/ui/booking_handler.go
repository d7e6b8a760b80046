package ui

import (
	stderrors "errors"
	"net/http"

	"github.com/meetgrid/meetgrid/internal/booking"
	"github.com/meetgrid/meetgrid/internal/http/errors"
)

// SelectSlot opens the booking dialog for the clicked available slot.
func (h *Handler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	start := r.FormValue("start")
	if err := h.workflow.SelectSlot(start); err != nil {
		errors.LogError(r, "select slot", err)
		h.redirect(w, r, "/", map[string]string{"error": "that slot is no longer available"})
		return
	}
	h.redirect(w, r, "/", nil)
}

// ConfirmBooking submits the open draft. Validation failures keep the
// dialog open; so does a backend rejection, so the user can retry.
func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	meeting, err := h.workflow.Submit(r.Context(), r.FormValue("title"), r.FormValue("description"))
	if err != nil {
		if stderrors.Is(err, booking.ErrValidation) {
			h.redirect(w, r, "/", map[string]string{"error": "please provide a valid title and description"})
			return
		}
		errors.LogError(r, "booking", err)
		h.redirect(w, r, "/", map[string]string{"error": "booking failed"})
		return
	}
	if meeting == nil {
		// A submission was already in flight; nothing new happened.
		h.redirect(w, r, "/", nil)
		return
	}
	h.redirect(w, r, "/", map[string]string{"status": "meeting booked"})
}

// CancelBooking closes the dialog and keeps the search results.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.workflow.Cancel()
	h.redirect(w, r, "/", nil)
}
