// Package errors logs handler failures enriched with the request ID the
// chi middleware assigned, keeping internal detail out of responses. Most
// dashboard handlers report failures as flash messages and only log here;
// InternalError is for pages that cannot render at all.
package errors

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// InternalError logs the real error and answers with a generic 500.
func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	requestID := middleware.GetReqID(r.Context())

	if requestID != "" {
		log.Printf("[ERROR] RequestID=%s: %s: %v", requestID, message, err)
	} else {
		log.Printf("[ERROR] %s: %v", message, err)
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// LogError records a handler failure that the handler itself answers for,
// typically with a redirect carrying a flash message.
func LogError(r *http.Request, message string, err error) {
	requestID := middleware.GetReqID(r.Context())

	if requestID != "" {
		log.Printf("[ERROR] RequestID=%s: %s: %v", requestID, message, err)
	} else {
		log.Printf("[ERROR] %s: %v", message, err)
	}
}
