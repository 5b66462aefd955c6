package utils

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"travelbuddy/globals"
)

// GetUserIDFromRequest returns the user id placed in the context by
// middleware.OptionalAuth, or "" for anonymous requests.
func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

// RequestID returns the id the logging middleware attached to r
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(globals.RequestIDKey).(string)
	return id
}

// RequestFields are the log fields that tie a handler error to its request line
func RequestFields(r *http.Request) logrus.Fields {
	return logrus.Fields{
		"request_id": RequestID(r),
		"method":     r.Method,
		"path":       r.URL.Path,
	}
}
