// Package middleware provides HTTP middleware for request validation and logging.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/response"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/validation"
)

// ValidateUUIDParam rejects the request with 400 Bad Request unless the named
// URL parameter is present and a valid UUID.
//
// Example usage in router:
//
//	r.With(middleware.ValidateUUIDParam("uuid")).Get("/{uuid}/summary", h.Summary)
func ValidateUUIDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := chi.URLParam(r, name)

			if value == "" {
				response.RespondError(w, http.StatusBadRequest, "valid UUID is required", name)
				return
			}

			if err := validation.ValidateUUID(value); err != nil {
				response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateUUIDMiddleware validates the conventional {uuid} path parameter.
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return ValidateUUIDParam("uuid")(next)
}
