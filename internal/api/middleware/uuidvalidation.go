// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/validation"
)

// OwnerIDParam is the URL parameter carrying the owner of the data being imported.
const OwnerIDParam = "ownerId"

// ValidateOwnerIDMiddleware validates that the ownerId URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if the owner ID is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/owner/{ownerId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateOwnerIDMiddleware)
//	    r.Get("/holdings", handler.Holdings)
//	})
func ValidateOwnerIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := chi.URLParam(r, OwnerIDParam)

		if err := validation.ValidateOwnerID(ownerID); err != nil {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidOwnerID.Error(), err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
