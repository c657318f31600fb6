package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/poultrygear/poultrygear-backend/api/middleware"
	"github.com/poultrygear/poultrygear-backend/api/responses"
	"github.com/poultrygear/poultrygear-backend/api/validators"
	"github.com/poultrygear/poultrygear-backend/internal/checkout"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
)

// Checkout places an order. Anonymous callers go through the guest flow;
// authenticated callers get their cart drained on success.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkout.CheckoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		if id, ok := middleware.UserIDFromContext(r.Context()); ok {
			userID = &id
		}

		resp, err := svc.Checkout(r.Context(), userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}
