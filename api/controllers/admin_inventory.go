package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/poultrygear/poultrygear-backend/api/middleware"
	"github.com/poultrygear/poultrygear-backend/api/responses"
	"github.com/poultrygear/poultrygear-backend/api/validators"
	"github.com/poultrygear/poultrygear-backend/internal/inventory"
	pkgerrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
)

// AdminInventoryProducts lists products with their stock levels.
func AdminInventoryProducts(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ListProductStock(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminInventoryLowStock lists products at or below their alert threshold.
func AdminInventoryLowStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": rows})
	}
}

// AdminInventoryTransactions lists the stock movement log, optionally
// for a single product.
func AdminInventoryTransactions(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var productID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("productId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
				return
			}
			productID = &id
		}

		resp, err := svc.ListTransactions(r.Context(), productID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminInventoryApply records a stock movement and returns the resulting level.
func AdminInventoryApply(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inventory.TransactionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actorID *uuid.UUID
		if id, ok := middleware.UserIDFromContext(r.Context()); ok {
			actorID = &id
		}

		level, err := svc.ApplyTransaction(r.Context(), actorID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, level)
	}
}

// AdminInventoryThresholds updates the low and max stock alert bounds.
func AdminInventoryThresholds(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req inventory.ThresholdRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		level, err := svc.UpdateThresholds(r.Context(), productID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, level)
	}
}
