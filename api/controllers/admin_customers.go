package controllers

import (
	"net/http"

	"github.com/poultrygear/poultrygear-backend/api/responses"
	"github.com/poultrygear/poultrygear-backend/api/validators"
	"github.com/poultrygear/poultrygear-backend/internal/users"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
)

// AdminCustomerList pages through customer accounts, newest first.
func AdminCustomerList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ListCustomers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
