package controllers

import (
	"context"
	"net/http"

	"github.com/poultrygear/poultrygear-backend/api/responses"
	"github.com/poultrygear/poultrygear-backend/internal/inventory"
	"github.com/poultrygear/poultrygear-backend/internal/orders"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
)

type customerCounter interface {
	CustomerCount(ctx context.Context) (int64, error)
}

type newMessageCounter interface {
	CountNew(ctx context.Context) (int64, error)
}

type waitlistCounter interface {
	Count(ctx context.Context) (int64, error)
}

type lowStockLister interface {
	ListLowStock(ctx context.Context) ([]inventory.ProductStockResponse, error)
}

type dashboardResponse struct {
	TotalOrders      int64  `json:"totalOrders"`
	PendingOrders    int64  `json:"pendingOrders"`
	PaidRevenue      string `json:"paidRevenue"`
	TotalCustomers   int64  `json:"totalCustomers"`
	LowStockProducts int    `json:"lowStockProducts"`
	NewMessages      int64  `json:"newMessages"`
	WaitlistEntries  int64  `json:"waitlistEntries"`
}

// AdminDashboard assembles the back-office landing page counters from the
// order, customer, inventory, contact, and waitlist services.
func AdminDashboard(
	ordersSvc orders.Service,
	customers customerCounter,
	stock lowStockLister,
	messages newMessageCounter,
	waitlist waitlistCounter,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := ordersSvc.GetStats(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		customerCount, err := customers.CustomerCount(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		lowStock, err := stock.ListLowStock(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		newMessages, err := messages.CountNew(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		waitlistCount, err := waitlist.Count(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboardResponse{
			TotalOrders:      stats.TotalOrders,
			PendingOrders:    stats.PendingOrders,
			PaidRevenue:      stats.PaidRevenue.StringFixed(2),
			TotalCustomers:   customerCount,
			LowStockProducts: len(lowStock),
			NewMessages:      newMessages,
			WaitlistEntries:  waitlistCount,
		})
	}
}
