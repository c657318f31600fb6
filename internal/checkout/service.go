package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/config"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Service turns a validated checkout request into an order.
type Service interface {
	Checkout(ctx context.Context, userID *uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error)
}

type orderWriter interface {
	CreateOrder(ctx context.Context, order *models.Order, drainCartFor *uuid.UUID) (*models.Order, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error)
}

type guestResolver interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	orders     orderWriter
	products   productFinder
	users      guestResolver
	guestEmail string
	retries    int
	currency   string
	now        func() time.Time
	rng        *rand.Rand
	logg       *logger.Logger
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	Orders   orderWriter
	Products productFinder
	Users    guestResolver
	Checkout config.CheckoutConfig
	Currency string
	Now      func() time.Time
	Rand     *rand.Rand
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order writer is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user resolver is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.Checkout.GuestEmail == "" {
		return nil, fmt.Errorf("guest email is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Rand == nil {
		params.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	retries := params.Checkout.OrderNumRetries
	if retries <= 0 {
		retries = 3
	}
	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}

	return &service{
		orders:     params.Orders,
		products:   params.Products,
		users:      params.Users,
		guestEmail: params.Checkout.GuestEmail,
		retries:    retries,
		currency:   currency,
		now:        params.Now,
		rng:        params.Rand,
		logg:       params.Logger,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID *uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "order must contain at least one item")
	}

	account, isGuest, err := s.resolveAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerName, customerEmail, err := s.resolveCustomer(account, isGuest, req)
	if err != nil {
		return nil, err
	}

	items, total, currency, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:        account.ID,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		TotalAmount:   total,
		Currency:      truncate(currency, 3),
		CustomerName:  truncate(customerName, 150),
		CustomerEmail: truncate(customerEmail, 255),
		ShipToName:    truncate(req.ShipTo.Name, 150),
		ShipToLine1:   truncate(req.ShipTo.Line1, 200),
		ShipToCity:    truncate(req.ShipTo.City, 100),
		ShipToCountry: shipToCountry(req.ShipTo.Country),
		Items:         items,
	}
	order.CustomerPhone = optional(req.CustomerPhone, 30)
	order.ShippingMethod = optional(req.ShippingMethod, 50)
	order.PaymentMethod = optional(req.PaymentMethod, 50)
	order.ShipToPhone = optional(req.ShipTo.Phone, 30)
	order.ShipToLine2 = optional(req.ShipTo.Line2, 200)
	order.ShipToRegion = optional(req.ShipTo.Region, 100)
	order.Notes = optional(req.Notes, 1000)

	var drainCartFor *uuid.UUID
	if !isGuest {
		drainCartFor = &account.ID
	}

	created, err := s.createWithRetry(ctx, order, drainCartFor)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderNumber(ctx, created.OrderNumber)
	s.logg.Info(ctx, "order created")

	return newCheckoutResponse(created), nil
}

// createWithRetry regenerates the order number on unique violations; the
// 4-digit daily suffix can collide under load.
func (s *service) createWithRetry(ctx context.Context, order *models.Order, drainCartFor *uuid.UUID) (*models.Order, error) {
	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		order.ID = uuid.Nil
		order.OrderNumber = truncate(OrderNumber(s.now(), s.rng), 50)

		created, err := s.orders.CreateOrder(ctx, order, drainCartFor)
		if err == nil {
			return created, nil
		}
		if !db.IsUniqueViolation(err, "idx_orders_order_number") {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating order")
		}
		lastErr = err
	}
	return nil, apperrors.Wrap(apperrors.CodeInternal, lastErr, "order number collisions exhausted retries")
}

func (s *service) resolveAccount(ctx context.Context, userID *uuid.UUID) (*models.User, bool, error) {
	if userID != nil {
		user, err := s.users.FindByID(ctx, *userID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, false, apperrors.New(apperrors.CodeUnauthorized, "account no longer exists")
			}
			return nil, false, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
		}
		return user, false, nil
	}

	guest, err := s.users.FindByEmail(ctx, s.guestEmail)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeInternal, err, "loading guest account")
	}
	return guest, true, nil
}

func (s *service) resolveCustomer(account *models.User, isGuest bool, req CheckoutRequest) (string, string, error) {
	name := strings.TrimSpace(req.CustomerName)
	email := strings.ToLower(strings.TrimSpace(req.CustomerEmail))

	if isGuest {
		if name == "" || email == "" {
			return "", "", apperrors.New(apperrors.CodeValidation, "guest checkout requires customerName and customerEmail")
		}
		return name, email, nil
	}

	if name == "" {
		name = strings.TrimSpace(account.FirstName + " " + account.LastName)
	}
	if email == "" {
		email = account.Email
	}
	return name, email, nil
}

// buildItems snapshots names and prices from the live catalog. Totals are
// fixed here; later product edits never touch existing orders.
func (s *service) buildItems(ctx context.Context, reqItems []ItemRequest) ([]models.OrderItem, decimal.Decimal, string, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	total := decimal.Zero
	currency := s.currency

	for _, line := range reqItems {
		product, err := s.products.FindByID(ctx, line.ProductID, false)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, decimal.Zero, "", apperrors.New(apperrors.CodeValidation, "product not available").
					WithDetails(map[string]any{"productId": line.ProductID})
			}
			return nil, decimal.Zero, "", apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		productID := product.ID
		items = append(items, models.OrderItem{
			ProductID:     &productID,
			ProductNameEn: product.NameEn,
			ProductNameAr: product.NameAr,
			Quantity:      line.Quantity,
			UnitPrice:     product.Price,
			Subtotal:      subtotal,
		})
		total = total.Add(subtotal)
		currency = product.Currency
	}
	return items, total, currency, nil
}

func newCheckoutResponse(order *models.Order) *CheckoutResponse {
	items := make([]ItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemResponse{
			ProductID:     item.ProductID,
			ProductNameEn: item.ProductNameEn,
			ProductNameAr: item.ProductNameAr,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Subtotal:      item.Subtotal,
		})
	}
	return &CheckoutResponse{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status.String(),
		PaymentStatus: order.PaymentStatus.String(),
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}

func shipToCountry(value string) string {
	country := strings.ToUpper(strings.TrimSpace(value))
	if country == "" {
		country = "SA"
	}
	return truncate(country, 2)
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) > max {
		return value[:max]
	}
	return value
}

func optional(value string, max int) *string {
	trimmed := truncate(value, max)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
