package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poultrygear/poultrygear-backend/pkg/enums"
)

// Order is created at checkout. TotalAmount and Currency are fixed at
// creation; only Status, PaymentStatus, and Notes mutate afterwards. Guest
// orders attach to the fallback guest account.
type Order struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber    string              `gorm:"column:order_number;type:varchar(50);not null;uniqueIndex:idx_orders_order_number"`
	Status         enums.OrderStatus   `gorm:"column:status;type:varchar(20);not null;default:'pending'"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null;default:'pending'"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Currency       string              `gorm:"column:currency;type:varchar(3);not null"`
	CustomerName   string              `gorm:"column:customer_name;not null"`
	CustomerEmail  string              `gorm:"column:customer_email;not null"`
	CustomerPhone  *string             `gorm:"column:customer_phone"`
	ShippingMethod *string             `gorm:"column:shipping_method;type:varchar(50)"`
	PaymentMethod  *string             `gorm:"column:payment_method;type:varchar(50)"`
	ShipToName     string              `gorm:"column:ship_to_name;not null"`
	ShipToPhone    *string             `gorm:"column:ship_to_phone"`
	ShipToLine1    string              `gorm:"column:ship_to_line1;not null"`
	ShipToLine2    *string             `gorm:"column:ship_to_line2"`
	ShipToCity     string              `gorm:"column:ship_to_city;not null"`
	ShipToRegion   *string             `gorm:"column:ship_to_region"`
	ShipToCountry  string              `gorm:"column:ship_to_country;type:varchar(2);not null"`
	Notes          *string             `gorm:"column:notes;type:varchar(1000)"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
