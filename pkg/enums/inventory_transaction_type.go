package enums

import "fmt"

// InventoryTransactionType labels the business reason behind a stock delta.
type InventoryTransactionType string

const (
	InventoryTransactionPurchase   InventoryTransactionType = "purchase"
	InventoryTransactionSale       InventoryTransactionType = "sale"
	InventoryTransactionReturn     InventoryTransactionType = "return"
	InventoryTransactionAdjustment InventoryTransactionType = "adjustment"
)

var validInventoryTransactionTypes = []InventoryTransactionType{
	InventoryTransactionPurchase,
	InventoryTransactionSale,
	InventoryTransactionReturn,
	InventoryTransactionAdjustment,
}

// String implements fmt.Stringer.
func (t InventoryTransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InventoryTransactionType.
func (t InventoryTransactionType) IsValid() bool {
	for _, candidate := range validInventoryTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInventoryTransactionType converts raw input into an InventoryTransactionType.
func ParseInventoryTransactionType(value string) (InventoryTransactionType, error) {
	for _, candidate := range validInventoryTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction type %q", value)
}
