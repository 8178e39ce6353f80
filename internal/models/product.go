package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock status values derived from quantity and minQuantity.
const (
	StockStatusInStock    = "in-stock"
	StockStatusLowStock   = "low-stock"
	StockStatusOutOfStock = "out-of-stock"
)

// DefaultUnit is used when a product is created without a unit.
const DefaultUnit = "pcs"

// Supplier is the optional vendor of a product.
type Supplier struct {
	Name    string `json:"name,omitempty" gorm:"type:varchar(100)" validate:"max=100"`
	Contact string `json:"contact,omitempty" gorm:"type:varchar(100)" validate:"max=100"`
}

// Product is an inventory item owned by exactly one user.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	SKU         string    `json:"sku" gorm:"column:sku;uniqueIndex;type:varchar(64);not null"`
	Category    string    `json:"category" gorm:"type:varchar(50);index"`
	Price       float64   `json:"price" gorm:"not null"`
	Cost        float64   `json:"cost" gorm:"not null"`
	Quantity    float64   `json:"quantity" gorm:"not null"`
	MinQuantity float64   `json:"minQuantity" gorm:"not null"`
	MaxQuantity *float64  `json:"maxQuantity,omitempty"`
	Unit        string    `json:"unit" gorm:"type:varchar(20)"`
	Supplier    Supplier  `json:"supplier" gorm:"embedded;embeddedPrefix:supplier_"`
	Location    string    `json:"location,omitempty" gorm:"type:varchar(100)"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true;index"`
	CreatedBy   string    `json:"createdBy" gorm:"type:varchar(36);not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NormalizeSKU trims and uppercases a stock keeping unit.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// BeforeCreate fills in the id and normalizes the SKU.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.SKU = NormalizeSKU(p.SKU)
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
	return nil
}

// ProfitMargin returns ((price - cost) / cost) * 100 rounded to two decimals,
// or 0 when cost is 0.
func (p Product) ProfitMargin() float64 {
	if p.Cost == 0 {
		return 0
	}
	price := decimal.NewFromFloat(p.Price)
	cost := decimal.NewFromFloat(p.Cost)
	return price.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// StockStatus classifies the product by its quantity.
func (p Product) StockStatus() string {
	switch {
	case p.Quantity <= 0:
		return StockStatusOutOfStock
	case p.Quantity <= p.MinQuantity:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// MarshalJSON adds the derived profitMargin and stockStatus fields.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product

	var supplier *Supplier
	if p.Supplier != (Supplier{}) {
		s := p.Supplier
		supplier = &s
	}

	return json.Marshal(struct {
		product
		Supplier     *Supplier `json:"supplier,omitempty"`
		ProfitMargin float64   `json:"profitMargin"`
		StockStatus  string    `json:"stockStatus"`
	}{
		product:      product(p),
		Supplier:     supplier,
		ProfitMargin: p.ProfitMargin(),
		StockStatus:  p.StockStatus(),
	})
}

// QuantityOperation selects how a quantity adjustment is applied.
type QuantityOperation string

const (
	QuantitySet      QuantityOperation = "set"
	QuantityAdd      QuantityOperation = "add"
	QuantitySubtract QuantityOperation = "subtract"
)

// Apply computes the resulting quantity. Subtraction floors at zero.
func (op QuantityOperation) Apply(current, amount float64) float64 {
	switch op {
	case QuantityAdd:
		return current + amount
	case QuantitySubtract:
		if amount >= current {
			return 0
		}
		return current - amount
	default:
		return amount
	}
}
