package repositories

import (
	"context"

	"gudang/internal/models"
)

// ProductFilter narrows a product listing. Sort must already be a column name.
type ProductFilter struct {
	OwnerID     string
	Category    string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	StockStatus string
	SortColumn  string
	SortDesc    bool
	Offset      int
	Limit       int
}

// ProductStats holds the totals over a user's active products.
type ProductStats struct {
	TotalProducts   int64   `json:"totalProducts"`
	TotalValue      float64 `json:"totalValue"`
	TotalCost       float64 `json:"totalCost"`
	LowStockCount   int64   `json:"lowStockCount"`
	OutOfStockCount int64   `json:"outOfStockCount"`
}

// CategoryStats is one row of the per-category breakdown.
type CategoryStats struct {
	Category   string  `json:"category"`
	Count      int64   `json:"count" gorm:"column:product_count"`
	TotalValue float64 `json:"totalValue"`
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Product, error)
	AdjustQuantity(ctx context.Context, id string, amount float64, op models.QuantityOperation) (*models.Product, error)
	Stats(ctx context.Context, ownerID string) (*ProductStats, []CategoryStats, error)
}
