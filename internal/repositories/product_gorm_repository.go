package repositories

import (
	"context"
	"fmt"
	"strings"

	"gudang/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a single product by its ID, active or not.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, translate(err))
	}
	return &product, nil
}

// List returns one page of the owner's active products and the total match count.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("created_by = ? AND is_active = ?", filter.OwnerID, true)

	if filter.Category != "" {
		query = query.Where("LOWER(category) LIKE ? ESCAPE '\\'", likePattern(filter.Category))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			r.db.Where("LOWER(name) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(description) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(sku) LIKE ? ESCAPE '\\'", pattern),
		)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	switch filter.StockStatus {
	case models.StockStatusInStock:
		query = query.Where("quantity > 0")
	case models.StockStatusOutOfStock:
		query = query.Where("quantity = 0")
	case models.StockStatusLowStock:
		query = query.Where("quantity <= min_quantity")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	sortColumn := filter.SortColumn
	if sortColumn == "" {
		sortColumn = "created_at"
	}

	var products []models.Product
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn}, Desc: filter.SortDesc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Update applies a partial update and returns the refreshed product.
func (r *GORMProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Product, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product with ID %s not found for update: %w", id, ErrRecordNotFound)
	}
	return r.GetByID(ctx, id)
}

// AdjustQuantity changes the quantity in a single UPDATE statement so that
// concurrent adjustments of the same product cannot lose each other's writes.
func (r *GORMProductRepository) AdjustQuantity(ctx context.Context, id string, amount float64, op models.QuantityOperation) (*models.Product, error) {
	var value interface{}
	switch op {
	case models.QuantityAdd:
		value = gorm.Expr("quantity + ?", amount)
	case models.QuantitySubtract:
		value = gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", amount, amount)
	case models.QuantitySet:
		value = amount
	default:
		return nil, fmt.Errorf("unknown quantity operation %q", op)
	}

	return r.Update(ctx, id, map[string]interface{}{"quantity": value})
}

// Stats aggregates the owner's active products.
func (r *GORMProductRepository) Stats(ctx context.Context, ownerID string) (*ProductStats, []CategoryStats, error) {
	owned := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Product{}).
			Where("created_by = ? AND is_active = ?", ownerID, true)
	}

	var stats ProductStats
	err := owned().Select(`COUNT(*) AS total_products,
		COALESCE(SUM(price * quantity), 0) AS total_value,
		COALESCE(SUM(cost * quantity), 0) AS total_cost,
		COALESCE(SUM(CASE WHEN quantity <= min_quantity THEN 1 ELSE 0 END), 0) AS low_stock_count,
		COALESCE(SUM(CASE WHEN quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_count`).
		Scan(&stats).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate product stats: %w", err)
	}

	categories := []CategoryStats{}
	err = owned().Select(`category,
		COUNT(*) AS product_count,
		COALESCE(SUM(price * quantity), 0) AS total_value`).
		Group("category").
		Order("product_count DESC, category ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate category stats: %w", err)
	}

	return &stats, categories, nil
}

func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}
