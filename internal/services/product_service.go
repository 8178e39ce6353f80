package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gudang/internal/apperrors"
	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPage         = 1000000
	maxSKUStemLen   = 40
)

const (
	msgProductNotFound  = "Product not found"
	msgProductForbidden = "Access denied. You can only access your own products."
	msgDuplicateSKU     = "Product with this SKU already exists"
)

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"price":     "price",
	"quantity":  "quantity",
	"category":  "category",
	"sku":       "sku",
}

// ProductEventPublisher receives product lifecycle notifications.
type ProductEventPublisher interface {
	PublishProductEvent(ctx context.Context, eventType string, product *models.Product)
}

// Pagination describes where a page sits within the full result set.
type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalProducts int64 `json:"totalProducts"`
	Limit         int   `json:"limit"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// InventoryStats aggregates a user's active products.
type InventoryStats struct {
	repositories.ProductStats
	Categories []repositories.CategoryStats `json:"categories"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher ProductEventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher ProductEventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateProduct stores a new product owned by ownerID.
func (s *ProductService) CreateProduct(ctx context.Context, ownerID string, req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		SKU:         models.NormalizeSKU(req.SKU),
		Category:    strings.TrimSpace(req.Category),
		Price:       valueOr(req.Price, 0),
		Cost:        valueOr(req.Cost, 0),
		Quantity:    valueOr(req.Quantity, 0),
		MinQuantity: valueOr(req.MinQuantity, 0),
		MaxQuantity: req.MaxQuantity,
		Unit:        strings.TrimSpace(req.Unit),
		Location:    strings.TrimSpace(req.Location),
		IsActive:    true,
		CreatedBy:   ownerID,
	}
	if req.Supplier != nil {
		product.Supplier = *req.Supplier
	}
	if product.Name == "" {
		return nil, blankField("name")
	}
	if product.SKU == "" {
		product.SKU = generateSKU(product.Name)
	}
	if err := checkQuantityBounds(product.MinQuantity, product.MaxQuantity); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.Conflict(msgDuplicateSKU)
		}
		return nil, err
	}

	s.publish(ctx, models.EventProductCreated, product)
	return product, nil
}

// ListProducts returns one page of the owner's active products.
func (s *ProductService) ListProducts(ctx context.Context, ownerID string, q models.ListProductsQuery) (*ProductPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page > maxPage {
		return nil, apperrors.Validation("Validation failed", map[string]string{
			"page": fmt.Sprintf("must be less than or equal to %d", maxPage),
		})
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, apperrors.Validation("Validation failed", map[string]string{
			"minPrice": "must be less than or equal to maxPrice",
		})
	}

	sortColumn, ok := sortColumns[q.SortBy]
	if !ok {
		sortColumn = sortColumns["createdAt"]
	}
	offset := (page - 1) * limit

	products, total, err := s.repo.List(ctx, repositories.ProductFilter{
		OwnerID:     ownerID,
		Category:    strings.TrimSpace(q.Category),
		Search:      strings.TrimSpace(q.Search),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		StockStatus: q.StockStatus,
		SortColumn:  sortColumn,
		SortDesc:    q.SortOrder != "asc",
		Offset:      offset,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return &ProductPage{
		Products: products,
		Pagination: Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalProducts: total,
			Limit:         limit,
			HasNextPage:   page < totalPages,
			HasPrevPage:   page > 1,
		},
	}, nil
}

// GetProductByID returns a product owned by ownerID. A missing product is a
// 404; a product owned by someone else is a 403.
func (s *ProductService) GetProductByID(ctx context.Context, ownerID, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.NotFound(msgProductNotFound)
		}
		return nil, err
	}
	if product.CreatedBy != ownerID {
		return nil, apperrors.Authorization(msgProductForbidden)
	}
	return product, nil
}

// UpdateProduct applies the non-nil fields of req.
func (s *ProductService) UpdateProduct(ctx context.Context, ownerID, id string, req models.UpdateProductRequest) (*models.Product, error) {
	current, err := s.GetProductByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setString := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}
	setFloat := func(column string, value *float64) {
		if value != nil {
			fields[column] = *value
		}
	}

	setString("name", req.Name)
	setString("description", req.Description)
	setString("category", req.Category)
	setString("unit", req.Unit)
	setString("location", req.Location)
	if req.SKU != nil {
		fields["sku"] = models.NormalizeSKU(*req.SKU)
	}
	for _, column := range []string{"name", "sku", "unit"} {
		if v, ok := fields[column]; ok && v == "" {
			return nil, blankField(column)
		}
	}
	setFloat("price", req.Price)
	setFloat("cost", req.Cost)
	setFloat("quantity", req.Quantity)
	setFloat("min_quantity", req.MinQuantity)
	if req.ClearMaxQuantity {
		if req.MaxQuantity != nil {
			return nil, apperrors.Validation("Validation failed", map[string]string{
				"maxQuantity": "cannot be combined with clearMaxQuantity",
			})
		}
		fields["max_quantity"] = nil
	}
	setFloat("max_quantity", req.MaxQuantity)
	if req.Supplier != nil {
		fields["supplier_name"] = strings.TrimSpace(req.Supplier.Name)
		fields["supplier_contact"] = strings.TrimSpace(req.Supplier.Contact)
	}

	if len(fields) == 0 {
		return current, nil
	}

	minQuantity := current.MinQuantity
	if req.MinQuantity != nil {
		minQuantity = *req.MinQuantity
	}
	maxQuantity := current.MaxQuantity
	if req.MaxQuantity != nil || req.ClearMaxQuantity {
		maxQuantity = req.MaxQuantity
	}
	if err := checkQuantityBounds(minQuantity, maxQuantity); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.Conflict(msgDuplicateSKU)
		}
		return nil, err
	}

	s.publish(ctx, models.EventProductUpdated, updated)
	return updated, nil
}

// DeleteProduct soft-deletes a product and returns the now inactive record.
func (s *ProductService) DeleteProduct(ctx context.Context, ownerID, id string) (*models.Product, error) {
	if _, err := s.GetProductByID(ctx, ownerID, id); err != nil {
		return nil, err
	}

	deleted, err := s.repo.Update(ctx, id, map[string]interface{}{"is_active": false})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventProductDeleted, deleted)
	return deleted, nil
}

// AdjustQuantity sets, adds to or subtracts from a product's quantity.
// Subtraction never drops below zero.
func (s *ProductService) AdjustQuantity(ctx context.Context, ownerID, id string, req models.AdjustQuantityRequest) (*models.Product, error) {
	if req.Quantity == nil || *req.Quantity < 0 || math.IsNaN(*req.Quantity) || math.IsInf(*req.Quantity, 0) {
		return nil, apperrors.Validation("Quantity must be a non-negative number", map[string]string{
			"quantity": "must be a non-negative number",
		})
	}

	op := req.Operation
	if op == "" {
		op = models.QuantitySet
	}
	switch op {
	case models.QuantitySet, models.QuantityAdd, models.QuantitySubtract:
	default:
		return nil, apperrors.Validation("Operation must be one of: set, add, subtract", map[string]string{
			"operation": "must be one of: set, add, subtract",
		})
	}

	if _, err := s.GetProductByID(ctx, ownerID, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.AdjustQuantity(ctx, id, *req.Quantity, op)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventProductQuantityAdjusted, updated)
	return updated, nil
}

// Statistics aggregates the owner's active products. It never returns nil
// stats for an owner without products.
func (s *ProductService) Statistics(ctx context.Context, ownerID string) (*InventoryStats, error) {
	totals, categories, err := s.repo.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &InventoryStats{Categories: []repositories.CategoryStats{}}
	if totals != nil {
		stats.ProductStats = *totals
	}
	stats.TotalValue = roundMoney(stats.TotalValue)
	stats.TotalCost = roundMoney(stats.TotalCost)

	for _, c := range categories {
		c.TotalValue = roundMoney(c.TotalValue)
		stats.Categories = append(stats.Categories, c)
	}
	return stats, nil
}

func (s *ProductService) publish(ctx context.Context, eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishProductEvent(ctx, eventType, product)
}

// blankField reports a text field that is empty once trimmed.
func blankField(field string) error {
	return apperrors.Validation("Validation failed", map[string]string{field: "must not be blank"})
}

func checkQuantityBounds(minQuantity float64, maxQuantity *float64) error {
	if maxQuantity != nil && *maxQuantity < minQuantity {
		return apperrors.Validation("Validation failed", map[string]string{
			"maxQuantity": "must be greater than or equal to minQuantity",
		})
	}
	return nil
}

// generateSKU derives a unique SKU such as "GAMING-LAPTOP-1A2B3C4D" from a product name.
func generateSKU(name string) string {
	stem := strings.ToUpper(slug.Make(name))
	if len(stem) > maxSKUStemLen {
		stem = strings.TrimRight(stem[:maxSKUStemLen], "-")
	}
	if stem == "" {
		stem = "SKU"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s", stem, suffix)
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
