package repositories_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gudang/internal/database"
	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func floatPtr(f float64) *float64 { return &f }

func seedProducts(t *testing.T, repo *repositories.GORMProductRepository, products ...*models.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, repo.Create(context.Background(), p))
	}
}

func TestGORMProductRepository_CreateAndGet(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	ctx := context.Background()

	p := &models.Product{Name: "Laptop", SKU: " lap-01 ", Price: 999.99, Quantity: 10, IsActive: true, CreatedBy: "owner-a"}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "LAP-01", p.SKU)
	assert.Equal(t, models.DefaultUnit, p.Unit)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Name)
	assert.True(t, got.IsActive)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, repositories.ErrRecordNotFound))
}

func TestGORMProductRepository_DuplicateSKU(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	ctx := context.Background()

	seedProducts(t, repo, &models.Product{Name: "A", SKU: "DUP-1", IsActive: true, CreatedBy: "owner-a"})

	err := repo.Create(ctx, &models.Product{Name: "B", SKU: "dup-1", IsActive: true, CreatedBy: "owner-b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrDuplicateKey))
}

func TestGORMProductRepository_List(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	ctx := context.Background()

	seedProducts(t, repo,
		&models.Product{Name: "Gaming Laptop", SKU: "LAP-1", Category: "Electronics", Price: 1500, Quantity: 4, MinQuantity: 5, IsActive: true, CreatedBy: "owner-a"},
		&models.Product{Name: "Office Chair", SKU: "CHR-1", Category: "Furniture", Price: 200, Quantity: 0, IsActive: true, CreatedBy: "owner-a"},
		&models.Product{Name: "Desk", SKU: "DSK-1", Description: "standing desk for laptops", Category: "Furniture", Price: 450, Quantity: 12, MinQuantity: 2, IsActive: true, CreatedBy: "owner-a"},
		&models.Product{Name: "Monitor", SKU: "MON-1", Category: "electronics", Price: 300, Quantity: 7, IsActive: true, CreatedBy: "owner-b"},
	)
	// soft deleted rows never show up in listings
	hidden := &models.Product{Name: "Old Laptop", SKU: "LAP-0", Category: "Electronics", Price: 100, Quantity: 1, IsActive: true, CreatedBy: "owner-a"}
	seedProducts(t, repo, hidden)
	_, err := repo.Update(ctx, hidden.ID, map[string]interface{}{"is_active": false})
	require.NoError(t, err)

	tests := []struct {
		name      string
		filter    repositories.ProductFilter
		wantNames []string
		wantTotal int64
	}{
		{
			name:      "owner scope sorted by name",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", SortColumn: "name", Limit: 10},
			wantNames: []string{"Desk", "Gaming Laptop", "Office Chair"},
			wantTotal: 3,
		},
		{
			name:      "category is case insensitive substring",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", Category: "FURN", SortColumn: "price", Limit: 10},
			wantNames: []string{"Office Chair", "Desk"},
			wantTotal: 2,
		},
		{
			name:      "search matches name or description",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", Search: "laptop", SortColumn: "name", Limit: 10},
			wantNames: []string{"Desk", "Gaming Laptop"},
			wantTotal: 2,
		},
		{
			name:      "search matches sku",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", Search: "chr", Limit: 10},
			wantNames: []string{"Office Chair"},
			wantTotal: 1,
		},
		{
			name:      "price range inclusive",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", MinPrice: floatPtr(200), MaxPrice: floatPtr(450), SortColumn: "price", Limit: 10},
			wantNames: []string{"Office Chair", "Desk"},
			wantTotal: 2,
		},
		{
			name:      "in stock",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", StockStatus: models.StockStatusInStock, SortColumn: "name", Limit: 10},
			wantNames: []string{"Desk", "Gaming Laptop"},
			wantTotal: 2,
		},
		{
			name:      "out of stock",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", StockStatus: models.StockStatusOutOfStock, Limit: 10},
			wantNames: []string{"Office Chair"},
			wantTotal: 1,
		},
		{
			name:      "low stock",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", StockStatus: models.StockStatusLowStock, SortColumn: "name", Limit: 10},
			wantNames: []string{"Gaming Laptop", "Office Chair"},
			wantTotal: 2,
		},
		{
			name:      "pagination keeps the full total",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", SortColumn: "price", SortDesc: true, Offset: 1, Limit: 1},
			wantNames: []string{"Desk"},
			wantTotal: 3,
		},
		{
			name:      "like wildcards are literal",
			filter:    repositories.ProductFilter{OwnerID: "owner-a", Search: "%", Limit: 10},
			wantNames: []string{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestGORMProductRepository_UpdateMissing(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))

	_, err := repo.Update(context.Background(), "missing", map[string]interface{}{"name": "x"})
	assert.True(t, errors.Is(err, repositories.ErrRecordNotFound))
}

func TestGORMProductRepository_AdjustQuantity(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	ctx := context.Background()

	p := &models.Product{Name: "Bolt", SKU: "BLT-1", Quantity: 10, IsActive: true, CreatedBy: "owner-a"}
	seedProducts(t, repo, p)

	got, err := repo.AdjustQuantity(ctx, p.ID, 5, models.QuantityAdd)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Quantity)

	got, err = repo.AdjustQuantity(ctx, p.ID, 20, models.QuantitySubtract)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Quantity)

	got, err = repo.AdjustQuantity(ctx, p.ID, 7, models.QuantitySet)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.Quantity)

	got, err = repo.AdjustQuantity(ctx, p.ID, 2, models.QuantitySubtract)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Quantity)

	_, err = repo.AdjustQuantity(ctx, p.ID, 1, models.QuantityOperation("multiply"))
	assert.Error(t, err)
}

func TestGORMProductRepository_AdjustQuantityConcurrent(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	ctx := context.Background()

	p := &models.Product{Name: "Nut", SKU: "NUT-1", Quantity: 0, IsActive: true, CreatedBy: "owner-a"}
	seedProducts(t, repo, p)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustQuantity(ctx, p.ID, 1, models.QuantityAdd)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Quantity)
}

func TestGORMProductRepository_Stats(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	ctx := context.Background()

	stats, categories, err := repo.Stats(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, repositories.ProductStats{}, *stats)
	assert.Empty(t, categories)

	seedProducts(t, repo,
		&models.Product{Name: "A", SKU: "A-1", Category: "Tools", Price: 10, Cost: 4, Quantity: 3, IsActive: true, CreatedBy: "owner-a"},
		&models.Product{Name: "B", SKU: "B-1", Category: "Tools", Price: 5, Cost: 2, Quantity: 0, IsActive: true, CreatedBy: "owner-a"},
		&models.Product{Name: "C", SKU: "C-1", Category: "Paint", Price: 20, Cost: 10, Quantity: 2, MinQuantity: 2, IsActive: true, CreatedBy: "owner-a"},
		&models.Product{Name: "D", SKU: "D-1", Category: "Paint", Price: 99, Quantity: 99, IsActive: true, CreatedBy: "owner-b"},
	)

	stats, categories, err = repo.Stats(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.InDelta(t, 70.0, stats.TotalValue, 1e-9)
	assert.InDelta(t, 32.0, stats.TotalCost, 1e-9)
	assert.Equal(t, int64(2), stats.LowStockCount)
	assert.Equal(t, int64(1), stats.OutOfStockCount)

	require.Len(t, categories, 2)
	assert.Equal(t, "Tools", categories[0].Category)
	assert.Equal(t, int64(2), categories[0].Count)
	assert.InDelta(t, 30.0, categories[0].TotalValue, 1e-9)
	assert.Equal(t, "Paint", categories[1].Category)
	assert.Equal(t, int64(1), categories[1].Count)
}
