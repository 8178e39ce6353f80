package services_test

import (
	"context"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	return m.user(m.Called(ctx, id, fields))
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(ctx, filter)
	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Product, error) {
	return m.product(m.Called(ctx, id, fields))
}

func (m *MockProductRepository) AdjustQuantity(ctx context.Context, id string, amount float64, op models.QuantityOperation) (*models.Product, error) {
	return m.product(m.Called(ctx, id, amount, op))
}

func (m *MockProductRepository) Stats(ctx context.Context, ownerID string) (*repositories.ProductStats, []repositories.CategoryStats, error) {
	args := m.Called(ctx, ownerID)
	var stats *repositories.ProductStats
	if args.Get(0) != nil {
		stats = args.Get(0).(*repositories.ProductStats)
	}
	var categories []repositories.CategoryStats
	if args.Get(1) != nil {
		categories = args.Get(1).([]repositories.CategoryStats)
	}
	return stats, categories, args.Error(2)
}

func (m *MockProductRepository) product(args mock.Arguments) (*models.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

// MockPublisher records published product events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProductEvent(ctx context.Context, eventType string, product *models.Product) {
	m.Called(ctx, eventType, product)
}
