package models

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /auth/profile. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30,username"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
}

// CreateProductRequest is the body of POST /products. A blank sku is generated from the name.
type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,notblank,max=100"`
	Description string    `json:"description" validate:"max=500"`
	SKU         string    `json:"sku" validate:"max=64"`
	Category    string    `json:"category" validate:"max=50"`
	Price       *float64  `json:"price" validate:"required,gte=0"`
	Cost        *float64  `json:"cost" validate:"omitempty,gte=0"`
	Quantity    *float64  `json:"quantity" validate:"required,gte=0"`
	MinQuantity *float64  `json:"minQuantity" validate:"omitempty,gte=0"`
	MaxQuantity *float64  `json:"maxQuantity" validate:"omitempty,gte=0"`
	Unit        string    `json:"unit" validate:"max=20"`
	Supplier    *Supplier `json:"supplier"`
	Location    string    `json:"location" validate:"max=100"`
}

// UpdateProductRequest is the body of PUT /products/:id. Nil fields are left unchanged,
// so a JSON null maxQuantity keeps the current bound; ClearMaxQuantity removes it.
type UpdateProductRequest struct {
	Name             *string   `json:"name" validate:"omitempty,notblank,max=100"`
	Description      *string   `json:"description" validate:"omitempty,max=500"`
	SKU              *string   `json:"sku" validate:"omitempty,notblank,max=64"`
	Category         *string   `json:"category" validate:"omitempty,max=50"`
	Price            *float64  `json:"price" validate:"omitempty,gte=0"`
	Cost             *float64  `json:"cost" validate:"omitempty,gte=0"`
	Quantity         *float64  `json:"quantity" validate:"omitempty,gte=0"`
	MinQuantity      *float64  `json:"minQuantity" validate:"omitempty,gte=0"`
	MaxQuantity      *float64  `json:"maxQuantity" validate:"omitempty,gte=0"`
	ClearMaxQuantity bool      `json:"clearMaxQuantity"`
	Unit             *string   `json:"unit" validate:"omitempty,notblank,max=20"`
	Supplier         *Supplier `json:"supplier"`
	Location         *string   `json:"location" validate:"omitempty,max=100"`
}

// AdjustQuantityRequest is the body of PATCH /products/:id/quantity.
type AdjustQuantityRequest struct {
	Quantity  *float64          `json:"quantity" validate:"required,gte=0"`
	Operation QuantityOperation `json:"operation" validate:"omitempty,oneof=set add subtract"`
}

// ListProductsQuery is the query string of GET /products.
type ListProductsQuery struct {
	Page        int      `query:"page" validate:"omitempty,gte=1,lte=1000000"`
	Limit       int      `query:"limit" validate:"omitempty,gte=1"`
	Category    string   `query:"category"`
	Search      string   `query:"search"`
	MinPrice    *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice    *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	StockStatus string   `query:"stockStatus" validate:"omitempty,oneof=in-stock low-stock out-of-stock"`
	SortBy      string   `query:"sortBy" validate:"omitempty,oneof=createdAt updatedAt name price quantity category sku"`
	SortOrder   string   `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}
