package usecase

import (
	"context"
	"time"

	"github.com/sambhav/earnings/internal/domain"
)

// ProductUseCase handles the product catalog.
type ProductUseCase struct {
	productRepo ProductRepository
	idGen       IDGenerator
}

// NewProductUseCase creates a new ProductUseCase.
func NewProductUseCase(productRepo ProductRepository, idGen IDGenerator) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		idGen:       idGen,
	}
}

// CreateProductInput represents input for creating a product.
type CreateProductInput struct {
	Name       string
	Kind       domain.ProductKind
	Commission domain.CommissionScheme
}

// CreateProduct creates an active catalog product.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidOperation
	}
	if err := input.Commission.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:         uc.idGen.Generate(),
		Name:       input.Name,
		Kind:       input.Kind,
		Commission: input.Commission,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

// ListProductsInput represents input for listing products.
type ListProductsInput struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListProducts lists catalog products.
func (uc *ProductUseCase) ListProducts(ctx context.Context, input ListProductsInput) ([]*domain.Product, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.productRepo.List(ctx, input.ActiveOnly, limit, offset)
}
