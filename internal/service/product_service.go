package service

import (
	"context"
	"database/sql"
	"errors"

	"storefront-service/internal/entity"
)

type ProductRepo interface {
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	GetProductByID(ctx context.Context, id int64) (*entity.Product, error)
	ListProducts(ctx context.Context) ([]entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductService struct {
	productRepo ProductRepo
}

func NewProductService(productRepo ProductRepo) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	createdProduct, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	return createdProduct, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.ListProducts(ctx)
}

// ProductPatch carries a partial product edit. Nil fields are left as they
// are, so a price-only patch cannot blank the name or image.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, patch *ProductPatch) (*entity.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}

	updatedProduct, err := s.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error updating product %d", id)
		return nil, err
	}
	return updatedProduct, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	err := s.productRepo.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error deleting product %d", id)
		return err
	}
	return nil
}
