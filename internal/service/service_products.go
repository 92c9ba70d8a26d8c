package service

import (
	"context"
	"strings"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/validators"
	"github.com/MKhiriev/go-invoicer/models"
)

type productService struct {
	productRepository store.ProductRepository

	validator validators.Validator

	now    func() time.Time
	logger *logger.Logger
}

func NewProductService(productRepository store.ProductRepository, validator validators.Validator, logger *logger.Logger) ProductService {
	return &productService{
		productRepository: productRepository,
		validator:         validator,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *productService) Create(ctx context.Context, userID int64, product models.Product) (models.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if err := validate(ctx, s.validator, product); err != nil {
		return models.Product{}, err
	}

	now := s.now().UTC()
	product.ID = 0
	product.UserID = userID
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := s.productRepository.CreateProduct(ctx, product)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*productService.Create").Msg("error creating product")
		return models.Product{}, fromStoreError(err)
	}
	return created, nil
}

func (s *productService) Get(ctx context.Context, userID, id int64) (models.Product, error) {
	product, err := s.productRepository.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, fromStoreError(err)
	}
	if product.UserID != userID {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, userID int64) ([]models.Product, error) {
	products, err := s.productRepository.ListProducts(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*productService.List").Msg("error listing products")
		return nil, fromStoreError(err)
	}
	return products, nil
}

func (s *productService) Update(ctx context.Context, userID, id int64, product models.Product) (models.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if err := validate(ctx, s.validator, product); err != nil {
		return models.Product{}, err
	}

	stored, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Product{}, err
	}

	product.ID = stored.ID
	product.UserID = stored.UserID
	product.CreatedAt = stored.CreatedAt
	product.UpdatedAt = s.now().UTC()

	updated, err := s.productRepository.UpdateProduct(ctx, product)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*productService.Update").Int64("product_id", id).Msg("error updating product")
		return models.Product{}, fromStoreError(err)
	}
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.productRepository.DeleteProduct(ctx, id); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*productService.Delete").Int64("product_id", id).Msg("error deleting product")
		return fromStoreError(err)
	}
	return nil
}
