package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

type productRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewProductRepository(db *DB, logger *logger.Logger) ProductRepository {
	logger.Debug().Msg("creating product repository")
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	query, args, err := r.db.builder.
		Insert("products").
		Columns(productColumns[1:]...).
		Values(product.UserID, product.Name, product.Description, product.UnitPrice, product.CreatedAt, product.UpdatedAt).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*productRepository.CreateProduct").Msg("error inserting product")
		return models.Product{}, r.db.classify(err, ErrExecutingQuery)
	}

	return created, nil
}

func (r *productRepository) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	query, args, err := r.db.builder.Select(productColumns...).From("products").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = r.db.classify(err, ErrScanningRow)
		if !errors.Is(err, ErrNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*productRepository.GetProduct").Msg("error selecting product")
		}
		return models.Product{}, err
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	query, args, err := r.db.builder.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*productRepository.ListProducts").Msg("error selecting products")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	query, args, err := r.db.builder.
		Update("products").
		SetMap(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"unit_price":  product.UnitPrice,
			"updated_at":  product.UpdatedAt,
		}).
		Where(sq.Eq{"id": product.ID}).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = r.db.classify(err, ErrExecutingQuery)
		if !errors.Is(err, ErrNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*productRepository.UpdateProduct").Msg("error updating product")
		}
		return models.Product{}, err
	}

	return updated, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	query, args, err := r.db.builder.Delete("products").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return execAffectingOne(ctx, r.db, "*productRepository.DeleteProduct", query, args)
}
