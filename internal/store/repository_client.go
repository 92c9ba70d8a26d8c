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

type clientRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewClientRepository(db *DB, logger *logger.Logger) ClientRepository {
	logger.Debug().Msg("creating client repository")
	return &clientRepository{
		db:     db,
		logger: logger,
	}
}

func (r *clientRepository) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	query, args, err := r.db.builder.
		Insert("clients").
		Columns(clientColumns[1:]...).
		Values(client.UserID, client.Name, client.Email, client.Phone, client.Company, client.Address,
			client.City, client.State, client.PostalCode, client.Country, client.CreatedAt, client.UpdatedAt).
		Suffix("RETURNING " + strings.Join(clientColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Client{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanClient(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*clientRepository.CreateClient").Msg("error inserting client")
		return models.Client{}, r.db.classify(err, ErrExecutingQuery)
	}

	return created, nil
}

func (r *clientRepository) GetClient(ctx context.Context, id int64) (models.Client, error) {
	query, args, err := r.db.builder.Select(clientColumns...).From("clients").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Client{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	client, err := scanClient(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = r.db.classify(err, ErrScanningRow)
		if !errors.Is(err, ErrNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*clientRepository.GetClient").Msg("error selecting client")
		}
		return models.Client{}, err
	}

	return client, nil
}

func (r *clientRepository) ListClients(ctx context.Context, userID int64) ([]models.Client, error) {
	query, args, err := r.db.builder.
		Select(clientColumns...).
		From("clients").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*clientRepository.ListClients").Msg("error selecting clients")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	clients := make([]models.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return clients, nil
}

func (r *clientRepository) UpdateClient(ctx context.Context, client models.Client) (models.Client, error) {
	query, args, err := r.db.builder.
		Update("clients").
		SetMap(map[string]any{
			"name":        client.Name,
			"email":       client.Email,
			"phone":       client.Phone,
			"company":     client.Company,
			"address":     client.Address,
			"city":        client.City,
			"state":       client.State,
			"postal_code": client.PostalCode,
			"country":     client.Country,
			"updated_at":  client.UpdatedAt,
		}).
		Where(sq.Eq{"id": client.ID}).
		Suffix("RETURNING " + strings.Join(clientColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Client{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanClient(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = r.db.classify(err, ErrExecutingQuery)
		if !errors.Is(err, ErrNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*clientRepository.UpdateClient").Msg("error updating client")
		}
		return models.Client{}, err
	}

	return updated, nil
}

func (r *clientRepository) DeleteClient(ctx context.Context, id int64) error {
	query, args, err := r.db.builder.Delete("clients").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return execAffectingOne(ctx, r.db, "*clientRepository.DeleteClient", query, args)
}
