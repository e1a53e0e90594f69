// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package settings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/superdwayne/brandgate/internal/platform/database/schema"
	"github.com/superdwayne/brandgate/internal/platform/dberr"
)

// PostgresRepository implements Repository on pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres-backed settings repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListSettings(ctx context.Context, brandID string) ([]*BrandSetting, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC;
	`,
		schema.BrandSetting.ID,
		schema.BrandSetting.BrandID,
		schema.BrandSetting.Key,
		schema.BrandSetting.Value,
		schema.BrandSetting.UpdatedBy,
		schema.BrandSetting.CreatedAt,
		schema.BrandSetting.UpdatedAt,
		schema.BrandSetting.Table,
		schema.BrandSetting.BrandID,
		schema.BrandSetting.Key,
	)

	rows, err := repository.db.Query(ctx, query, brandID)
	if err != nil {
		return nil, dberr.Wrap(err, "Setting")
	}
	defer rows.Close()

	var items []*BrandSetting
	for rows.Next() {
		s := &BrandSetting{}
		if err := rows.Scan(&s.ID, &s.BrandID, &s.Key, &s.Value, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "Setting")
		}
		items = append(items, s)
	}

	return items, nil
}

func (repository *PostgresRepository) GetSetting(ctx context.Context, brandID, key string) (*BrandSetting, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2;
	`,
		schema.BrandSetting.ID,
		schema.BrandSetting.BrandID,
		schema.BrandSetting.Key,
		schema.BrandSetting.Value,
		schema.BrandSetting.UpdatedBy,
		schema.BrandSetting.CreatedAt,
		schema.BrandSetting.UpdatedAt,
		schema.BrandSetting.Table,
		schema.BrandSetting.BrandID,
		schema.BrandSetting.Key,
	)

	s := &BrandSetting{}
	err := repository.db.QueryRow(ctx, query, brandID, key).
		Scan(&s.ID, &s.BrandID, &s.Key, &s.Value, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Setting")
	}

	return s, nil
}

func (repository *PostgresRepository) UpsertSetting(ctx context.Context, setting *BrandSetting) (*BrandSetting, error) {
	// ON CONFLICT keeps the original row id and createdat; only value and
	// audit fields move.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s,
		    %s = EXCLUDED.%s,
		    %s = now()
		RETURNING %s, %s, %s, %s, %s, %s, %s;
	`,
		schema.BrandSetting.Table,
		schema.BrandSetting.ID,
		schema.BrandSetting.BrandID,
		schema.BrandSetting.Key,
		schema.BrandSetting.Value,
		schema.BrandSetting.UpdatedBy,
		schema.BrandSetting.BrandID,
		schema.BrandSetting.Key,
		schema.BrandSetting.Value,
		schema.BrandSetting.Value,
		schema.BrandSetting.UpdatedBy,
		schema.BrandSetting.UpdatedBy,
		schema.BrandSetting.UpdatedAt,
		schema.BrandSetting.ID,
		schema.BrandSetting.BrandID,
		schema.BrandSetting.Key,
		schema.BrandSetting.Value,
		schema.BrandSetting.UpdatedBy,
		schema.BrandSetting.CreatedAt,
		schema.BrandSetting.UpdatedAt,
	)

	stored := &BrandSetting{}
	err := repository.db.QueryRow(ctx, query,
		setting.ID, setting.BrandID, setting.Key, setting.Value, setting.UpdatedBy,
	).Scan(&stored.ID, &stored.BrandID, &stored.Key, &stored.Value, &stored.UpdatedBy, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Setting")
	}

	return stored, nil
}

func (repository *PostgresRepository) DeleteSetting(ctx context.Context, brandID, key string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND %s = $2;
	`,
		schema.BrandSetting.Table,
		schema.BrandSetting.BrandID,
		schema.BrandSetting.Key,
	)

	tag, err := repository.db.Exec(ctx, query, brandID, key)
	if err != nil {
		return dberr.Wrap(err, "Setting")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Setting")
	}

	return nil
}
