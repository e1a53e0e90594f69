// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package settings_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdwayne/brandgate/internal/brand"
	"github.com/superdwayne/brandgate/internal/platform/apperr"
	"github.com/superdwayne/brandgate/internal/settings"
)

// fakeRepository is an in-memory Repository keyed by brand/key.
type fakeRepository struct {
	rows map[string]*settings.BrandSetting
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{rows: make(map[string]*settings.BrandSetting)}
}

func (r *fakeRepository) rowKey(brandID, key string) string { return brandID + "/" + key }

func (r *fakeRepository) ListSettings(_ context.Context, brandID string) ([]*settings.BrandSetting, error) {
	var items []*settings.BrandSetting
	for _, row := range r.rows {
		if row.BrandID == brandID {
			items = append(items, row)
		}
	}
	return items, nil
}

func (r *fakeRepository) GetSetting(_ context.Context, brandID, key string) (*settings.BrandSetting, error) {
	row, ok := r.rows[r.rowKey(brandID, key)]
	if !ok {
		return nil, apperr.NotFound("Setting")
	}
	return row, nil
}

func (r *fakeRepository) UpsertSetting(_ context.Context, setting *settings.BrandSetting) (*settings.BrandSetting, error) {
	stored := *setting
	now := time.Now()
	if existing, ok := r.rows[r.rowKey(setting.BrandID, setting.Key)]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.rows[r.rowKey(setting.BrandID, setting.Key)] = &stored
	return &stored, nil
}

func (r *fakeRepository) DeleteSetting(_ context.Context, brandID, key string) error {
	if _, ok := r.rows[r.rowKey(brandID, key)]; !ok {
		return apperr.NotFound("Setting")
	}
	delete(r.rows, r.rowKey(brandID, key))
	return nil
}

func newTestService(t *testing.T) (*settings.Service, *fakeRepository) {
	t.Helper()

	registry, err := brand.NewRegistry([]brand.BrandConfig{{
		ID:                  "acme",
		DisplayName:         "Acme Corp",
		Endpoint:            "https://acme.example.test",
		AnonKey:             "acme-anon-key",
		AllowedEmailDomains: []string{"acme.com"},
	}})
	require.NoError(t, err)

	repo := newFakeRepository()
	return settings.NewService(repo, registry, slog.New(slog.DiscardHandler)), repo
}

/*
TestService_UpsertSetting covers brand scoping, validation, and the
create-then-update path.
*/
func TestService_UpsertSetting(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	t.Run("unknown_brand", func(t *testing.T) {
		_, err := service.UpsertSetting(ctx, "initech", "support_email", "help@initech.com", "admin@acme.com")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "UNKNOWN_BRAND"))
	})

	t.Run("empty_key", func(t *testing.T) {
		_, err := service.UpsertSetting(ctx, "acme", "", "x", "admin@acme.com")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("oversized_key", func(t *testing.T) {
		_, err := service.UpsertSetting(ctx, "acme", strings.Repeat("k", settings.KeyMaxLen+1), "x", "admin@acme.com")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("create_then_update", func(t *testing.T) {
		created, err := service.UpsertSetting(ctx, "acme", "support_email", "help@acme.com", "admin@acme.com")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "help@acme.com", created.Value)

		updated, err := service.UpsertSetting(ctx, "acme", "support_email", "support@acme.com", "ops@acme.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID, "upsert must keep the original row identity")
		assert.Equal(t, "support@acme.com", updated.Value)
		assert.Equal(t, "ops@acme.com", updated.UpdatedBy)
	})
}

/*
TestService_GetSetting covers lookup and the not-found path.
*/
func TestService_GetSetting(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.UpsertSetting(ctx, "acme", "theme", "dark", "admin@acme.com")
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		setting, err := service.GetSetting(ctx, "acme", "theme")

		require.NoError(t, err)
		assert.Equal(t, "dark", setting.Value)
	})

	t.Run("missing_key", func(t *testing.T) {
		_, err := service.GetSetting(ctx, "acme", "nonexistent")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("unknown_brand", func(t *testing.T) {
		_, err := service.GetSetting(ctx, "initech", "theme")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "UNKNOWN_BRAND"))
	})
}

/*
TestService_DeleteSetting covers removal and brand scoping.
*/
func TestService_DeleteSetting(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	_, err := service.UpsertSetting(ctx, "acme", "theme", "dark", "admin@acme.com")
	require.NoError(t, err)

	require.NoError(t, service.DeleteSetting(ctx, "acme", "theme"))
	assert.Empty(t, repo.rows)

	err = service.DeleteSetting(ctx, "acme", "theme")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

/*
TestService_ListSettings covers per-brand isolation.
*/
func TestService_ListSettings(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.UpsertSetting(ctx, "acme", "theme", "dark", "admin@acme.com")
	require.NoError(t, err)
	_, err = service.UpsertSetting(ctx, "acme", "support_email", "help@acme.com", "admin@acme.com")
	require.NoError(t, err)

	items, err := service.ListSettings(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = service.ListSettings(ctx, "initech")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UNKNOWN_BRAND"))
}
