// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package settings

import (
	"context"
	"log/slog"

	"github.com/superdwayne/brandgate/internal/brand"
	"github.com/superdwayne/brandgate/internal/platform/validate"
	"github.com/superdwayne/brandgate/pkg/uuid"
)

// Service applies brand-scoping and validation rules in front of the
// repository.
type Service struct {
	repo     Repository
	registry *brand.Registry
	logger   *slog.Logger
}

// NewService constructs a new settings [Service].
func NewService(repo Repository, registry *brand.Registry, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		logger:   logger,
	}
}

// ListSettings returns all settings for a registered brand.
func (service *Service) ListSettings(ctx context.Context, brandID string) ([]*BrandSetting, error) {
	if _, err := service.registry.Get(brandID); err != nil {
		return nil, err
	}
	return service.repo.ListSettings(ctx, brandID)
}

// GetSetting returns one setting for a registered brand.
func (service *Service) GetSetting(ctx context.Context, brandID, key string) (*BrandSetting, error) {
	if _, err := service.registry.Get(brandID); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return service.repo.GetSetting(ctx, brandID, key)
}

/*
UpsertSetting creates or replaces a setting for a registered brand.

Description: The brand must exist in the registry; settings for unregistered
brands would be unreachable garbage. updatedBy records the acting principal
for auditability and may be empty for system writes.

Parameters:
  - ctx: context.Context
  - brandID: string
  - key: string
  - value: string
  - updatedBy: string

Returns:
  - *BrandSetting: Stored row with timestamps
  - error: UNKNOWN_BRAND, VALIDATION_ERROR, or persistence errors
*/
func (service *Service) UpsertSetting(ctx context.Context, brandID, key, value, updatedBy string) (*BrandSetting, error) {

	if _, err := service.registry.Get(brandID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldKey, key).
		MaxLen(FieldKey, key, KeyMaxLen).
		MaxLen(FieldValue, value, ValueMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	setting := &BrandSetting{
		ID:        uuid.New(),
		BrandID:   brandID,
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
	}

	stored, err := service.repo.UpsertSetting(ctx, setting)
	if err != nil {
		return nil, err
	}

	service.logger.Info("brand_setting_upserted",
		slog.String("brand", brandID),
		slog.String("key", key),
		slog.String("updated_by", updatedBy),
	)

	return stored, nil
}

// DeleteSetting removes a setting for a registered brand.
func (service *Service) DeleteSetting(ctx context.Context, brandID, key string) error {
	if _, err := service.registry.Get(brandID); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if err := service.repo.DeleteSetting(ctx, brandID, key); err != nil {
		return err
	}

	service.logger.Info("brand_setting_deleted",
		slog.String("brand", brandID),
		slog.String("key", key),
	)

	return nil
}

func validateKey(key string) error {
	validator := &validate.Validator{}
	validator.Required(FieldKey, key).MaxLen(FieldKey, key, KeyMaxLen)
	return validator.Err()
}
