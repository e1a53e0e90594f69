// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

/*
Package settings manages per-brand operational settings.

Settings are server-side key/value pairs scoped to a registered brand
(feature toggles, support contacts, UI defaults). They complement the static
brand registry: the registry is immutable per deployment, settings change at
runtime and persist in PostgreSQL.
*/
package settings

import (
	"context"
	"time"
)

// BrandSetting is one key/value pair scoped to a brand.
type BrandSetting struct {
	ID        string    `json:"id"`
	BrandID   string    `json:"brand_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository is the persistence boundary for brand settings.
type Repository interface {
	ListSettings(ctx context.Context, brandID string) ([]*BrandSetting, error)
	GetSetting(ctx context.Context, brandID, key string) (*BrandSetting, error)
	UpsertSetting(ctx context.Context, setting *BrandSetting) (*BrandSetting, error)
	DeleteSetting(ctx context.Context, brandID, key string) error
}

// Field identifiers for validation and payload mapping.
const (
	FieldKey   = "key"
	FieldValue = "value"

	KeyMaxLen   = 128
	ValueMaxLen = 8192
)
