// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

/*
Package brand implements the tenant registry for the Brandgate platform.

Each brand is an isolated backend project with its own endpoint, publishable
key, and set of corporate email domains. The registry is fixed at deploy time,
validated at boot, and shared read-only by every component.

# Architecture

This layer is the "Truth" for tenancy. Brand resolution — mapping an email
address to exactly one brand — lives here because the domain table is the
registry's data. Nothing in this package performs I/O after load time.
*/
package brand

import "strings"

// # Domain Entities

// BrandConfig is the immutable per-tenant record.
//
// Instances are created once at process start from the registry file and must
// never be mutated afterwards; every component shares the same copies.
type BrandConfig struct {
	// ID is the unique brand identifier (registry key, e.g. "acme").
	ID string `yaml:"id" json:"id"`

	// DisplayName is the human-facing brand name.
	DisplayName string `yaml:"display_name" json:"display_name"`

	// Endpoint is the base URL of the brand's backend project.
	Endpoint string `yaml:"endpoint" json:"-"`

	// AnonKey is the brand backend's publishable (anon) credential.
	// Excluded from JSON: the public listing endpoint exposes identity
	// fields only.
	AnonKey string `yaml:"anon_key" json:"-"`

	// AllowedEmailDomains is the set of corporate domains whose users belong
	// to this brand. Matching is case-insensitive and exact (no subdomains).
	AllowedEmailDomains []string `yaml:"allowed_email_domains" json:"allowed_email_domains"`

	// Features toggles optional brand capabilities.
	Features map[string]bool `yaml:"features" json:"features,omitempty"`

	// Schema is the backend namespace discriminator used by the brand's
	// storage layer.
	Schema string `yaml:"schema" json:"-"`
}

// HasFeature reports whether the brand enables the named feature flag.
func (b *BrandConfig) HasFeature(name string) bool {
	return b.Features[name]
}

// # Field Identifiers

// Global field names for validation and identity mapping in the brand domain.
const (
	FieldBrandID = "brand_id"
	FieldEmail   = "email"
)

// EmailDomain extracts the lowercase domain part of an email address
// (the substring after the final '@').
//
// Returns the empty string when the value carries no usable domain; callers
// treat that as "no brand claims this address".
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
