// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package brand

import (
	"fmt"
	"strings"

	"github.com/superdwayne/brandgate/internal/platform/apperr"
)

// # Registry

// Registry is the static, ordered collection of registered brands.
//
// # Concurrency
//
// Registry is immutable after construction and safe for unrestricted
// concurrent reads. It performs no I/O.
type Registry struct {
	brands []BrandConfig
	byID   map[string]int
}

// NewRegistry builds a [Registry] from the given configs, preserving their
// order, and validates the whole table.
//
// # Boot Validation
//
// Misconfiguration (duplicate ids, shared domains, missing connection data)
// is a deploy-time error: the constructor rejects it so the degenerate
// "two brands claim one domain" case can never be hit at lookup time.
func NewRegistry(configs []BrandConfig) (*Registry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("brand: registry is empty")
	}

	registry := &Registry{
		brands: make([]BrandConfig, len(configs)),
		byID:   make(map[string]int, len(configs)),
	}
	copy(registry.brands, configs)

	domainOwner := make(map[string]string)

	for i := range registry.brands {
		b := &registry.brands[i]

		if b.ID == "" {
			return nil, fmt.Errorf("brand: entry %d has no id", i)
		}
		if _, dup := registry.byID[b.ID]; dup {
			return nil, fmt.Errorf("brand: duplicate brand id %q", b.ID)
		}
		if b.Endpoint == "" {
			return nil, fmt.Errorf("brand: %q has no endpoint", b.ID)
		}
		if b.AnonKey == "" {
			return nil, fmt.Errorf("brand: %q has no anon key", b.ID)
		}
		if len(b.AllowedEmailDomains) == 0 {
			return nil, fmt.Errorf("brand: %q claims no email domains", b.ID)
		}

		for _, domain := range b.AllowedEmailDomains {
			normalized := normalizeDomain(domain)
			if normalized == "" {
				return nil, fmt.Errorf("brand: %q has an empty email domain entry", b.ID)
			}
			if owner, claimed := domainOwner[normalized]; claimed && owner != b.ID {
				return nil, fmt.Errorf("brand: domain %q claimed by both %q and %q", normalized, owner, b.ID)
			}
			domainOwner[normalized] = b.ID
		}

		registry.byID[b.ID] = i
	}

	return registry, nil
}

// Get returns the brand configuration registered under id.
//
// Returns:
//   - *BrandConfig: Shared read-only record
//   - error: apperr UNKNOWN_BRAND when the id is not registered
func (r *Registry) Get(id string) (*BrandConfig, error) {
	index, found := r.byID[id]
	if !found {
		return nil, apperr.UnknownBrand(id)
	}
	return &r.brands[index], nil
}

// Has reports whether the given brand id is registered.
func (r *Registry) Has(id string) bool {
	_, found := r.byID[id]
	return found
}

// List returns all registered brands in stable registration order.
func (r *Registry) List() []BrandConfig {
	out := make([]BrandConfig, len(r.brands))
	copy(out, r.brands)
	return out
}

// # Email Resolution

// FromEmail resolves an email address to the brand whose allow-list contains
// its domain.
//
// Description: Scans brands in registration order for an exact
// case-insensitive match of the email's domain. Registration order is the
// tie-break for a (boot-rejected) duplicate-domain table, so the first match
// is simply THE match.
//
// Returns:
//   - string: Brand id
//   - bool: false when no brand claims the domain
func (r *Registry) FromEmail(email string) (string, bool) {
	domain := EmailDomain(email)
	if domain == "" {
		return "", false
	}

	for i := range r.brands {
		for _, allowed := range r.brands[i].AllowedEmailDomains {
			if normalizeDomain(allowed) == domain {
				return r.brands[i].ID, true
			}
		}
	}

	return "", false
}

// IsEmailDomainAllowed reports whether the email's domain is claimed by ANY
// registered brand.
//
// Invariant: IsEmailDomainAllowed(e) == (FromEmail(e) resolved) for every e.
func (r *Registry) IsEmailDomainAllowed(email string) bool {
	_, found := r.FromEmail(email)
	return found
}

// Resolve maps an email address to its brand configuration.
//
// The email domain is always authoritative: callers that hold a brand id hint
// must still go through Resolve for anything security-relevant.
//
// Returns:
//   - *BrandConfig: The owning brand
//   - error: apperr INVALID_EMAIL_DOMAIN when no brand claims the domain
func (r *Registry) Resolve(email string) (*BrandConfig, error) {
	id, found := r.FromEmail(email)
	if !found {
		return nil, apperr.InvalidEmailDomain()
	}
	return &r.brands[r.byID[id]], nil
}

// normalizeDomain lowercases and trims a configured domain entry.
func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
