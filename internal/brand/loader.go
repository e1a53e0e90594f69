// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package brand

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// registryFile mirrors the on-disk YAML layout of the brand registry.
type registryFile struct {
	Brands []BrandConfig `yaml:"brands"`
}

/*
LoadFromFile reads and validates the brand registry from a YAML file.

Description: The registry file is part of the deploy artifact, not runtime
state — it is read exactly once during startup and any defect aborts boot.

Parameters:
  - path: Filesystem path to the registry YAML

Returns:
  - *Registry: Validated, immutable registry
  - error: Read, parse, or validation failures
*/
func LoadFromFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("brand: failed to read registry file %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("brand: failed to parse registry file %s: %w", path, err)
	}

	registry, err := NewRegistry(file.Brands)
	if err != nil {
		return nil, fmt.Errorf("brand: registry file %s is invalid: %w", path, err)
	}

	return registry, nil
}
