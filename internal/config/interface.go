package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the file at path and returns it layered over Default().
	Load(ctx context.Context, path string) (*Model, error)
}

// Loaders dispatches to a Loader by file extension (".hcl", ".yaml", ...).
type Loaders map[string]Loader

// Load implements Loader. An empty path yields the defaults.
func (l Loaders) Load(ctx context.Context, path string) (*Model, error) {
	if path == "" {
		return Default(), nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := l[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported configuration format %q for %s", ext, path)
	}
	return loader.Load(ctx, path)
}
