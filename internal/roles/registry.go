package roles

import (
	"sync"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Provider resolves role names for the analysis service.
type Provider interface {
	Lookup(category, name string) (types.RoleDescriptor, error)
	List(category string) []types.RoleDescriptor
	Categories() []string
}

// Registry serves the current catalog and swaps it atomically on reload.
// Readers never observe a half-loaded catalog.
type Registry struct {
	mu      sync.RWMutex
	catalog *Catalog
	path    string
	logger  *errors.Logger
}

// NewRegistry loads path, or the built-in catalog when path is empty.
func NewRegistry(path string, logger *errors.Logger) (*Registry, error) {
	r := &Registry{path: path, logger: logger}
	if path == "" {
		r.catalog = Default()
		return r, nil
	}

	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	r.catalog = c
	return r, nil
}

func (r *Registry) current() *Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog
}

func (r *Registry) Lookup(category, name string) (types.RoleDescriptor, error) {
	return r.current().Lookup(category, name)
}

func (r *Registry) List(category string) []types.RoleDescriptor {
	return r.current().List(category)
}

func (r *Registry) Categories() []string {
	return r.current().Categories()
}

func (r *Registry) Len() int {
	return r.current().Len()
}

func (r *Registry) Path() string {
	return r.path
}

// Reload re-reads the catalog file. On failure the previous catalog stays.
func (r *Registry) Reload() error {
	if r.path == "" {
		return nil
	}
	c, err := LoadFile(r.path)
	if err != nil {
		r.logger.LogError(err, "Role catalog reload failed, keeping previous catalog", "path", r.path)
		return err
	}

	r.mu.Lock()
	r.catalog = c
	r.mu.Unlock()

	r.logger.Info("Role catalog reloaded", "path", r.path, "roles", c.Len())
	return nil
}
