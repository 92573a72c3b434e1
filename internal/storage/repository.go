package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/leetplan/plansync/internal/models"
)

// Backend names
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// StartDateKey is the settings key holding the plan start date
const StartDateKey = "start_date"

var ErrUnknownBackend = errors.New("unknown storage backend")

// SettingsRepository persists the client-side settings. The only value it
// holds today is the plan start date used when bootstrap fails.
type SettingsRepository interface {
	// GetStartDate returns the stored start date; ok is false when none was stored
	GetStartDate(ctx context.Context) (date models.Date, ok bool, err error)

	SetStartDate(ctx context.Context, date models.Date) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// Options configures every backend. Each backend reads only its own fields.
type Options struct {
	Backend       string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	PostgresDSN   string
}

// Factory opens one backend
type Factory func(ctx context.Context, opts Options) (SettingsRepository, error)

// Registry maps backend names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry returns a registry with every built-in backend
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(BackendSQLite, openSQLite)
	r.Register(BackendRedis, openRedis)
	r.Register(BackendPostgres, openPostgres)
	r.Register(BackendMemory, func(context.Context, Options) (SettingsRepository, error) {
		return NewMemoryRepository(), nil
	})
	return r
}

// Register adds a factory to the registry
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get retrieves a factory by name
func (r *Registry) Get(name string) Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[name]
}

// List returns all registered backend names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the backend named by opts.Backend
func (r *Registry) Open(ctx context.Context, opts Options) (SettingsRepository, error) {
	f := r.Get(opts.Backend)
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	repo, err := f(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s settings store: %w", opts.Backend, err)
	}
	return repo, nil
}

// Open opens a backend from the default registry
func Open(ctx context.Context, opts Options) (SettingsRepository, error) {
	return DefaultRegistry().Open(ctx, opts)
}

func parseStoredDate(raw string) (models.Date, bool, error) {
	if raw == "" {
		return models.Date{}, false, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, false, fmt.Errorf("stored start date %q: %w", raw, err)
	}
	return d, true, nil
}
