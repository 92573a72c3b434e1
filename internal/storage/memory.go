package storage

import (
	"context"
	"sync"

	"github.com/leetplan/plansync/internal/models"
)

// MemoryRepository keeps settings in process memory
type MemoryRepository struct {
	mu    sync.RWMutex
	start models.Date
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) GetStartDate(ctx context.Context) (models.Date, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.start, !r.start.IsZero(), nil
}

func (r *MemoryRepository) SetStartDate(ctx context.Context, date models.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start = date
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }

func (r *MemoryRepository) Close() error { return nil }
