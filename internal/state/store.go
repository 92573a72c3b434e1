// Package state holds the shared view state: the active day, the plan's
// start and today dates, and the cached global statistics.
package state

import (
	"sync"

	"github.com/leetplan/plansync/internal/models"
)

// Reader is the read side every component gets
type Reader interface {
	CurrentDay() int
	StartDate() (models.Date, bool)
	Today() (models.Date, bool)
	Statistics() (models.Statistics, bool)
}

// DayWriter is held only by the day plan loader
type DayWriter interface {
	Reader
	SetCurrentDay(day int)
	SetDates(start, today models.Date)
}

// StatisticsWriter is held only by the statistics aggregator
type StatisticsWriter interface {
	Reader
	SetStatistics(stats models.Statistics)
}

// Store is the single owner of shared view state
type Store struct {
	mu         sync.RWMutex
	currentDay int
	startDate  models.Date
	today      models.Date
	stats      *models.Statistics
}

// NewStore creates a store positioned on day 1
func NewStore() *Store {
	return &Store{currentDay: models.FirstDay}
}

// CurrentDay returns the active day
func (s *Store) CurrentDay() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentDay
}

// StartDate returns the plan start date once known
func (s *Store) StartDate() (models.Date, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startDate, !s.startDate.IsZero()
}

// Today returns the server-reported date once known
func (s *Store) Today() (models.Date, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.today, !s.today.IsZero()
}

// Statistics returns a copy of the cached statistics
func (s *Store) Statistics() (models.Statistics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return models.Statistics{}, false
	}
	return *s.stats, true
}

// SetCurrentDay sets the active day, clamped to the plan range
func (s *Store) SetCurrentDay(day int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentDay = models.ClampDay(day)
}

// SetDates records the start and today dates. A zero today leaves the
// previous value in place.
func (s *Store) SetDates(start, today models.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startDate = start
	if !today.IsZero() {
		s.today = today
	}
}

// SetStatistics replaces the cached statistics
func (s *Store) SetStatistics(stats models.Statistics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = &stats
}
