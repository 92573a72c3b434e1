package state

import (
	"sync"
	"testing"
	"time"

	"github.com/leetplan/plansync/internal/models"
)

func TestStore(t *testing.T) {
	s := NewStore()
	if s.CurrentDay() != models.FirstDay {
		t.Fatalf("initial day = %d", s.CurrentDay())
	}
	if _, ok := s.StartDate(); ok {
		t.Error("start date should be unknown")
	}
	if _, ok := s.Statistics(); ok {
		t.Error("statistics should be unknown")
	}

	s.SetCurrentDay(45)
	if s.CurrentDay() != models.LastDay {
		t.Errorf("day = %d, want clamp to %d", s.CurrentDay(), models.LastDay)
	}

	start := models.NewDate(time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC))
	s.SetDates(start, start.AddDays(2))
	s.SetDates(start, models.Date{})
	if today, ok := s.Today(); !ok || !today.Equal(start.AddDays(2)) {
		t.Errorf("today = %s, %v", today, ok)
	}

	stats := models.Statistics{TotalCompleted: 4, ByCategory: map[string]int{"Array": 4}}
	s.SetStatistics(stats)
	stats.TotalCompleted = 99
	if got, _ := s.Statistics(); got.TotalCompleted != 4 {
		t.Errorf("cached statistics changed with the caller's copy: %d", got.TotalCompleted)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var w DayWriter = s
	var r Reader = s

	var wg sync.WaitGroup
	for i := 1; i <= 30; i++ {
		wg.Add(2)
		go func(day int) {
			defer wg.Done()
			w.SetCurrentDay(day)
		}(i)
		go func() {
			defer wg.Done()
			if d := r.CurrentDay(); d < models.FirstDay || d > models.LastDay {
				t.Errorf("day out of range: %d", d)
			}
		}()
	}
	wg.Wait()
}
