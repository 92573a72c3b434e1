package models

import (
	"errors"
	"fmt"
)

// Plan bounds
const (
	FirstDay = 1
	LastDay  = 30
	PlanDays = LastDay - FirstDay + 1
)

// Session names in display order
const (
	SessionMorning   = "morning"
	SessionAfternoon = "afternoon"
	SessionEvening   = "evening"
)

// SessionOrder lists sessions in the order they are rendered
var SessionOrder = []string{SessionMorning, SessionAfternoon, SessionEvening}

// ErrInvalidPlan is returned by DayPlan.Validate
var ErrInvalidPlan = errors.New("invalid day plan")

// ClampDay limits day to the plan range
func ClampDay(day int) int {
	if day < FirstDay {
		return FirstDay
	}
	if day > LastDay {
		return LastDay
	}
	return day
}

// ValidDay reports whether day is inside the plan
func ValidDay(day int) bool {
	return day >= FirstDay && day <= LastDay
}

// CurrentDay is the bootstrap response
type CurrentDay struct {
	CurrentDay int  `json:"current_day"`
	StartDate  Date `json:"start_date"`
	Today      Date `json:"today"`
	DaysPassed int  `json:"days_passed"`
}

// PlanInfo describes a day
type PlanInfo struct {
	Description string `json:"description" yaml:"description"`
}

// Sessions holds the three ordered session lists of a day
type Sessions struct {
	Morning   []Question `json:"morning"`
	Afternoon []Question `json:"afternoon"`
	Evening   []Question `json:"evening"`
}

// ByName returns the questions of a session by its name
func (s *Sessions) ByName(name string) []Question {
	switch name {
	case SessionMorning:
		return s.Morning
	case SessionAfternoon:
		return s.Afternoon
	case SessionEvening:
		return s.Evening
	default:
		return nil
	}
}

// All returns every question of the day in display order
func (s *Sessions) All() []Question {
	all := make([]Question, 0, len(s.Morning)+len(s.Afternoon)+len(s.Evening))
	all = append(all, s.Morning...)
	all = append(all, s.Afternoon...)
	all = append(all, s.Evening...)
	return all
}

// PlanStatistics are the per-day counters reported with a plan
type PlanStatistics struct {
	Completed    int `json:"completed"`
	Total        int `json:"total"`
	Wrong        int `json:"wrong"`
	FromPrevious int `json:"from_previous"`
	ForReview    int `json:"for_review"`
	Deferred     int `json:"deferred"`
}

// DayCompleted reports whether every problem of the day is done. A day
// without problems is never completed.
func (s PlanStatistics) DayCompleted() bool {
	return s.Total > 0 && s.Completed == s.Total
}

// Validate checks the counter invariants
func (s PlanStatistics) Validate() error {
	counts := map[string]int{
		"completed":     s.Completed,
		"total":         s.Total,
		"wrong":         s.Wrong,
		"from_previous": s.FromPrevious,
		"for_review":    s.ForReview,
		"deferred":      s.Deferred,
	}
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%w: %s is negative (%d)", ErrInvalidPlan, name, v)
		}
	}
	if s.Completed > s.Total {
		return fmt.Errorf("%w: completed %d exceeds total %d", ErrInvalidPlan, s.Completed, s.Total)
	}
	return nil
}

// DayPlan is one day of the 30-day track
type DayPlan struct {
	Day        int            `json:"day"`
	PlanInfo   *PlanInfo      `json:"plan_info"`
	Sessions   Sessions       `json:"sessions"`
	Statistics PlanStatistics `json:"statistics"`
}

// Description returns the plan description or the default heading
func (p *DayPlan) Description() string {
	if p.PlanInfo == nil || p.PlanInfo.Description == "" {
		return "Start Learning"
	}
	return p.PlanInfo.Description
}

// Validate checks the plan at the API boundary
func (p *DayPlan) Validate() error {
	if !ValidDay(p.Day) {
		return fmt.Errorf("%w: day %d out of range", ErrInvalidPlan, p.Day)
	}
	if err := p.Statistics.Validate(); err != nil {
		return err
	}
	for _, q := range p.Sessions.All() {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPlan, err)
		}
	}
	return nil
}
