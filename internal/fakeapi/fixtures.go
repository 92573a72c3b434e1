package fakeapi

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leetplan/plansync/internal/models"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture seeds the in-memory API
type Fixture struct {
	// StartDate defaults to the server's today when absent
	StartDate models.Date       `yaml:"start_date"`
	Days      []DayFixture      `yaml:"days"`
	Reviews   []ReviewFixture   `yaml:"reviews"`
	Progress  []ProgressFixture `yaml:"progress"`
}

// DayFixture lists the problems assigned to one day
type DayFixture struct {
	Day         int               `yaml:"day"`
	Description string            `yaml:"description"`
	Morning     []QuestionFixture `yaml:"morning"`
	Afternoon   []QuestionFixture `yaml:"afternoon"`
	Evening     []QuestionFixture `yaml:"evening"`
}

// QuestionFixture is the static part of a problem
type QuestionFixture struct {
	ID         int               `yaml:"id"`
	Title      string            `yaml:"title"`
	LeetcodeID int               `yaml:"leetcode_id"`
	Difficulty models.Difficulty `yaml:"difficulty"`
	Category   string            `yaml:"category"`
}

// ReviewFixture schedules a problem into a day's evening session for review
type ReviewFixture struct {
	Day        int `yaml:"day"`
	QuestionID int `yaml:"question_id"`
	// Interval is reported as review_interval; zero omits it
	Interval int `yaml:"interval"`
}

// ProgressFixture is a pre-existing progress record
type ProgressFixture struct {
	QuestionID    int                `yaml:"question_id"`
	IsCorrect     models.Correctness `yaml:"is_correct"`
	CompletedDate models.Date        `yaml:"completed_date"`
	Note          string             `yaml:"note"`
	Deferred      bool               `yaml:"deferred"`
	DeferredDate  models.Date        `yaml:"deferred_date"`
}

// DefaultFixture returns the bundled sample plan
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a fixture from a YAML file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates a YAML fixture
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that days are in range and every reference resolves
func (f *Fixture) Validate() error {
	ids := make(map[int]bool)
	days := make(map[int]bool)
	for _, d := range f.Days {
		if !models.ValidDay(d.Day) {
			return fmt.Errorf("day %d out of range", d.Day)
		}
		if days[d.Day] {
			return fmt.Errorf("day %d listed twice", d.Day)
		}
		days[d.Day] = true

		for _, session := range [][]QuestionFixture{d.Morning, d.Afternoon, d.Evening} {
			for _, q := range session {
				if q.ID <= 0 || q.Title == "" {
					return fmt.Errorf("day %d: question needs an id and a title", d.Day)
				}
				if ids[q.ID] {
					return fmt.Errorf("question %d listed twice", q.ID)
				}
				ids[q.ID] = true
			}
		}
	}

	for _, r := range f.Reviews {
		if !models.ValidDay(r.Day) {
			return fmt.Errorf("review day %d out of range", r.Day)
		}
		if !ids[r.QuestionID] {
			return fmt.Errorf("review references unknown question %d", r.QuestionID)
		}
	}
	for _, p := range f.Progress {
		if !ids[p.QuestionID] {
			return fmt.Errorf("progress references unknown question %d", p.QuestionID)
		}
	}
	return nil
}
