package models

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Difficulty of a practice problem
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsValid returns true for the three known difficulties
func (d Difficulty) IsValid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Class returns the lowercase style class for the difficulty
func (d Difficulty) Class() string {
	return strings.ToLower(string(d))
}

// Correctness is the tri-state result of an attempt. Unset means the
// problem has not been attempted.
type Correctness int8

const (
	Unset Correctness = iota
	Correct
	Incorrect
)

// CorrectnessOf maps a boolean answer to Correct or Incorrect
func CorrectnessOf(correct bool) Correctness {
	if correct {
		return Correct
	}
	return Incorrect
}

func (c Correctness) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unset"
	}
}

// MarshalJSON encodes as true, false or null
func (c Correctness) MarshalJSON() ([]byte, error) {
	switch c {
	case Correct:
		return []byte("true"), nil
	case Incorrect:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, booleans and the integers 0/1 that
// SQLite-backed servers emit for boolean columns.
func (c *Correctness) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		*c = Unset
	case "true", "1":
		*c = Correct
	case "false", "0":
		*c = Incorrect
	default:
		return fmt.Errorf("invalid is_correct value %s", data)
	}
	return nil
}

// UnmarshalYAML accepts true/false or an empty value
func (c *Correctness) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var b *bool
	if err := unmarshal(&b); err != nil {
		return err
	}
	if b == nil {
		*c = Unset
		return nil
	}
	*c = CorrectnessOf(*b)
	return nil
}

// Question is a practice problem as reported by the server. The same base
// record is used by plans, the review queue and the deferred list.
type Question struct {
	ID              int         `json:"id" yaml:"id"`
	Title           string      `json:"title" yaml:"title"`
	LeetcodeID      int         `json:"leetcode_id" yaml:"leetcode_id"`
	Difficulty      Difficulty  `json:"difficulty" yaml:"difficulty"`
	Category        string      `json:"category" yaml:"category"`
	Completed       bool        `json:"completed" yaml:"completed"`
	IsCorrect       Correctness `json:"is_correct" yaml:"is_correct"`
	Note            string      `json:"note" yaml:"note"`
	FromPreviousDay bool        `json:"from_previous_day" yaml:"from_previous_day"`
	ForReview       bool        `json:"for_review" yaml:"for_review"`
	ReviewInterval  *int        `json:"review_interval,omitempty" yaml:"review_interval"`
	CompletedDate   Date        `json:"completed_date" yaml:"completed_date"`
	DayNumber       int         `json:"day_number" yaml:"day_number"`
	Session         string      `json:"session,omitempty" yaml:"session"`
}

// ErrInvalidQuestion is returned by Validate for unusable records
var ErrInvalidQuestion = errors.New("invalid question record")

// Validate checks the fields every view depends on
func (q *Question) Validate() error {
	if q.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidQuestion, q.ID)
	}
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: question %d has no title", ErrInvalidQuestion, q.ID)
	}
	return nil
}

// HasNote reports whether the note has visible content
func (q *Question) HasNote() bool {
	return strings.TrimSpace(q.Note) != ""
}

// AnsweredWrong reports an explicit incorrect answer (not an unattempted one)
func (q *Question) AnsweredWrong() bool {
	return q.IsCorrect == Incorrect
}
