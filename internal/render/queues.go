package render

import (
	"fmt"

	"github.com/leetplan/plansync/internal/models"
)

// Empty-list affirmations
const (
	EmptyReviewMessage   = "✅ No questions to review today, keep it up!"
	EmptyDeferredMessage = "✅ No questions marked as \"Do Later\""
)

// ReviewItem is one row of the review list
type ReviewItem struct {
	QuestionID      int
	Title           string
	Link            string
	Difficulty      models.Difficulty
	Category        string
	CompletedDate   string
	PreviouslyWrong bool
}

// ReviewList is the rendered review queue
type ReviewList struct {
	Items []ReviewItem
	Empty string
}

// RenderReview builds the read-only review list
func RenderReview(entries []models.ReviewEntry) *ReviewList {
	if len(entries) == 0 {
		return &ReviewList{Empty: EmptyReviewMessage}
	}
	l := &ReviewList{Items: make([]ReviewItem, 0, len(entries))}
	for _, e := range entries {
		l.Items = append(l.Items, ReviewItem{
			QuestionID:      e.ID,
			Title:           e.Title,
			Link:            ProblemURL(e.Title),
			Difficulty:      e.Difficulty,
			Category:        e.Category,
			CompletedDate:   e.CompletedDate.String(),
			PreviouslyWrong: e.AnsweredWrong(),
		})
	}
	return l
}

// DeferredItem is one row of the deferred list
type DeferredItem struct {
	QuestionID   int
	Title        string
	Link         string
	Difficulty   models.Difficulty
	Category     string
	Day          string
	DeferredDate string
	Completed    bool
	Actions      []Action
}

// DeferredList is the rendered deferred set
type DeferredList struct {
	Items []DeferredItem
	Empty string
}

// Find returns the item for a question
func (l *DeferredList) Find(questionID int) (DeferredItem, bool) {
	for _, item := range l.Items {
		if item.QuestionID == questionID {
			return item, true
		}
	}
	return DeferredItem{}, false
}

// DeferredActions returns Restore, plus Restore & Complete for items not
// yet completed.
func DeferredActions(completed bool) []Action {
	actions := []Action{{Kind: ActionRestore, Label: "Restore"}}
	if !completed {
		actions = append(actions, Action{Kind: ActionRestoreComplete, Label: "Restore & Complete"})
	}
	return actions
}

// RenderDeferred builds the deferred list with its per-item actions
func RenderDeferred(entries []models.DeferredEntry) *DeferredList {
	if len(entries) == 0 {
		return &DeferredList{Empty: EmptyDeferredMessage}
	}
	l := &DeferredList{Items: make([]DeferredItem, 0, len(entries))}
	for _, e := range entries {
		l.Items = append(l.Items, DeferredItem{
			QuestionID:   e.ID,
			Title:        e.Title,
			Link:         ProblemURL(e.Title),
			Difficulty:   e.Difficulty,
			Category:     e.Category,
			Day:          fmt.Sprintf("Day %d", e.DayNumber),
			DeferredDate: e.DeferredDate.String(),
			Completed:    e.Completed,
			Actions:      DeferredActions(e.Completed),
		})
	}
	return l
}
