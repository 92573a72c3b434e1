package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leetplan/plansync/internal/models"
)

// CardState is the completion state of a card
type CardState string

const (
	StateNew       CardState = "new"
	StateCompleted CardState = "completed"
	StateWrong     CardState = "wrong"
)

// Style classes carried by cards
const (
	ClassFromPrevious = "from-previous"
	ClassForReview    = "for-review"
)

// BadgeKind identifies a badge on the title line
type BadgeKind string

const (
	BadgeFromPrevious    BadgeKind = "from-previous"
	BadgeReview          BadgeKind = "review"
	BadgeReviewCompleted BadgeKind = "review-completed"
	BadgePreviouslyWrong BadgeKind = "previously-wrong"
)

// Badge is a label rendered next to the title
type Badge struct {
	Kind BadgeKind
	Text string
}

// ActionKind names an interaction. Every kind maps to one dispatcher command.
type ActionKind string

const (
	ActionComplete        ActionKind = "complete"
	ActionWrong           ActionKind = "wrong"
	ActionUndo            ActionKind = "undo"
	ActionDefer           ActionKind = "defer"
	ActionRestore         ActionKind = "restore"
	ActionRestoreComplete ActionKind = "restore-complete"
	ActionToggleNote      ActionKind = "toggle-note"
	ActionSaveNote        ActionKind = "save-note"
)

// Action is a button offered on a card or list item
type Action struct {
	Kind  ActionKind
	Label string
}

// Note icons
const (
	NoteIconPresent = "📝"
	NoteIconEmpty   = "📄"
	NoteSavedLabel  = "✓ Saved!"
	NoteSaveLabel   = "Save Note"
)

// NoteView is the per-card note editor
type NoteView struct {
	Open    bool
	Text    string
	Preview string
	Icon    string
	Saved   bool
}

// CardView is the display model of one question
type CardView struct {
	QuestionID    int
	Title         string
	LeetcodeID    int
	Link          string
	Difficulty    models.Difficulty
	Category      string
	CompletedDate string
	State         CardState
	Classes       []string
	Badges        []Badge
	Actions       []Action
	Note          NoteView

	question models.Question
}

// Question returns the record the card was rendered from, including
// in-place patches applied since.
func (c *CardView) Question() models.Question {
	return c.question
}

// ForReview reports whether the card belongs to the review pool
func (c *CardView) ForReview() bool {
	return c.question.ForReview
}

// HasAction reports whether an action of the given kind is offered
func (c *CardView) HasAction(kind ActionKind) bool {
	for _, a := range c.Actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// HasBadge reports whether a badge of the given kind is shown
func (c *CardView) HasBadge(kind BadgeKind) bool {
	for _, b := range c.Badges {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of a locked page
func (c *CardView) Clone() *CardView {
	cp := *c
	cp.Classes = append([]string(nil), c.Classes...)
	cp.Badges = append([]Badge(nil), c.Badges...)
	cp.Actions = append([]Action(nil), c.Actions...)
	return &cp
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lowercases the title and replaces each whitespace run with a hyphen
func Slug(title string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(title), "-")
}

// ProblemURL returns the problem page for a title
func ProblemURL(title string) string {
	return "https://leetcode.com/problems/" + Slug(title) + "/"
}

// DeriveState maps completion fields to a card state
func DeriveState(q models.Question) CardState {
	switch {
	case q.Completed && q.IsCorrect == models.Incorrect:
		return StateWrong
	case q.Completed:
		return StateCompleted
	default:
		return StateNew
	}
}

// DeriveActions returns the buttons for a question
func DeriveActions(q models.Question) []Action {
	if q.Completed {
		return []Action{{Kind: ActionUndo, Label: "Undo"}}
	}
	complete := "Complete"
	if q.ForReview {
		complete = "Review Complete"
	}
	return []Action{
		{Kind: ActionComplete, Label: complete},
		{Kind: ActionWrong, Label: "Wrong"},
		{Kind: ActionDefer, Label: "⏰ Later"},
	}
}

func deriveClasses(q models.Question, state CardState) []string {
	var classes []string
	if state != StateNew {
		classes = append(classes, string(state))
	}
	if q.FromPreviousDay {
		classes = append(classes, ClassFromPrevious)
	}
	if q.ForReview {
		classes = append(classes, ClassForReview)
	}
	return classes
}

// reviewBadge derives the review badge from the question's own fields
func reviewBadge(q models.Question) Badge {
	if q.Completed && q.IsCorrect != models.Incorrect {
		return Badge{Kind: BadgeReviewCompleted, Text: "✓ Review Completed"}
	}
	if q.ReviewInterval != nil {
		n := *q.ReviewInterval
		unit := "day"
		if n > 1 {
			unit = "days"
		}
		return Badge{Kind: BadgeReview, Text: fmt.Sprintf("📚 Review (%d %s ago)", n, unit)}
	}
	return Badge{Kind: BadgeReview, Text: "📚 For Review"}
}

func deriveBadges(q models.Question) []Badge {
	var badges []Badge
	if q.FromPreviousDay {
		badges = append(badges, Badge{Kind: BadgeFromPrevious, Text: "⚠️ From Previous Day"})
	}
	if q.ForReview {
		badges = append(badges, reviewBadge(q))
		if q.AnsweredWrong() && !q.Completed {
			badges = append(badges, Badge{Kind: BadgePreviouslyWrong, Text: "⚠️ Previously Wrong"})
		}
	}
	return badges
}

// NoteFor builds the note editor state for a note text
func NoteFor(text string, open bool) NoteView {
	n := NoteView{Open: open, Text: text, Icon: NoteIconEmpty}
	if strings.TrimSpace(text) != "" {
		n.Preview = text
		n.Icon = NoteIconPresent
	}
	return n
}

// RenderCard turns one question into its card view. It has no side effects.
func RenderCard(q models.Question) *CardView {
	state := DeriveState(q)
	card := &CardView{
		QuestionID: q.ID,
		Title:      q.Title,
		LeetcodeID: q.LeetcodeID,
		Link:       ProblemURL(q.Title),
		Difficulty: q.Difficulty,
		Category:   q.Category,
		State:      state,
		Classes:    deriveClasses(q, state),
		Badges:     deriveBadges(q),
		Actions:    DeriveActions(q),
		Note:       NoteFor(q.Note, false),
		question:   q,
	}
	if q.ForReview && !q.CompletedDate.IsZero() {
		card.CompletedDate = q.CompletedDate.String()
	}
	return card
}

// PatchCompletion applies a completion change to a card in place. The state,
// classes and actions change; review cards also get their badges re-derived
// so the patched card matches a fresh render of the same record.
func PatchCompletion(card *CardView, completed bool, result models.Correctness) {
	card.question.Completed = completed
	card.question.IsCorrect = result

	card.State = DeriveState(card.question)
	card.Classes = deriveClasses(card.question, card.State)
	card.Actions = DeriveActions(card.question)

	if card.question.ForReview {
		card.Badges = deriveBadges(card.question)
	}
}

// PatchNote applies a saved note in place
func PatchNote(card *CardView, text string) {
	card.question.Note = text
	card.Note = NoteFor(text, card.Note.Open)
}
