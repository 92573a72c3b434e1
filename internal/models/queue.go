package models

// ReviewEntry is an item of the spaced-repetition review list
type ReviewEntry struct {
	Question
	ReviewCount int `json:"review_count"`
}

// DeferredEntry is an item of the "do later" list. Completed is independent
// of membership: a deferred problem can be completed without leaving the set.
type DeferredEntry struct {
	Question
	DeferredDate Date `json:"deferred_date"`
}

// ProgressRequest sets or clears completion. A nil IsCorrect encodes as
// null, which the server treats as undo.
type ProgressRequest struct {
	QuestionID int   `json:"question_id"`
	IsCorrect  *bool `json:"is_correct"`
}

// QuestionRef identifies a question in defer/undefer requests
type QuestionRef struct {
	QuestionID int `json:"question_id"`
}

// NoteRequest persists a note; an empty string removes it
type NoteRequest struct {
	Note string `json:"note"`
}
