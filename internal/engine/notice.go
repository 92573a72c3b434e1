package engine

import (
	"errors"

	"github.com/leetplan/plansync/pkg/client"
)

// NoticeKind classifies user-facing notices
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
	// NoticeBlocking asks the user to act before continuing
	NoticeBlocking NoticeKind = "blocking"
)

// Notice messages
const (
	MsgPlanLoadFailed   = "Failed to load study plan, please refresh the page"
	MsgOperationFailed  = "Operation failed, please try again"
	MsgUpdateFailed     = "Update failed, please try again"
	MsgUndoFailed       = "Undo failed, please try again"
	MsgDeferred         = "Question marked as \"Do Later\". It will be hidden from today's plan."
	MsgDeferFailed      = "Failed to mark as \"Do Later\", please try again"
	MsgRestored         = "Question restored to your plan"
	MsgRestoreFailed    = "Failed to restore question, please try again"
	MsgNoteSaveFailed   = "Failed to save note, please try again"
	MsgReviewLoadFailed = "Failed to load review list. Please try again."
	MsgDeferredLoad     = "Failed to load \"Do Later\" list"
	MsgInvalidFormat    = "Invalid response format. Please try again."
	MsgStatisticsFailed = "Failed to load statistics"
	MsgNoteLoadFailed   = "Failed to load note"
)

// Notice is a user-facing message
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

// Notifier presents notices to the user. Notify is called synchronously
// from the goroutine running the action.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// failureMessage picks the server-rejected message for HTTP errors and the
// generic one for everything else.
func failureMessage(err error, rejected string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return rejected
	}
	return MsgOperationFailed
}
