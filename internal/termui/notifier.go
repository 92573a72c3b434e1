package termui

import (
	"fmt"
	"io"
	"sync"

	"github.com/leetplan/plansync/internal/engine"
)

// Notifier prints engine notices to a writer
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewNotifier creates a notifier writing to w
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Notify implements engine.Notifier
func (n *Notifier) Notify(notice engine.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch notice.Kind {
	case engine.NoticeBlocking:
		fmt.Fprintln(n.w, errorStyle.Render("‼ "+notice.Message))
	case engine.NoticeError:
		fmt.Fprintln(n.w, errorStyle.Render("✗ "+notice.Message))
	default:
		fmt.Fprintln(n.w, okStyle.Render(notice.Message))
	}
}
