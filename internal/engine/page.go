package engine

import (
	"sync"

	"github.com/leetplan/plansync/internal/models"
	"github.com/leetplan/plansync/internal/render"
)

// page is the rendered day plus an identity index of its cards. When a
// question appears twice on a day, the first card in display order is the
// one indexed.
type page struct {
	mu    sync.RWMutex
	view  *render.DayView
	cards map[int]*render.CardView
	// gen changes on every full render
	gen uint64
}

func newPage() *page {
	return &page{cards: make(map[int]*render.CardView)}
}

// replace installs a freshly rendered day and rebuilds the index
func (p *page) replace(view *render.DayView) {
	cards := make(map[int]*render.CardView)
	for _, c := range view.Cards() {
		if _, dup := cards[c.QuestionID]; !dup {
			cards[c.QuestionID] = c
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.view = view
	p.cards = cards
	p.gen++
}

func (p *page) snapshot() *render.DayView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.view == nil {
		return nil
	}
	return p.view.Clone()
}

func (p *page) card(questionID int) (*render.CardView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.cards[questionID]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// patchReview applies a completion change in place when the question's
// card is a review card. It reports whether it did.
func (p *page) patchReview(questionID int, completed bool, result models.Correctness) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.cards[questionID]
	if !ok || !c.ForReview() {
		return false
	}
	render.PatchCompletion(c, completed, result)
	return true
}

// update runs fn on a card and returns the page generation it ran in
func (p *page) update(questionID int, fn func(*render.CardView)) (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.cards[questionID]
	if !ok {
		return 0, false
	}
	fn(c)
	return p.gen, true
}

// updateIn runs fn only if the page has not been re-rendered since gen
func (p *page) updateIn(gen uint64, questionID int, fn func(*render.CardView)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return
	}
	if c, ok := p.cards[questionID]; ok {
		fn(c)
	}
}
