package fakeapi

import (
	"sort"
	"sync"

	"github.com/leetplan/plansync/internal/models"
)

// reviewIntervals are the day offsets the review list looks back over
var reviewIntervals = []int{1, 3, 7, 14}

const (
	reviewListLimit = 10
	streakWindow    = 30
)

// Progress is the server-side record of one problem
type Progress struct {
	Completed      bool
	IsCorrect      models.Correctness
	CompletedDate  models.Date
	LastReviewDate models.Date
	ReviewCount    int
	Deferred       bool
	DeferredDate   models.Date
}

type scheduledReview struct {
	questionID int
	interval   int
}

// data is the in-memory plan and progress database
type data struct {
	mu sync.RWMutex

	startDate    models.Date
	questions    map[int]models.Question
	days         map[int]*DayFixture
	descriptions map[int]string
	reviews      map[int][]scheduledReview
	progress     map[int]*Progress
	notes        map[int]string
}

func newData(f *Fixture, today models.Date) *data {
	d := &data{
		startDate:    f.StartDate,
		questions:    make(map[int]models.Question),
		days:         make(map[int]*DayFixture),
		descriptions: make(map[int]string),
		reviews:      make(map[int][]scheduledReview),
		progress:     make(map[int]*Progress),
		notes:        make(map[int]string),
	}
	if d.startDate.IsZero() {
		d.startDate = today
	}

	for i := range f.Days {
		day := &f.Days[i]
		d.days[day.Day] = day
		d.descriptions[day.Day] = day.Description
		for _, name := range models.SessionOrder {
			for _, q := range sessionFixtures(day, name) {
				d.questions[q.ID] = models.Question{
					ID:         q.ID,
					Title:      q.Title,
					LeetcodeID: q.LeetcodeID,
					Difficulty: q.Difficulty,
					Category:   q.Category,
					DayNumber:  day.Day,
					Session:    name,
				}
			}
		}
	}

	for _, r := range f.Reviews {
		d.reviews[r.Day] = append(d.reviews[r.Day], scheduledReview{questionID: r.QuestionID, interval: r.Interval})
	}

	for _, p := range f.Progress {
		rec := &Progress{
			IsCorrect:     p.IsCorrect,
			CompletedDate: p.CompletedDate,
			Deferred:      p.Deferred,
			DeferredDate:  p.DeferredDate,
		}
		if p.IsCorrect != models.Unset {
			rec.Completed = true
			if rec.CompletedDate.IsZero() {
				rec.CompletedDate = d.startDate
			}
		}
		if rec.Deferred && rec.DeferredDate.IsZero() {
			rec.DeferredDate = today
		}
		d.progress[p.QuestionID] = rec
		if p.Note != "" {
			d.notes[p.QuestionID] = p.Note
		}
	}
	return d
}

func sessionFixtures(day *DayFixture, name string) []QuestionFixture {
	switch name {
	case models.SessionMorning:
		return day.Morning
	case models.SessionAfternoon:
		return day.Afternoon
	default:
		return day.Evening
	}
}

func (d *data) deferred(id int) bool {
	p, ok := d.progress[id]
	return ok && p.Deferred
}

func (d *data) completed(id int) bool {
	p, ok := d.progress[id]
	return ok && p.Completed
}

// withProgress returns the question with its completion fields and note filled in
func (d *data) withProgress(q models.Question) models.Question {
	if p, ok := d.progress[q.ID]; ok && p.Completed {
		q.Completed = true
		q.IsCorrect = p.IsCorrect
		q.CompletedDate = p.CompletedDate
	}
	q.Note = d.notes[q.ID]
	return q
}

// plan assembles a day: carried-over problems from the previous day first,
// then the day's own problems, then scheduled reviews in the evening.
func (d *data) plan(day int, today models.Date) *models.DayPlan {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p := &models.DayPlan{Day: day}
	if desc, ok := d.descriptions[day]; ok {
		p.PlanInfo = &models.PlanInfo{Description: desc}
	}
	s := &p.Sessions
	stats := &p.Statistics

	if prev, ok := d.days[day-1]; ok {
		for _, name := range models.SessionOrder {
			for _, qf := range sessionFixtures(prev, name) {
				if d.completed(qf.ID) || d.deferred(qf.ID) {
					continue
				}
				q := d.withProgress(d.questions[qf.ID])
				q.FromPreviousDay = true
				s.Morning = append(s.Morning, q)
				stats.FromPrevious++
			}
		}
	}

	if own, ok := d.days[day]; ok {
		for _, name := range models.SessionOrder {
			for _, qf := range sessionFixtures(own, name) {
				if d.deferred(qf.ID) {
					stats.Deferred++
					continue
				}
				q := d.withProgress(d.questions[qf.ID])
				switch name {
				case models.SessionMorning:
					s.Morning = append(s.Morning, q)
				case models.SessionAfternoon:
					s.Afternoon = append(s.Afternoon, q)
				default:
					s.Evening = append(s.Evening, q)
				}
			}
		}
	}

	for _, r := range d.reviews[day] {
		if d.deferred(r.questionID) {
			continue
		}
		q := d.reviewQuestion(r, today)
		s.Evening = append(s.Evening, q)
		stats.ForReview++
	}

	for _, q := range s.All() {
		stats.Total++
		if q.Completed {
			stats.Completed++
			if q.IsCorrect == models.Incorrect {
				stats.Wrong++
			}
		}
	}
	return p
}

// reviewQuestion renders a scheduled review. It counts as completed only
// when it was reviewed (or first completed) today.
func (d *data) reviewQuestion(r scheduledReview, today models.Date) models.Question {
	q := d.questions[r.questionID]
	q.Note = d.notes[q.ID]
	q.ForReview = true
	if r.interval > 0 {
		interval := r.interval
		q.ReviewInterval = &interval
	}
	if p, ok := d.progress[q.ID]; ok {
		q.IsCorrect = p.IsCorrect
		q.CompletedDate = p.CompletedDate
		if !p.LastReviewDate.IsZero() {
			q.Completed = p.LastReviewDate.Equal(today)
		} else {
			q.Completed = p.Completed && p.CompletedDate.Equal(today)
		}
	}
	return q
}

// setProgress records a completion. A completion of a problem first done
// before today counts as a review. Completing clears the deferred flag.
func (d *data) setProgress(id int, result models.Correctness, today models.Date) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.questions[id]; !ok {
		return false
	}

	if result == models.Unset {
		delete(d.progress, id)
		return true
	}

	p, ok := d.progress[id]
	if !ok {
		p = &Progress{}
		d.progress[id] = p
	}
	if p.Completed && p.CompletedDate.Before(today) {
		p.ReviewCount++
		p.LastReviewDate = today
	} else {
		p.LastReviewDate = models.Date{}
	}
	p.Completed = true
	p.IsCorrect = result
	p.CompletedDate = today
	p.Deferred = false
	p.DeferredDate = models.Date{}
	return true
}

func (d *data) setDeferred(id int, deferred bool, today models.Date) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.questions[id]; !ok {
		return false
	}
	p, ok := d.progress[id]
	if !ok {
		if !deferred {
			return true
		}
		p = &Progress{}
		d.progress[id] = p
	}
	p.Deferred = deferred
	if deferred {
		p.DeferredDate = today
	} else {
		p.DeferredDate = models.Date{}
	}
	return true
}

func (d *data) note(id int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.notes[id]
}

func (d *data) setNote(id int, note string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.questions[id]; !ok {
		return false
	}
	if note == "" {
		delete(d.notes, id)
	} else {
		d.notes[id] = note
	}
	return true
}

func (d *data) statistics(today models.Date) models.Statistics {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := models.Statistics{
		TotalQuestions: len(d.questions),
		ByCategory:     make(map[string]int),
		ByDifficulty:   make(map[string]int),
	}
	activeDays := make(map[string]bool)
	for id, p := range d.progress {
		if !p.Completed {
			continue
		}
		q := d.questions[id]
		stats.TotalCompleted++
		switch p.IsCorrect {
		case models.Correct:
			stats.TotalCorrect++
		case models.Incorrect:
			stats.TotalWrong++
		}
		stats.ByCategory[q.Category]++
		stats.ByDifficulty[string(q.Difficulty)]++
		if today.DaysSince(p.CompletedDate) <= streakWindow {
			activeDays[p.CompletedDate.String()] = true
		}
	}
	stats.StreakDays = len(activeDays)
	return stats
}

// reviewList returns problems completed exactly 1, 3, 7 or 14 days ago;
// failing that the most recent wrong answers; failing that the most
// recent completions.
func (d *data) reviewList(today models.Date) []models.ReviewEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var done []int
	for id, p := range d.progress {
		if p.Completed {
			done = append(done, id)
		}
	}
	sort.Slice(done, func(i, j int) bool {
		a, b := d.progress[done[i]], d.progress[done[j]]
		if !a.CompletedDate.Equal(b.CompletedDate) {
			return b.CompletedDate.Before(a.CompletedDate)
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount < b.ReviewCount
		}
		return done[i] < done[j]
	})

	var picked []int
	for _, interval := range reviewIntervals {
		target := today.AddDays(-interval)
		for _, id := range done {
			if d.progress[id].CompletedDate.Equal(target) {
				picked = append(picked, id)
			}
		}
	}
	if len(picked) == 0 {
		for _, id := range done {
			if d.progress[id].IsCorrect == models.Incorrect {
				picked = append(picked, id)
			}
		}
	}
	if len(picked) == 0 {
		picked = done
	}
	if len(picked) > reviewListLimit {
		picked = picked[:reviewListLimit]
	}

	entries := make([]models.ReviewEntry, 0, len(picked))
	for _, id := range picked {
		p := d.progress[id]
		q := d.questions[id]
		q.Note = d.notes[id]
		q.IsCorrect = p.IsCorrect
		q.CompletedDate = p.CompletedDate
		entries = append(entries, models.ReviewEntry{Question: q, ReviewCount: p.ReviewCount})
	}
	return entries
}

// deferredList returns deferred problems, most recently deferred first
func (d *data) deferredList() []models.DeferredEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make([]models.DeferredEntry, 0)
	for id, p := range d.progress {
		if !p.Deferred {
			continue
		}
		q := d.withProgress(d.questions[id])
		entries = append(entries, models.DeferredEntry{Question: q, DeferredDate: p.DeferredDate})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.DeferredDate.Equal(b.DeferredDate) {
			return b.DeferredDate.Before(a.DeferredDate)
		}
		if a.DayNumber != b.DayNumber {
			return a.DayNumber < b.DayNumber
		}
		return a.ID < b.ID
	})
	return entries
}

func (d *data) progressOf(id int) (Progress, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.progress[id]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}
