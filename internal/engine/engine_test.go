package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/leetplan/plansync/internal/fakeapi"
	"github.com/leetplan/plansync/internal/models"
	"github.com/leetplan/plansync/internal/render"
	"github.com/leetplan/plansync/internal/state"
	"github.com/leetplan/plansync/internal/storage"
	"github.com/leetplan/plansync/pkg/client"
)

var (
	planStart = time.Date(2024, time.October, 15, 8, 0, 0, 0, time.UTC)
	planToday = time.Date(2024, time.October, 16, 20, 0, 0, 0, time.UTC)
)

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func (r *recorder) messages() []string {
	var msgs []string
	for _, n := range r.all() {
		msgs = append(msgs, n.Message)
	}
	return msgs
}

type harness struct {
	srv      *fakeapi.Server
	eng      *Engine
	store    *state.Store
	settings *storage.MemoryRepository
	notices  *recorder
}

// planFixture is day 1 (two completed problems) and day 2 (three new
// problems plus a review of problem 1).
func planFixture() *fakeapi.Fixture {
	start := models.NewDate(planStart)
	return &fakeapi.Fixture{
		StartDate: start,
		Days: []fakeapi.DayFixture{
			{
				Day:         1,
				Description: "Arrays & Hashing",
				Morning: []fakeapi.QuestionFixture{
					{ID: 1, Title: "Two Sum", LeetcodeID: 1, Difficulty: models.DifficultyEasy, Category: "Array"},
				},
				Afternoon: []fakeapi.QuestionFixture{
					{ID: 2, Title: "Group Anagrams", LeetcodeID: 49, Difficulty: models.DifficultyMedium, Category: "Hash Table"},
				},
			},
			{
				Day:         2,
				Description: "Two Pointers",
				Morning: []fakeapi.QuestionFixture{
					{ID: 5, Title: "Valid Anagram", LeetcodeID: 242, Difficulty: models.DifficultyEasy, Category: "Hash Table"},
					{ID: 7, Title: "3Sum", LeetcodeID: 15, Difficulty: models.DifficultyMedium, Category: "Two Pointers"},
				},
				Afternoon: []fakeapi.QuestionFixture{
					{ID: 12, Title: "Best Time to Buy and Sell Stock", LeetcodeID: 121, Difficulty: models.DifficultyEasy, Category: "Sliding Window"},
				},
			},
		},
		Reviews: []fakeapi.ReviewFixture{{Day: 2, QuestionID: 1, Interval: 1}},
		Progress: []fakeapi.ProgressFixture{
			{QuestionID: 1, IsCorrect: models.Correct, CompletedDate: start},
			{QuestionID: 2, IsCorrect: models.Correct, CompletedDate: start},
			{QuestionID: 5, Note: "sort both strings"},
		},
	}
}

func newHarness(t *testing.T, f *fakeapi.Fixture, opts ...Option) *harness {
	t.Helper()
	clock := func() time.Time { return planToday }

	srv := fakeapi.NewServer(f, fakeapi.WithClock(clock))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	h := &harness{
		srv:      srv,
		store:    state.NewStore(),
		settings: storage.NewMemoryRepository(),
		notices:  &recorder{},
	}
	opts = append([]Option{WithClock(clock), WithCalendarRetry(5 * time.Millisecond)}, opts...)
	h.eng = New(client.NewClient(ts.URL, ""), h.store, h.settings, h.notices, opts...)
	return h
}

// start bootstraps the engine and waits for background checks
func (h *harness) start(t *testing.T) {
	t.Helper()
	if err := h.eng.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.eng.Wait()
	h.srv.ResetCalls()
}

func (h *harness) card(t *testing.T, id int) *render.CardView {
	t.Helper()
	c, ok := h.eng.Card(id)
	if !ok {
		t.Fatalf("card %d not on the page", id)
	}
	return c
}

func actionKinds(c *render.CardView) []render.ActionKind {
	var kinds []render.ActionKind
	for _, a := range c.Actions {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func sameCard(a, b *render.CardView) bool {
	if a.State != b.State || len(a.Classes) != len(b.Classes) || len(a.Badges) != len(b.Badges) || len(a.Actions) != len(b.Actions) {
		return false
	}
	for i := range a.Classes {
		if a.Classes[i] != b.Classes[i] {
			return false
		}
	}
	for i := range a.Badges {
		if a.Badges[i] != b.Badges[i] {
			return false
		}
	}
	for i := range a.Actions {
		if a.Actions[i] != b.Actions[i] {
			return false
		}
	}
	return a.Note == b.Note
}

func TestStartLoadsCurrentDay(t *testing.T) {
	h := newHarness(t, planFixture())
	h.start(t)

	if got := h.eng.CurrentDay(); got != 2 {
		t.Fatalf("current day = %d, want 2", got)
	}
	day := h.eng.Day()
	if day == nil || day.Day != 2 || day.Description != "Two Pointers" {
		t.Fatalf("day view = %+v", day)
	}
	if day.Date.String() != "2024-10-16" {
		t.Errorf("day date = %s", day.Date)
	}

	var ids []int
	for _, c := range day.Cards() {
		ids = append(ids, c.QuestionID)
	}
	want := []int{5, 7, 12, 1}
	if len(ids) != len(want) {
		t.Fatalf("cards = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("cards = %v, want %v", ids, want)
			break
		}
	}

	if c := h.card(t, 5); c.Note.Icon != render.NoteIconPresent || c.Note.Preview != "sort both strings" {
		t.Errorf("note view = %+v", c.Note)
	}
	if len(h.notices.all()) != 0 {
		t.Errorf("unexpected notices: %v", h.notices.messages())
	}
}

func TestCalendarGrid(t *testing.T) {
	h := newHarness(t, planFixture())
	h.start(t)

	entries := h.eng.Calendar()
	if len(entries) != models.PlanDays {
		t.Fatalf("calendar has %d entries, want %d", len(entries), models.PlanDays)
	}

	start := models.NewDate(planStart)
	var today, active []int
	for i, e := range entries {
		if e.Day != i+1 {
			t.Fatalf("entry %d has day %d", i, e.Day)
		}
		if want := start.AddDays(i); !e.Date.Equal(want) {
			t.Errorf("day %d date = %s, want %s", e.Day, e.Date, want)
		}
		if e.IsToday {
			today = append(today, e.Day)
		}
		if e.IsActive {
			active = append(active, e.Day)
		}
	}
	if len(today) != 1 || today[0] != 2 {
		t.Errorf("today entries = %v, want [2]", today)
	}
	if len(active) != 1 || active[0] != 2 {
		t.Errorf("active entries = %v, want [2]", active)
	}

	if !entries[0].IsCompleted {
		t.Error("day 1 has every problem done and should be completed")
	}
	if entries[1].IsCompleted {
		t.Error("day 2 should not be completed")
	}
	// A day without problems is never completed
	if entries[9].IsCompleted {
		t.Error("empty day 10 should not be completed")
	}
	if entries[1].Label() != "10/16" || entries[1].Tooltip() != "Day 2 - Oct 16, 2024" {
		t.Errorf("labels = %q / %q", entries[1].Label(), entries[1].Tooltip())
	}
}

func TestBuildCalendarWaitsForStartDate(t *testing.T) {
	h := newHarness(t, planFixture())

	done := make(chan error, 1)
	go func() {
		done <- h.eng.BuildCalendar(context.Background())
	}()

	select {
	case err := <-done:
		t.Fatalf("BuildCalendar returned before the start date was known: %v", err)
	case <-time.After(30 * time.Millisecond):
	}

	h.store.SetDates(models.NewDate(planStart), models.NewDate(planToday))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("BuildCalendar: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("BuildCalendar did not pick up the start date")
	}
	h.eng.Wait()
	if len(h.eng.Calendar()) != models.PlanDays {
		t.Errorf("calendar has %d entries", len(h.eng.Calendar()))
	}
}

func TestBuildCalendarStopsWithContext(t *testing.T) {
	h := newHarness(t, planFixture())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := h.eng.BuildCalendar(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("BuildCalendar error = %v, want deadline exceeded", err)
	}
	if len(h.eng.Calendar()) != 0 {
		t.Error("calendar should stay empty")
	}
}

func TestHeaderAccuracy(t *testing.T) {
	f := planFixture()
	f.Progress = nil
	h := newHarness(t, f)
	h.start(t)

	header, ok := h.eng.Header()
	if !ok {
		t.Fatal("header not available after start")
	}
	if header.AccuracyLabel() != "0%" || header.Progress != "0/5" {
		t.Errorf("empty header = %+v", header)
	}

	ctx := context.Background()
	if err := h.eng.MarkComplete(ctx, 5, true); err != nil {
		t.Fatalf("MarkComplete(5): %v", err)
	}
	if err := h.eng.MarkComplete(ctx, 7, false); err != nil {
		t.Fatalf("MarkComplete(7): %v", err)
	}
	h.eng.Wait()

	header, _ = h.eng.Header()
	if header.AccuracyLabel() != "50%" || header.Progress != "2/5" {
		t.Errorf("header = %+v, want 50%% and 2/5", header)
	}
}

func TestFallbackWhenBootstrapFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.srv.FailOn(http.MethodGet, "/api/current-day", http.StatusInternalServerError)

	stored := models.NewDate(planToday).AddDays(-5)
	if err := h.settings.SetStartDate(ctx, stored); err != nil {
		t.Fatalf("SetStartDate: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := h.eng.LoadCurrentDay(ctx); err != nil {
			t.Fatalf("LoadCurrentDay #%d: %v", i+1, err)
		}
		if got := h.eng.CurrentDay(); got != 6 {
			t.Fatalf("fallback day #%d = %d, want 6", i+1, got)
		}
	}

	if start, ok := h.store.StartDate(); !ok || !start.Equal(stored) {
		t.Errorf("published start date = %s (%v), want %s", start, ok, stored)
	}
	if got, _, _ := h.settings.GetStartDate(ctx); !got.Equal(stored) {
		t.Errorf("stored start date changed to %s", got)
	}
	// A failed bootstrap is not user-facing
	if len(h.notices.all()) != 0 {
		t.Errorf("unexpected notices: %v", h.notices.messages())
	}
}

func TestFallbackSeedsAndClamps(t *testing.T) {
	ctx := context.Background()
	today := models.NewDate(planToday)

	tests := []struct {
		name   string
		stored models.Date
		want   int
	}{
		{"seeded with today", models.Date{}, 1},
		{"long ago", today.AddDays(-400), models.LastDay},
		{"in the future", today.AddDays(3), models.FirstDay},
		{"last day", today.AddDays(-29), models.LastDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, planFixture())
			h.srv.FailOn(http.MethodGet, "/api/current-day", http.StatusServiceUnavailable)
			if !tt.stored.IsZero() {
				h.settings.SetStartDate(ctx, tt.stored)
			}

			h.eng.LoadCurrentDay(ctx)
			if got := h.eng.CurrentDay(); got != tt.want {
				t.Errorf("fallback day = %d, want %d", got, tt.want)
			}

			got, ok, _ := h.settings.GetStartDate(ctx)
			if !ok {
				t.Fatal("start date was not persisted")
			}
			if tt.stored.IsZero() && !got.Equal(today) {
				t.Errorf("seeded start date = %s, want %s", got, today)
			}
		})
	}
}

func TestCompleteUndoRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	before := h.card(t, 5)

	if err := h.eng.MarkComplete(ctx, 5, true); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	done := h.card(t, 5)
	if done.State != render.StateCompleted {
		t.Errorf("state after complete = %s", done.State)
	}
	if kinds := actionKinds(done); len(kinds) != 1 || kinds[0] != render.ActionUndo {
		t.Errorf("actions after complete = %v, want only undo", kinds)
	}

	if err := h.eng.MarkIncomplete(ctx, 5); err != nil {
		t.Fatalf("MarkIncomplete: %v", err)
	}
	after := h.card(t, 5)
	if !sameCard(before, after) {
		t.Errorf("card after undo differs:\nbefore %+v\nafter  %+v", before, after)
	}
	h.eng.Wait()
}

func TestWrongAnswerReloadsDay(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	if err := h.eng.MarkComplete(ctx, 7, false); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	h.eng.Wait()

	c := h.card(t, 7)
	if c.State != render.StateWrong {
		t.Errorf("state = %s, want wrong", c.State)
	}
	if kinds := actionKinds(c); len(kinds) != 1 || kinds[0] != render.ActionUndo {
		t.Errorf("actions = %v, want only undo", kinds)
	}
	if day := h.eng.Day(); day.Statistics.Wrong != 1 || day.Statistics.Completed != 1 {
		t.Errorf("day statistics = %+v", day.Statistics)
	}

	// Two correct from day 1 plus one wrong
	header, _ := h.eng.Header()
	if header.Accuracy != 67 {
		t.Errorf("accuracy = %d, want 67", header.Accuracy)
	}

	if got := h.srv.Calls(http.MethodGet, "/api/plan/2"); got != 2 {
		t.Errorf("plan calls = %d, want reload plus badge check", got)
	}
	if got := h.srv.Calls(http.MethodGet, "/api/statistics"); got != 1 {
		t.Errorf("statistics calls = %d, want 1", got)
	}
}

func TestReviewCardPatchedInPlace(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	review := h.card(t, 1)
	if !review.ForReview() || !review.HasBadge(render.BadgeReview) {
		t.Fatalf("card 1 is not a pending review: %+v", review)
	}
	if review.Actions[0].Label != "Review Complete" {
		t.Errorf("complete label = %q", review.Actions[0].Label)
	}

	// A reload would close the editor
	if open, err := h.eng.ToggleNote(1); err != nil || !open {
		t.Fatalf("ToggleNote = %v, %v", open, err)
	}

	if err := h.eng.MarkComplete(ctx, 1, true); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	h.eng.Wait()

	c := h.card(t, 1)
	if c.State != render.StateCompleted || !c.HasBadge(render.BadgeReviewCompleted) || c.HasBadge(render.BadgeReview) {
		t.Errorf("patched card = %+v", c)
	}
	if !c.Note.Open {
		t.Error("note editor closed; the day was reloaded instead of patched")
	}
	if got := h.srv.Calls(http.MethodGet, "/api/plan/2"); got != 1 {
		t.Errorf("plan calls = %d, want only the badge check", got)
	}

	if err := h.eng.MarkIncomplete(ctx, 1); err != nil {
		t.Fatalf("MarkIncomplete: %v", err)
	}
	c = h.card(t, 1)
	if c.State != render.StateNew || !c.HasBadge(render.BadgeReview) || c.HasBadge(render.BadgeReviewCompleted) {
		t.Errorf("card after undo = %+v", c)
	}
	h.eng.Wait()
}

func TestDeferRemovesFromDay(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	if err := h.eng.Defer(ctx, 12); err != nil {
		t.Fatalf("Defer: %v", err)
	}
	if _, ok := h.eng.Card(12); ok {
		t.Error("deferred question still on the page")
	}
	if day := h.eng.Day(); day.Statistics.Deferred != 1 {
		t.Errorf("deferred counter = %d, want 1", day.Statistics.Deferred)
	}
	if msgs := h.notices.messages(); len(msgs) != 1 || msgs[0] != MsgDeferred {
		t.Errorf("notices = %v", msgs)
	}

	list, err := h.eng.ShowDeferred(ctx)
	if err != nil {
		t.Fatalf("ShowDeferred: %v", err)
	}
	item, ok := list.Find(12)
	if !ok {
		t.Fatalf("deferred list = %+v", list)
	}
	if item.Day != "Day 2" || item.Completed || item.DeferredDate != "2024-10-16" {
		t.Errorf("deferred item = %+v", item)
	}
	if len(item.Actions) != 2 || item.Actions[0].Label != "Restore" || item.Actions[1].Label != "Restore & Complete" {
		t.Errorf("deferred actions = %+v", item.Actions)
	}
}

func TestFailedUndeferSkipsCompletion(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	if err := h.eng.Defer(ctx, 12); err != nil {
		t.Fatalf("Defer: %v", err)
	}
	h.srv.FailOn(http.MethodPost, "/api/undefer", http.StatusInternalServerError)
	h.srv.ResetCalls()

	err := h.eng.UndeferAndComplete(ctx, 12, true)
	if !errors.Is(err, ErrMutation) {
		t.Fatalf("UndeferAndComplete error = %v, want ErrMutation", err)
	}
	if got := h.srv.Calls(http.MethodPost, "/api/progress"); got != 0 {
		t.Errorf("progress calls = %d, want 0", got)
	}

	msgs := h.notices.messages()
	if len(msgs) != 2 || msgs[1] != MsgRestoreFailed {
		t.Errorf("notices = %v, want one restore failure after the defer notice", msgs)
	}

	list, err := h.eng.ShowDeferred(ctx)
	if err != nil {
		t.Fatalf("ShowDeferred: %v", err)
	}
	if _, ok := list.Find(12); !ok {
		t.Error("question 12 should still be deferred")
	}
}

func TestUndeferAndComplete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	if err := h.eng.Defer(ctx, 12); err != nil {
		t.Fatalf("Defer: %v", err)
	}
	if err := h.eng.UndeferAndComplete(ctx, 12, true); err != nil {
		t.Fatalf("UndeferAndComplete: %v", err)
	}
	h.eng.Wait()

	c := h.card(t, 12)
	if c.State != render.StateCompleted {
		t.Errorf("restored card state = %s", c.State)
	}
	list := h.eng.Deferred()
	if list == nil || len(list.Items) != 0 || list.Empty != render.EmptyDeferredMessage {
		t.Errorf("deferred list = %+v", list)
	}
}

func TestUndeferRestoresToDay(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	h.eng.Defer(ctx, 7)
	if err := h.eng.Undefer(ctx, 7); err != nil {
		t.Fatalf("Undefer: %v", err)
	}
	if c := h.card(t, 7); c.State != render.StateNew {
		t.Errorf("restored card = %+v", c)
	}
	msgs := h.notices.messages()
	if msgs[len(msgs)-1] != MsgRestored {
		t.Errorf("notices = %v", msgs)
	}
	if got := h.srv.Calls(http.MethodGet, "/api/deferred"); got != 1 {
		t.Errorf("deferred list refreshes = %d, want 1", got)
	}
}

func TestSaveEmptyNote(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture(), WithNoteSavedFlash(20*time.Millisecond))
	h.start(t)

	if err := h.eng.SaveNote(ctx, 5, ""); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	c := h.card(t, 5)
	if c.Note.Icon != render.NoteIconEmpty || c.Note.Preview != "" {
		t.Errorf("note view = %+v, want empty icon and no preview", c.Note)
	}
	if !c.Note.Saved {
		t.Error("saved flag not raised")
	}
	if got := h.srv.Calls(http.MethodGet, "/api/plan/2"); got != 0 {
		t.Errorf("saving a note reloaded the day %d times", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.card(t, 5).Note.Saved {
		if time.Now().After(deadline) {
			t.Fatal("saved flag never reverted")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if text, err := h.eng.LoadNote(ctx, 5); err != nil || text != "" {
		t.Errorf("LoadNote = %q, %v", text, err)
	}
}

func TestSaveNoteUpdatesPreview(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	if err := h.eng.SaveNote(ctx, 7, "two pointers after sorting"); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	c := h.card(t, 7)
	if c.Note.Icon != render.NoteIconPresent || c.Note.Preview != "two pointers after sorting" {
		t.Errorf("note view = %+v", c.Note)
	}
	if c.State != render.StateNew {
		t.Errorf("saving a note changed the card state to %s", c.State)
	}
}

func TestMalformedLists(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)
	h.srv.SetMalformedLists(true)

	if _, err := h.eng.ShowReview(ctx); !errors.Is(err, ErrMalformedList) {
		t.Errorf("ShowReview error = %v, want ErrMalformedList", err)
	}
	if _, err := h.eng.ShowDeferred(ctx); !errors.Is(err, ErrMalformedList) {
		t.Errorf("ShowDeferred error = %v, want ErrMalformedList", err)
	}
	for _, n := range h.notices.all() {
		if n.Message != MsgInvalidFormat {
			t.Errorf("notice = %q, want %q", n.Message, MsgInvalidFormat)
		}
	}

	h.srv.SetMalformedLists(false)
	h.srv.FailOn(http.MethodGet, "/api/review", http.StatusInternalServerError)
	if _, err := h.eng.ShowReview(ctx); !errors.Is(err, ErrListLoad) {
		t.Errorf("ShowReview error = %v, want ErrListLoad", err)
	}
	msgs := h.notices.messages()
	if msgs[len(msgs)-1] != MsgReviewLoadFailed {
		t.Errorf("last notice = %q", msgs[len(msgs)-1])
	}
}

func TestShowReview(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	list, err := h.eng.ShowReview(ctx)
	if err != nil {
		t.Fatalf("ShowReview: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("review items = %+v", list.Items)
	}
	if list.Items[0].CompletedDate != "2024-10-15" || list.Items[0].PreviouslyWrong {
		t.Errorf("review item = %+v", list.Items[0])
	}
}

func TestPlanLoadFailureKeepsPage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	h.srv.FailOn(http.MethodGet, "/api/plan/3", http.StatusInternalServerError)
	err := h.eng.LoadDay(ctx, 3)
	if !errors.Is(err, ErrPlanLoad) {
		t.Fatalf("LoadDay error = %v, want ErrPlanLoad", err)
	}

	if day := h.eng.Day(); day.Day != 2 {
		t.Errorf("page shows day %d, want the previous day 2", day.Day)
	}
	if got := h.eng.CurrentDay(); got != 2 {
		t.Errorf("active day = %d, want the previous day 2", got)
	}
	notices := h.notices.all()
	if len(notices) != 1 || notices[0].Kind != NoticeBlocking || notices[0].Message != MsgPlanLoadFailed {
		t.Errorf("notices = %+v", notices)
	}
}

func TestPlanLoadFailureKeepsActiveDay(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	before := h.eng.Calendar()
	h.srv.FailOn(http.MethodGet, "/api/plan/1", http.StatusInternalServerError)
	if err := h.eng.LoadDay(ctx, 1); !errors.Is(err, ErrPlanLoad) {
		t.Fatalf("LoadDay error = %v, want ErrPlanLoad", err)
	}

	if got := h.eng.CurrentDay(); got != 2 {
		t.Errorf("active day = %d after a failed load, want 2", got)
	}
	after := h.eng.Calendar()
	if len(after) != len(before) {
		t.Fatalf("calendar has %d entries, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i].IsActive != after[i].IsActive || before[i].IsCompleted != after[i].IsCompleted {
			t.Errorf("calendar day %d changed: %+v -> %+v", before[i].Day, before[i], after[i])
		}
	}

	// the visible day-2 card must survive the next reload
	if err := h.eng.MarkComplete(ctx, 7, false); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	h.eng.Wait()

	if day := h.eng.Day(); day.Day != 2 {
		t.Errorf("page shows day %d after the reload, want 2", day.Day)
	}
	if c := h.card(t, 7); c.State != render.StateWrong {
		t.Errorf("card 7 state = %s, want wrong", c.State)
	}
	if got := h.srv.Calls(http.MethodGet, "/api/plan/1"); got != 1 {
		t.Errorf("plan/1 calls = %d, want only the failed attempt", got)
	}
}

func TestMutationFailureLeavesViewUntouched(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	before := h.card(t, 7)
	h.srv.FailOn(http.MethodPost, "/api/progress", http.StatusInternalServerError)

	if err := h.eng.MarkComplete(ctx, 7, true); !errors.Is(err, ErrMutation) {
		t.Fatalf("MarkComplete error = %v, want ErrMutation", err)
	}
	if !sameCard(before, h.card(t, 7)) {
		t.Error("card changed after a failed mutation")
	}
	if got := h.srv.Calls(http.MethodPost, "/api/progress"); got != 1 {
		t.Errorf("progress calls = %d, want a single attempt", got)
	}
	if got := h.srv.Calls(http.MethodGet, "/api/statistics"); got != 0 {
		t.Errorf("statistics refreshed %d times after a failure", got)
	}
	if msgs := h.notices.messages(); len(msgs) != 1 || msgs[0] != MsgUpdateFailed {
		t.Errorf("notices = %v", msgs)
	}

	if err := h.eng.MarkIncomplete(ctx, 7); !errors.Is(err, ErrMutation) {
		t.Fatalf("MarkIncomplete error = %v, want ErrMutation", err)
	}
	if msgs := h.notices.messages(); msgs[len(msgs)-1] != MsgUndoFailed {
		t.Errorf("notices = %v", msgs)
	}
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	if err := h.eng.Dispatch(ctx, Command{Action: "explode", QuestionID: 5}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown action error = %v", err)
	}

	if err := h.eng.Dispatch(ctx, Command{Action: render.ActionWrong, QuestionID: 5}); err != nil {
		t.Fatalf("dispatch wrong: %v", err)
	}
	if c := h.card(t, 5); c.State != render.StateWrong {
		t.Errorf("state = %s, want wrong", c.State)
	}

	if err := h.eng.Dispatch(ctx, Command{Action: render.ActionToggleNote, QuestionID: 5}); err != nil {
		t.Fatalf("dispatch toggle: %v", err)
	}
	if !h.card(t, 5).Note.Open {
		t.Error("note editor not opened")
	}
	if err := h.eng.Dispatch(ctx, Command{Action: render.ActionToggleNote, QuestionID: 99}); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("toggle of unknown card error = %v", err)
	}

	if err := h.eng.Dispatch(ctx, Command{Action: render.ActionSaveNote, QuestionID: 5, Text: "retry"}); err != nil {
		t.Fatalf("dispatch save note: %v", err)
	}
	if c := h.card(t, 5); c.Note.Preview != "retry" {
		t.Errorf("note preview = %q", c.Note.Preview)
	}

	if err := h.eng.Dispatch(ctx, Command{Action: render.ActionUndo, QuestionID: 5}); err != nil {
		t.Fatalf("dispatch undo: %v", err)
	}
	if c := h.card(t, 5); c.State != render.StateNew {
		t.Errorf("state after undo = %s", c.State)
	}
	h.eng.Wait()
}

func TestConcurrentActions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, planFixture())
	h.start(t)

	var wg sync.WaitGroup
	for _, id := range []int{5, 7, 12} {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := h.eng.MarkComplete(ctx, id, true); err != nil {
				t.Errorf("MarkComplete(%d): %v", id, err)
			}
		}(id)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.eng.SaveNote(ctx, 1, "hash map of complements")
	}()
	wg.Wait()
	h.eng.Wait()

	// Settle on the server's final state
	if err := h.eng.LoadDay(ctx, 2); err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	for _, id := range []int{5, 7, 12} {
		if c := h.card(t, id); c.State != render.StateCompleted {
			t.Errorf("card %d state = %s", id, c.State)
		}
	}
}
