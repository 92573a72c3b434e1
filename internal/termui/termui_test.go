package termui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leetplan/plansync/internal/engine"
	"github.com/leetplan/plansync/internal/models"
	"github.com/leetplan/plansync/internal/render"
)

func samplePlan() *models.DayPlan {
	interval := 3
	return &models.DayPlan{
		Day:      4,
		PlanInfo: &models.PlanInfo{Description: "Sliding Window"},
		Sessions: models.Sessions{
			Morning: []models.Question{
				{ID: 9, Title: "Longest Substring Without Repeating Characters", LeetcodeID: 3, Difficulty: models.DifficultyMedium, Category: "Sliding Window", Note: "track last index"},
			},
			Evening: []models.Question{
				{ID: 2, Title: "Group Anagrams", LeetcodeID: 49, Difficulty: models.DifficultyMedium, Category: "Hash Table", ForReview: true, ReviewInterval: &interval, IsCorrect: models.Incorrect},
			},
		},
		Statistics: models.PlanStatistics{Total: 2, ForReview: 1},
	}
}

func TestDay(t *testing.T) {
	start := models.NewDate(time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC))
	out := Day(render.RenderDay(samplePlan(), start))

	for _, want := range []string{
		"Day 4 · Oct 18, 2024",
		"Sliding Window",
		"0/2 done · 1 for review",
		"🔴 Golden Hour",
		"🟢 Bronze Hour",
		"#9 Longest Substring Without Repeating Characters (LC 3)",
		"📝 track last index",
		"📚 Review (3 days ago)",
		"⚠️ Previously Wrong",
		"[complete: Review Complete]",
		"https://leetcode.com/problems/group-anagrams/",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("day output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Silver Hour") {
		t.Error("empty afternoon session rendered")
	}
	if strings.Contains(out, "deferred") || strings.Contains(out, "carried over") {
		t.Errorf("zero counters rendered:\n%s", out)
	}
}

func TestEmptyDay(t *testing.T) {
	out := Day(render.RenderDay(&models.DayPlan{Day: 12}, models.Date{}))
	if !strings.Contains(out, "Nothing planned") {
		t.Errorf("empty day output:\n%s", out)
	}
}

func TestCalendar(t *testing.T) {
	start := models.NewDate(time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC))
	entries := render.BuildCalendar(start, start.AddDays(1), 2)
	entries[0].IsCompleted = true

	out := Calendar(entries)
	if !strings.Contains(out, " 1 10/15 ✓") {
		t.Errorf("completed day not marked:\n%s", out)
	}
	if !strings.Contains(out, "30 11/13") {
		t.Errorf("last day missing:\n%s", out)
	}
	if strings.Count(out, "✓") != 1 {
		t.Errorf("expected exactly one completed mark:\n%s", out)
	}
}

func TestHeaderAndStatistics(t *testing.T) {
	stats := models.Statistics{
		TotalQuestions: 120,
		TotalCompleted: 3,
		TotalCorrect:   2,
		TotalWrong:     1,
		StreakDays:     2,
		ByCategory:     map[string]int{"Array": 2, "Graph": 1},
		ByDifficulty:   map[string]int{"Hard": 1, "Easy": 2},
	}

	header := Header(render.HeaderFrom(stats))
	for _, want := range []string{"3/120", "2 days", "67%"} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q: %s", want, header)
		}
	}

	out := Statistics(render.RenderStatistics(stats))
	if strings.Index(out, "Easy") > strings.Index(out, "Hard") {
		t.Errorf("difficulties out of order:\n%s", out)
	}
	if !strings.Contains(out, "Array") || !strings.Contains(out, "Wrong      1") {
		t.Errorf("statistics output:\n%s", out)
	}
}

func TestLists(t *testing.T) {
	if out := Review(render.RenderReview(nil)); !strings.Contains(out, render.EmptyReviewMessage) {
		t.Errorf("empty review output: %s", out)
	}
	if out := Deferred(render.RenderDeferred(nil)); !strings.Contains(out, render.EmptyDeferredMessage) {
		t.Errorf("empty deferred output: %s", out)
	}

	deferred := render.RenderDeferred([]models.DeferredEntry{{
		Question:     models.Question{ID: 12, Title: "Best Time to Buy and Sell Stock", DayNumber: 2, Difficulty: models.DifficultyEasy},
		DeferredDate: models.NewDate(time.Date(2024, time.October, 16, 0, 0, 0, 0, time.UTC)),
	}})
	out := Deferred(deferred)
	for _, want := range []string{"#12 Best Time", "Day 2", "deferred 2024-10-16", "[restore: Restore]", "[restore-complete: Restore & Complete]"} {
		if !strings.Contains(out, want) {
			t.Errorf("deferred output missing %q:\n%s", want, out)
		}
	}
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf)

	n.Notify(engine.Notice{Kind: engine.NoticeInfo, Message: engine.MsgRestored})
	n.Notify(engine.Notice{Kind: engine.NoticeBlocking, Message: engine.MsgPlanLoadFailed, Err: errors.New("boom")})

	out := buf.String()
	if !strings.Contains(out, engine.MsgRestored) || !strings.Contains(out, "‼ "+engine.MsgPlanLoadFailed) {
		t.Errorf("notifier output:\n%s", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected one line per notice:\n%s", out)
	}
}
