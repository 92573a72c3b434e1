package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/leetplan/plansync/internal/models"
)

// Header holds the counters shown above the plan
type Header struct {
	Completed int
	Total     int
	Progress  string
	Ratio     float64
	Streak    string
	Accuracy  int
}

// AccuracyLabel formats accuracy as a percentage
func (h Header) AccuracyLabel() string {
	return fmt.Sprintf("%d%%", h.Accuracy)
}

// Accuracy returns round(correct / completed * 100), or 0 when nothing
// has been completed.
func Accuracy(correct, completed int) int {
	if completed <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(completed) * 100))
}

// HeaderFrom derives the header counters from server totals
func HeaderFrom(stats models.Statistics) Header {
	h := Header{
		Completed: stats.TotalCompleted,
		Total:     stats.TotalQuestions,
		Progress:  fmt.Sprintf("%d/%d", stats.TotalCompleted, stats.TotalQuestions),
		Streak:    fmt.Sprintf("%d days", stats.StreakDays),
		Accuracy:  Accuracy(stats.TotalCorrect, stats.TotalCompleted),
	}
	if stats.TotalQuestions > 0 {
		h.Ratio = float64(stats.TotalCompleted) / float64(stats.TotalQuestions)
	}
	return h
}

// Count is one row of a breakdown
type Count struct {
	Name  string
	Count int
}

// StatisticsView is the full statistics panel
type StatisticsView struct {
	Header       Header
	Correct      int
	Wrong        int
	StreakDays   int
	ByCategory   []Count
	ByDifficulty []Count
}

// RenderStatistics builds the statistics panel. Categories are sorted by
// count descending then name; difficulties follow Easy, Medium, Hard.
func RenderStatistics(stats models.Statistics) StatisticsView {
	v := StatisticsView{
		Header:     HeaderFrom(stats),
		Correct:    stats.TotalCorrect,
		Wrong:      stats.TotalWrong,
		StreakDays: stats.StreakDays,
	}

	for name, n := range stats.ByCategory {
		v.ByCategory = append(v.ByCategory, Count{Name: name, Count: n})
	}
	sort.Slice(v.ByCategory, func(i, j int) bool {
		if v.ByCategory[i].Count != v.ByCategory[j].Count {
			return v.ByCategory[i].Count > v.ByCategory[j].Count
		}
		return v.ByCategory[i].Name < v.ByCategory[j].Name
	})

	rank := map[string]int{
		string(models.DifficultyEasy):   0,
		string(models.DifficultyMedium): 1,
		string(models.DifficultyHard):   2,
	}
	for name, n := range stats.ByDifficulty {
		v.ByDifficulty = append(v.ByDifficulty, Count{Name: name, Count: n})
	}
	sort.Slice(v.ByDifficulty, func(i, j int) bool {
		ri, iok := rank[v.ByDifficulty[i].Name]
		rj, jok := rank[v.ByDifficulty[j].Name]
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri < rj
		}
		return v.ByDifficulty[i].Name < v.ByDifficulty[j].Name
	})

	return v
}
