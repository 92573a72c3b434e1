package models

// Statistics are the global counters reported by the server
type Statistics struct {
	TotalQuestions int            `json:"total_questions"`
	TotalCompleted int            `json:"total_completed"`
	TotalCorrect   int            `json:"total_correct"`
	TotalWrong     int            `json:"total_wrong"`
	StreakDays     int            `json:"streak_days"`
	ByCategory     map[string]int `json:"by_category"`
	ByDifficulty   map[string]int `json:"by_difficulty"`
}
