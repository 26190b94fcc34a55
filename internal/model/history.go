package model

// UserHistory is a derived, read-only view over a user's stored sessions and
// attempts. Never persisted; recomputed on demand.
type UserHistory struct {
	Sessions            []ExamSession               `json:"sessions"`
	PracticeAttempts    []PracticeAttempt           `json:"practiceAttempts"`
	AverageReadiness    int                         `json:"averageReadiness"`
	DiscoveredCompanies map[string]CompanyInference `json:"discoveredCompanies"`
}

// DifficultyBreakdown buckets solved practice questions into the three
// canonical difficulty tiers.
type DifficultyBreakdown struct {
	Easy   int `json:"Easy"`
	Medium int `json:"Medium"`
	Hard   int `json:"Hard"`
}

// PracticeStats summarizes a user's practice attempts for the hub screen.
type PracticeStats struct {
	TotalSolved         int                 `json:"totalSolved"`
	DifficultyBreakdown DifficultyBreakdown `json:"difficultyBreakdown"`
	TopicsSolved        map[string]int      `json:"topicsSolved"`
}
