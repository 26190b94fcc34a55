package exam

import (
	"math"
	"sort"
	"strings"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// ComputeHistory folds a user's stored sessions and attempts into the
// derived history view. Pure and deterministic: sessions sorted by recency,
// averageReadiness is the rounded mean of readiness scores over completed
// sessions only (0 when none), discovered companies collected from exam
// inference metadata.
func ComputeHistory(sessions []model.ExamSession, attempts []model.PracticeAttempt) model.UserHistory {
	sorted := append([]model.ExamSession(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})

	sum, completed := 0, 0
	companies := map[string]model.CompanyInference{}
	for i := range sorted {
		s := &sorted[i]
		if s.Exam.Inference != nil {
			if _, seen := companies[s.Exam.Company]; !seen {
				companies[s.Exam.Company] = *s.Exam.Inference
			}
		}
		if !s.IsCompleted {
			continue
		}
		completed++
		if s.Results != nil {
			sum += s.Results.ReadinessScore
		}
	}

	average := 0
	if completed > 0 {
		average = int(math.Round(float64(sum) / float64(completed)))
	}

	if attempts == nil {
		attempts = []model.PracticeAttempt{}
	}

	return model.UserHistory{
		Sessions:            sorted,
		PracticeAttempts:    attempts,
		AverageReadiness:    average,
		DiscoveredCompanies: companies,
	}
}

// NormalizeDifficulty maps any difficulty label onto the three canonical
// buckets: "Very Easy" collapses to Easy, "Very Hard" and "Ultra Hard" to
// Hard, and anything unrecognized defaults to Medium.
func NormalizeDifficulty(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy", "very easy":
		return "Easy"
	case "medium":
		return "Medium"
	case "hard", "very hard", "ultra hard":
		return "Hard"
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "easy"):
		return "Easy"
	case strings.Contains(lower, "hard"):
		return "Hard"
	default:
		return "Medium"
	}
}

// ComputePracticeStats tallies attempts by difficulty bucket and topic.
func ComputePracticeStats(attempts []model.PracticeAttempt) model.PracticeStats {
	stats := model.PracticeStats{
		TotalSolved:  len(attempts),
		TopicsSolved: map[string]int{},
	}

	for i := range attempts {
		q := &attempts[i].Question
		switch NormalizeDifficulty(q.Difficulty) {
		case "Easy":
			stats.DifficultyBreakdown.Easy++
		case "Hard":
			stats.DifficultyBreakdown.Hard++
		default:
			stats.DifficultyBreakdown.Medium++
		}
		if q.Topic != "" {
			stats.TopicsSolved[q.Topic]++
		}
	}

	return stats
}
