package exam

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

func completedSession(start time.Time, readiness int, company string) model.ExamSession {
	s := model.ExamSession{
		ID:          uuid.New(),
		Exam:        *testExam(),
		StartTime:   start,
		IsCompleted: true,
		Results:     &model.ExamResults{ReadinessScore: readiness},
	}
	s.Exam.Company = company
	s.Exam.Inference = &model.CompanyInference{Company: company, Vibe: "fast-paced"}
	return s
}

func TestComputeHistoryAverageReadiness(t *testing.T) {
	now := time.Now()
	sessions := []model.ExamSession{
		completedSession(now.Add(-3*time.Hour), 80, "Acme"),
		completedSession(now.Add(-2*time.Hour), 60, "Globex"),
		completedSession(now.Add(-1*time.Hour), 100, "Acme"),
	}

	h := ComputeHistory(sessions, nil)
	if h.AverageReadiness != 80 {
		t.Errorf("average readiness = %d, want 80", h.AverageReadiness)
	}

	// Newest first.
	for i := 1; i < len(h.Sessions); i++ {
		if h.Sessions[i].StartTime.After(h.Sessions[i-1].StartTime) {
			t.Fatal("sessions not sorted newest first")
		}
	}

	if len(h.DiscoveredCompanies) != 2 {
		t.Errorf("discovered companies = %d, want 2", len(h.DiscoveredCompanies))
	}
}

func TestComputeHistoryRoundsMean(t *testing.T) {
	now := time.Now()
	sessions := []model.ExamSession{
		completedSession(now, 70, "Acme"),
		completedSession(now, 75, "Acme"),
	}
	// Mean 72.5 rounds to 73.
	if got := ComputeHistory(sessions, nil).AverageReadiness; got != 73 {
		t.Errorf("average readiness = %d, want 73", got)
	}
}

func TestComputeHistoryEmptyAndIncomplete(t *testing.T) {
	if got := ComputeHistory(nil, nil).AverageReadiness; got != 0 {
		t.Errorf("empty history average = %d, want 0", got)
	}

	// In-progress sessions don't count toward the mean.
	inProgress := model.ExamSession{ID: uuid.New(), Exam: *testExam(), StartTime: time.Now()}
	h := ComputeHistory([]model.ExamSession{inProgress}, nil)
	if h.AverageReadiness != 0 {
		t.Errorf("average with only in-progress = %d, want 0", h.AverageReadiness)
	}
	if h.PracticeAttempts == nil {
		t.Error("practice attempts should be an empty slice, not nil")
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Easy", "Easy"},
		{"very easy", "Easy"},
		{"Medium", "Medium"},
		{"Hard", "Hard"},
		{"Very Hard", "Hard"},
		{"Ultra Hard", "Hard"},
		{"  hard  ", "Hard"},
		{"Somewhat Easy-ish", "Easy"},
		{"brutally hard", "Hard"},
		{"unknown", "Medium"},
		{"", "Medium"},
	}
	for _, tc := range cases {
		if got := NormalizeDifficulty(tc.in); got != tc.want {
			t.Errorf("NormalizeDifficulty(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestComputePracticeStats(t *testing.T) {
	attempt := func(difficulty, topic string) model.PracticeAttempt {
		return model.PracticeAttempt{
			ID:       uuid.New(),
			Question: model.CodingQuestion{ID: uuid.New().String(), Difficulty: difficulty, Topic: topic},
		}
	}

	attempts := []model.PracticeAttempt{
		attempt("Easy", "Trees"),
		attempt("Very Hard", "Trees"),
		attempt("Medium", "Graphs"),
		attempt("weird", ""),
	}

	stats := ComputePracticeStats(attempts)
	if stats.TotalSolved != 4 {
		t.Errorf("total solved = %d, want 4", stats.TotalSolved)
	}
	if stats.DifficultyBreakdown.Easy != 1 || stats.DifficultyBreakdown.Hard != 1 || stats.DifficultyBreakdown.Medium != 2 {
		t.Errorf("breakdown = %+v, want {1 2 1}", stats.DifficultyBreakdown)
	}
	if stats.TopicsSolved["Trees"] != 2 || stats.TopicsSolved["Graphs"] != 1 {
		t.Errorf("topics = %v", stats.TopicsSolved)
	}
	if _, ok := stats.TopicsSolved[""]; ok {
		t.Error("empty topic counted")
	}
}
