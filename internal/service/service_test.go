package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/config"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// deadRedis returns a client pointing nowhere. Checkpoint and snapshot
// writes fail and are logged; the services must keep working regardless.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 10 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
}

// ─── Oracle fake ────────────────────────────────────────────────────────────

type fakeOracle struct {
	mu sync.Mutex

	exam      *model.Exam
	genErr    error
	questions []model.CodingQuestion

	judgeResult *model.RunResult
	judgeErr    error

	evalResults *model.ExamResults
	evalErr     error
	evalCalls   int32
	evalDelay   time.Duration
}

func (f *fakeOracle) GenerateAssessment(_ context.Context, company, role string, level model.PositionLevel) (*model.Exam, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	exam := *f.exam
	exam.Company = company
	exam.Role = role
	exam.Level = level
	return &exam, nil
}

func (f *fakeOracle) GeneratePracticeSet(_ context.Context, topic, difficulty string) ([]model.CodingQuestion, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	out := make([]model.CodingQuestion, len(f.questions))
	copy(out, f.questions)
	for i := range out {
		out[i].Topic = topic
		out[i].Difficulty = difficulty
	}
	return out, nil
}

func (f *fakeOracle) JudgeCode(_ context.Context, _ model.CodingQuestion, _, _ string) (*model.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.judgeErr != nil {
		return nil, f.judgeErr
	}
	result := *f.judgeResult
	return &result, nil
}

func (f *fakeOracle) Evaluate(_ context.Context, _ *model.Exam, _ map[string]*model.UserAnswer) (*model.ExamResults, error) {
	atomic.AddInt32(&f.evalCalls, 1)
	if f.evalDelay > 0 {
		time.Sleep(f.evalDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	results := *f.evalResults
	return &results, nil
}

func (f *fakeOracle) setJudgeErr(err error) {
	f.mu.Lock()
	f.judgeErr = err
	f.mu.Unlock()
}

func (f *fakeOracle) setEvalErr(err error) {
	f.mu.Lock()
	f.evalErr = err
	f.mu.Unlock()
}

// ─── Store fakes ────────────────────────────────────────────────────────────

type fakeSessionStore struct {
	mu      sync.Mutex
	saved   []model.ExamSession
	saveErr error
	latest  *model.ExamSession
}

func (f *fakeSessionStore) SaveExamSession(_ context.Context, s *model.ExamSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	// Upsert by id with the frozen-row guard, matching the real repository:
	// an in-progress snapshot never overwrites a completed row.
	for i := range f.saved {
		if f.saved[i].ID == s.ID {
			if f.saved[i].IsCompleted && !s.IsCompleted {
				return nil
			}
			f.saved[i] = *s
			return nil
		}
	}
	f.saved = append(f.saved, *s)
	return nil
}

func (f *fakeSessionStore) setSaveErr(err error) {
	f.mu.Lock()
	f.saveErr = err
	f.mu.Unlock()
}

func (f *fakeSessionStore) SessionsForUser(_ context.Context, userID uuid.UUID) ([]model.ExamSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ExamSession
	for _, s := range f.saved {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) LatestInProgress(_ context.Context, userID uuid.UUID) (*model.ExamSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest != nil && f.latest.UserID == userID {
		cp := *f.latest
		return &cp, nil
	}
	return nil, errors.New("session not found")
}

func (f *fakeSessionStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeAttemptStore struct {
	mu       sync.Mutex
	saved    []model.PracticeAttempt
	failures int // fail this many SavePracticeAttempt calls, then succeed
}

func (f *fakeAttemptStore) SavePracticeAttempt(_ context.Context, a *model.PracticeAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("write failed")
	}
	// Upsert by id, matching the real repository.
	for i := range f.saved {
		if f.saved[i].ID == a.ID {
			f.saved[i] = *a
			return nil
		}
	}
	f.saved = append(f.saved, *a)
	return nil
}

func (f *fakeAttemptStore) AttemptsForUser(_ context.Context, userID uuid.UUID) ([]model.PracticeAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PracticeAttempt
	for _, a := range f.saved {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

// ─── Shared fixtures ────────────────────────────────────────────────────────

func fixtureExam() *model.Exam {
	return &model.Exam{
		ID:          "exam-1",
		TimeMinutes: 90,
		Sections: model.ExamSections{
			Technical: []model.MCQQuestion{
				{ID: "t1", Question: "Q1", Options: []string{"a", "b"}, Section: model.SectionTechnical},
			},
			Coding: []model.CodingQuestion{
				{ID: "c1", Title: "Two Sum", Section: model.SectionCoding},
			},
			Quantitative: []model.MCQQuestion{
				{ID: "q1", Question: "Q2", Options: []string{"a", "b"}, Section: model.SectionQuantitative},
			},
			Reasoning: []model.MCQQuestion{
				{ID: "r1", Question: "Q3", Options: []string{"a", "b"}, Section: model.SectionReasoning},
			},
		},
	}
}

func fixtureResults() *model.ExamResults {
	return &model.ExamResults{
		TotalScore:      75,
		ReadinessScore:  80,
		OverallFeedback: "Solid run.",
		SectionScores:   map[string]int{"technical": 80, "coding": 70},
		Evaluations: []model.EvaluationResult{
			{QuestionID: "t1", Score: 100},
			{QuestionID: "c1", Score: 60},
			{QuestionID: "q1", Score: 100},
			{QuestionID: "r1", Score: 40},
		},
	}
}

func fixtureQuestions(n int) []model.CodingQuestion {
	out := make([]model.CodingQuestion, n)
	for i := range out {
		out[i] = model.CodingQuestion{ID: string(rune('a' + i)), Title: "Problem"}
	}
	return out
}

func newTestAssessmentService(oracle Oracle, store SessionStore) *AssessmentService {
	return NewAssessmentService(testConfig(), oracle, store, deadRedis(), zerolog.Nop())
}

func newTestPracticeService(oracle Oracle, store AttemptStore) *PracticeService {
	return NewPracticeService(oracle, store, deadRedis(), zerolog.Nop())
}
