package model

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationResult is the oracle's grade for a single question.
type EvaluationResult struct {
	QuestionID      string `json:"questionId"`
	Score           int    `json:"score"`
	Feedback        string `json:"feedback"`
	CorrectSolution string `json:"correctSolution"`
	PassedCount     int    `json:"passedCount"`
	TotalCount      int    `json:"totalCount"`
}

// ExamResults is the oracle's holistic grade for a completed exam.
type ExamResults struct {
	TotalScore      int                `json:"totalScore"`
	ReadinessScore  int                `json:"readinessScore"`
	OverallFeedback string             `json:"overallFeedback"`
	SectionScores   map[string]int     `json:"sectionScores"`
	Evaluations     []EvaluationResult `json:"evaluations"`
}

// ExamSession is one user's run through a generated exam. Answers accumulate
// while the session is live; once IsCompleted is set the session is frozen.
type ExamSession struct {
	ID             uuid.UUID              `json:"id"`
	UserID         uuid.UUID              `json:"user_id"`
	Exam           Exam                   `json:"exam"`
	Answers        map[string]*UserAnswer `json:"answers"`
	StartTime      time.Time              `json:"startTime"`
	IsCompleted    bool                   `json:"isCompleted"`
	CurrentSection SectionType            `json:"currentSection"`
	CurrentIdx     int                    `json:"currentIdx"`
	Results        *ExamResults           `json:"results,omitempty"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// RemainingSeconds computes countdown time left at the given instant,
// floored at zero.
func (s *ExamSession) RemainingSeconds(now time.Time) int {
	elapsed := int(now.Sub(s.StartTime).Seconds())
	remaining := s.Exam.TimeMinutes*60 - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PracticeAttempt is one finalized attempt at a practice question. Exactly
// one exists per question in a finalized sprint; unanswered questions get a
// zero-score placeholder.
type PracticeAttempt struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Question  CodingQuestion `json:"question"`
	Answer    string         `json:"answer"`
	Language  string         `json:"language"`
	RunResult *RunResult     `json:"runResult"`
	Timestamp time.Time      `json:"timestamp"`
	Score     int            `json:"score"`
}

// PracticeSession is a sprint of coding questions on one topic/difficulty.
type PracticeSession struct {
	ID          uuid.UUID                   `json:"id"`
	UserID      uuid.UUID                   `json:"user_id"`
	Topic       string                      `json:"topic"`
	Difficulty  string                      `json:"difficulty"`
	Questions   []CodingQuestion            `json:"questions"`
	Attempts    map[string]*PracticeAttempt `json:"attempts"`
	StartTime   time.Time                   `json:"startTime"`
	IsCompleted bool                        `json:"isCompleted"`
}

// HasQuestion reports whether a question id belongs to this sprint.
func (s *PracticeSession) HasQuestion(questionID string) bool {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			return true
		}
	}
	return false
}
