package exam

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// ErrSprintIncomplete is returned when finalization is requested with
// unanswered questions and no explicit confirmation.
var ErrSprintIncomplete = errors.New("sprint has unanswered questions")

// SprintMachine governs a practice session's lifecycle:
//
//	InProgress → Archiving → Completed
//
// Archiving is the window in which placeholder attempts are synthesized and
// each attempt is persisted individually; only after every write lands does
// the sprint become Completed.
type SprintMachine struct {
	mu      sync.Mutex
	phase   Phase
	session *model.PracticeSession
}

// NewSprint constructs an in-progress practice session over a generated
// question set.
func NewSprint(userID uuid.UUID, topic, difficulty string, questions []model.CodingQuestion, now time.Time) *SprintMachine {
	return &SprintMachine{
		phase: PhaseInProgress,
		session: &model.PracticeSession{
			ID:          uuid.New(),
			UserID:      userID,
			Topic:       topic,
			Difficulty:  difficulty,
			Questions:   questions,
			Attempts:    map[string]*model.PracticeAttempt{},
			StartTime:   now,
			IsCompleted: false,
		},
	}
}

// Phase returns the current lifecycle phase.
func (s *SprintMachine) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Session returns a shallow snapshot of the sprint for serving.
func (s *SprintMachine) Session() *model.PracticeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.session
	attempts := make(map[string]*model.PracticeAttempt, len(s.session.Attempts))
	for id, a := range s.session.Attempts {
		att := *a
		attempts[id] = &att
	}
	cp.Attempts = attempts
	return &cp
}

// Question returns the sprint question with the given id, if any.
func (s *SprintMachine) Question(questionID string) *model.CodingQuestion {
	for i := range s.session.Questions {
		if s.session.Questions[i].ID == questionID {
			return &s.session.Questions[i]
		}
	}
	return nil
}

// RecordAttempt stores (or overwrites) the attempt for one question.
func (s *SprintMachine) RecordAttempt(attempt *model.PracticeAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		if s.phase == PhaseCompleted {
			return ErrSessionCompleted
		}
		return ErrBadTransition
	}
	if !s.session.HasQuestion(attempt.Question.ID) {
		return ErrUnknownQuestion
	}
	s.session.Attempts[attempt.Question.ID] = attempt
	return nil
}

// AttemptCount returns how many questions have a recorded attempt.
func (s *SprintMachine) AttemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.session.Attempts)
}

// QuestionCount returns the sprint's fixed question count.
func (s *SprintMachine) QuestionCount() int { return len(s.session.Questions) }

// FillPlaceholders moves InProgress → Archiving and guarantees one attempt
// per question: real attempts are kept, unanswered questions get a
// zero-score placeholder with an empty answer and the safe run result.
// confirmPartial must be true when any placeholder would be created.
// Returns all attempts in question order.
func (s *SprintMachine) FillPlaceholders(userID uuid.UUID, fallbackLanguage string, confirmPartial bool, now time.Time) ([]*model.PracticeAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseCompleted:
		return nil, ErrSessionCompleted
	case PhaseInProgress, PhaseArchiving:
		// Archiving re-entry is allowed so a failed persistence pass can
		// be retried without losing placeholders.
	default:
		return nil, ErrBadTransition
	}

	if len(s.session.Attempts) < len(s.session.Questions) && !confirmPartial {
		return nil, ErrSprintIncomplete
	}

	out := make([]*model.PracticeAttempt, 0, len(s.session.Questions))
	for i := range s.session.Questions {
		q := s.session.Questions[i]
		if existing, ok := s.session.Attempts[q.ID]; ok {
			out = append(out, existing)
			continue
		}
		placeholder := &model.PracticeAttempt{
			ID:        uuid.New(),
			UserID:    userID,
			Question:  q,
			Answer:    "",
			Language:  fallbackLanguage,
			RunResult: model.SafeRunResult(),
			Timestamp: now,
			Score:     0,
		}
		s.session.Attempts[q.ID] = placeholder
		out = append(out, placeholder)
	}

	s.phase = PhaseArchiving
	return out, nil
}

// Complete marks the sprint finished once every attempt is persisted.
func (s *SprintMachine) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseArchiving {
		if s.phase == PhaseCompleted {
			return ErrSessionCompleted
		}
		return ErrBadTransition
	}
	s.session.IsCompleted = true
	s.phase = PhaseCompleted
	return nil
}
