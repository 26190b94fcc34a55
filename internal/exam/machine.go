package exam

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// Phase names a state in the session lifecycle.
type Phase string

const (
	PhaseSetup      Phase = "SETUP"
	PhaseGenerating Phase = "GENERATING"
	PhaseIntro      Phase = "INTRO"
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseGrading    Phase = "GRADING"
	PhaseCompleted  Phase = "COMPLETED"
	PhaseArchiving  Phase = "ARCHIVING"
	PhaseFailed     Phase = "FAILED"
)

var (
	// ErrBadTransition is returned for an operation illegal in the
	// machine's current phase.
	ErrBadTransition = errors.New("operation not allowed in current phase")

	// ErrSessionCompleted is returned for mutations on a frozen session.
	ErrSessionCompleted = errors.New("session is already completed")

	// ErrGradingInFlight is returned when a second completion request
	// arrives while grading is running.
	ErrGradingInFlight = errors.New("grading already in flight")
)

// Machine governs one exam session's lifecycle:
//
//	Intro → InProgress → Grading → Completed
//
// with a failed Grading discarding the session back to Setup. The machine
// holds the session, its answer ledger, and a mutex so the countdown stream
// and HTTP mutations cannot interleave. All methods are safe for concurrent
// use.
type Machine struct {
	mu      sync.Mutex
	phase   Phase
	session *model.ExamSession
	ledger  *Ledger
}

// NewMachine constructs a fresh session around a generated exam. The session
// starts in Intro with an empty ledger; the countdown is anchored at now, so
// time spent reading the intro burns exam time.
func NewMachine(userID uuid.UUID, generated *model.Exam, now time.Time) *Machine {
	session := &model.ExamSession{
		ID:             uuid.New(),
		UserID:         userID,
		Exam:           *generated,
		Answers:        map[string]*model.UserAnswer{},
		StartTime:      now,
		IsCompleted:    false,
		CurrentSection: model.SectionOrder[0],
		CurrentIdx:     0,
	}
	return &Machine{
		phase:   PhaseIntro,
		session: session,
		ledger:  NewLedger(&session.Exam),
	}
}

// Restore rebuilds a machine from a persisted in-progress snapshot. The
// session resumes directly in InProgress at its last-viewed position.
func Restore(session *model.ExamSession) (*Machine, error) {
	if session.IsCompleted {
		return nil, ErrSessionCompleted
	}
	restored := *session
	return &Machine{
		phase:   PhaseInProgress,
		session: &restored,
		ledger:  RestoreLedger(&restored.Exam, session.Answers),
	}, nil
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// SessionID returns the immutable session id.
func (m *Machine) SessionID() uuid.UUID { return m.session.ID }

// ExamID returns the immutable exam id.
func (m *Machine) ExamID() string { return m.session.Exam.ID }

// Begin moves Intro → InProgress, starting the countdown for callers that
// poll Remaining.
func (m *Machine) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseIntro {
		return ErrBadTransition
	}
	m.phase = PhaseInProgress
	return nil
}

// Remaining returns countdown seconds left at the given instant.
func (m *Machine) Remaining(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.RemainingSeconds(now)
}

// Expired reports whether the countdown has reached zero.
func (m *Machine) Expired(now time.Time) bool {
	return m.Remaining(now) == 0
}

// Navigate switches the active section/question pointer. Out-of-range
// indices are clamped into [0, len-1]; a section change without an explicit
// index resets to 0.
func (m *Machine) Navigate(section model.SectionType, idx *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseInProgress {
		return ErrBadTransition
	}

	target := 0
	if idx != nil {
		target = *idx
	}

	n := m.session.Exam.SectionLen(section)
	if n == 0 {
		target = 0
	} else {
		if target < 0 {
			target = 0
		}
		if target > n-1 {
			target = n - 1
		}
	}

	m.session.CurrentSection = section
	m.session.CurrentIdx = target
	return nil
}

// RecordChoice stores an MCQ selection. InProgress only.
func (m *Machine) RecordChoice(questionID, choice string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireInProgress(); err != nil {
		return err
	}
	return m.ledger.RecordChoice(questionID, choice)
}

// RecordCode stores a code edit. InProgress only.
func (m *Machine) RecordCode(questionID, language, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireInProgress(); err != nil {
		return err
	}
	return m.ledger.RecordCode(questionID, language, code)
}

// SeedCode prepares editor text for a coding question/language pair.
func (m *Machine) SeedCode(questionID, language string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireInProgress(); err != nil {
		return "", err
	}
	return m.ledger.SeedCode(questionID, language)
}

// Answer returns a copy of the current answer for a question, or nil.
func (m *Machine) Answer(questionID string) *model.UserAnswer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Get(questionID).Clone()
}

// AttachRunResult stores a judge outcome if the question still has a live
// answer entry; stale results are dropped.
func (m *Machine) AttachRunResult(questionID string, result *model.RunResult) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseInProgress {
		return false
	}
	return m.ledger.AttachRunResult(questionID, result)
}

// BeginGrading claims the single completion slot. The first caller moves
// InProgress → Grading and receives the final answer snapshot to grade.
// Callers hitting an already-completed machine get ErrSessionCompleted;
// callers racing an in-flight grading get ErrGradingInFlight. Together with
// the mutex this makes completion idempotent: the countdown expiring and a
// manual submit can both call it, but only one grading fires.
func (m *Machine) BeginGrading() (map[string]*model.UserAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.phase {
	case PhaseCompleted:
		return nil, ErrSessionCompleted
	case PhaseGrading:
		return nil, ErrGradingInFlight
	case PhaseInProgress:
		m.phase = PhaseGrading
		return m.ledger.Snapshot(), nil
	default:
		return nil, ErrBadTransition
	}
}

// Complete freezes the session: answers and results attached, IsCompleted
// set, phase Completed. Only legal from Grading.
func (m *Machine) Complete(answers map[string]*model.UserAnswer, results *model.ExamResults, now time.Time) (*model.ExamSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseGrading {
		if m.phase == PhaseCompleted {
			return m.snapshotLocked(), nil
		}
		return nil, ErrBadTransition
	}

	m.session.Answers = answers
	m.session.Results = results
	m.session.IsCompleted = true
	m.session.UpdatedAt = now
	m.phase = PhaseCompleted
	return m.snapshotLocked(), nil
}

// FailGrading abandons an in-flight grading attempt and discards the
// session: the machine drops back to Setup and rejects all further
// operations. Grading failure is terminal for the attempt; the user starts
// a fresh session.
func (m *Machine) FailGrading() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseGrading {
		m.phase = PhaseSetup
	}
}

// Snapshot returns a deep copy of the session with the ledger's live answers
// folded in, suitable for checkpointing or serving to the client.
func (m *Machine) Snapshot() *model.ExamSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() *model.ExamSession {
	cp := *m.session
	if m.phase == PhaseCompleted {
		answers := make(map[string]*model.UserAnswer, len(m.session.Answers))
		for id, a := range m.session.Answers {
			answers[id] = a.Clone()
		}
		cp.Answers = answers
	} else {
		cp.Answers = m.ledger.Snapshot()
	}
	return &cp
}

func (m *Machine) requireInProgress() error {
	switch m.phase {
	case PhaseInProgress:
		return nil
	case PhaseCompleted:
		return ErrSessionCompleted
	default:
		return ErrBadTransition
	}
}
