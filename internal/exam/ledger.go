package exam

import (
	"errors"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// ErrUnknownQuestion is returned when an answer references a question id that
// does not exist in the originating exam.
var ErrUnknownQuestion = errors.New("question id not part of this exam")

// Ledger accumulates per-question answers for one live exam session. It is a
// pure in-memory structure with no I/O; the owning machine serializes access.
type Ledger struct {
	exam    *model.Exam
	answers map[string]*model.UserAnswer
}

// NewLedger creates an empty ledger bound to an exam's question set.
func NewLedger(exam *model.Exam) *Ledger {
	return &Ledger{exam: exam, answers: make(map[string]*model.UserAnswer)}
}

// RestoreLedger rebuilds a ledger from persisted answers, dropping entries
// that no longer match the exam's question set.
func RestoreLedger(exam *model.Exam, answers map[string]*model.UserAnswer) *Ledger {
	l := NewLedger(exam)
	for id, a := range answers {
		if a == nil || !exam.HasQuestion(id) {
			continue
		}
		l.answers[id] = a.Clone()
	}
	return l
}

// Get returns the answer for a question, or nil if untouched.
func (l *Ledger) Get(questionID string) *model.UserAnswer {
	return l.answers[questionID]
}

// Len returns the number of questions with recorded answers.
func (l *Ledger) Len() int { return len(l.answers) }

// RecordChoice replaces the MCQ answer for a question.
func (l *Ledger) RecordChoice(questionID, choice string) error {
	if !l.exam.HasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	a := l.answers[questionID]
	if a == nil {
		a = &model.UserAnswer{QuestionID: questionID}
		l.answers[questionID] = a
	}
	a.Answer = choice
	return nil
}

// RecordCode updates the code answer for a question under the given
// language, preserving every other language's saved code. Editing the code
// text for a language invalidates any attached run result — it was produced
// against the old text. Writing identical text keeps it.
func (l *Ledger) RecordCode(questionID, language, code string) error {
	if !l.exam.HasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	a := l.answers[questionID]
	if a == nil {
		a = &model.UserAnswer{QuestionID: questionID}
		l.answers[questionID] = a
	}
	if a.CodeStates == nil {
		a.CodeStates = make(map[string]string)
	}

	prev, had := a.CodeStates[language]
	if had && prev != code {
		a.RunResult = nil
	}

	a.Answer = code
	a.Language = language
	a.CodeStates[language] = code
	return nil
}

// SeedCode ensures a coding question has editor text for the given language,
// preferring (in order) an existing codeStates entry, the question's starter
// template, then the global per-language template. A non-empty existing
// entry is never overwritten. Returns the text the editor should show.
func (l *Ledger) SeedCode(questionID, language string) (string, error) {
	q := l.exam.CodingQuestion(questionID)
	if q == nil {
		return "", ErrUnknownQuestion
	}

	a := l.answers[questionID]
	if a != nil && a.CodeStates != nil {
		if existing, ok := a.CodeStates[language]; ok && existing != "" {
			a.Answer = existing
			a.Language = language
			return existing, nil
		}
	}

	starter := q.StarterCodes[language]
	if starter == "" {
		starter = model.StarterTemplates[language]
	}

	if a == nil {
		a = &model.UserAnswer{QuestionID: questionID}
		l.answers[questionID] = a
	}
	if a.CodeStates == nil {
		a.CodeStates = make(map[string]string)
	}
	a.CodeStates[language] = starter
	a.Answer = starter
	a.Language = language
	return starter, nil
}

// AttachRunResult stores a judge outcome on an existing answer. Results for
// questions with no recorded answer are dropped (stale responses arriving
// after navigation) and reported as false.
func (l *Ledger) AttachRunResult(questionID string, result *model.RunResult) bool {
	a := l.answers[questionID]
	if a == nil || result == nil {
		return false
	}
	a.RunResult = result
	return true
}

// Snapshot returns a deep copy of all answers keyed by question id.
func (l *Ledger) Snapshot() map[string]*model.UserAnswer {
	out := make(map[string]*model.UserAnswer, len(l.answers))
	for id, a := range l.answers {
		out[id] = a.Clone()
	}
	return out
}
