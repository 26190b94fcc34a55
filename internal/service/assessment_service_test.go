package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/exam"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

func startReq() *model.StartExamRequest {
	return &model.StartExamRequest{Company: "Acme", Role: "Backend Engineer", Level: "sde1"}
}

func TestAssessmentFullLifecycle(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{
		exam: fixtureExam(),
		judgeResult: &model.RunResult{
			Passed: true,
			Score:  100,
			TestCaseResults: []model.TestCaseResult{
				{Input: "[2,7], 9", ExpectedOutput: "[0,1]", ActualOutput: "[0,1]", Passed: true},
			},
		},
		evalResults: fixtureResults(),
	}
	store := &fakeSessionStore{}
	svc := newTestAssessmentService(oracle, store)
	userID := uuid.New()

	session, err := svc.StartExam(ctx, userID, startReq())
	if err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if session.Exam.Company != "Acme" {
		t.Errorf("company = %q, want Acme", session.Exam.Company)
	}

	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if _, err := svc.SaveAnswer(ctx, userID, "t1", &model.AnswerPatchRequest{Answer: "1"}); err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}

	result, err := svc.RunCode(ctx, userID, "c1", &model.RunCodeRequest{Code: "def solve(): pass", Language: "python"})
	if err != nil {
		t.Fatalf("RunCode: %v", err)
	}
	if !result.Passed || result.Score != 100 {
		t.Errorf("run result = %+v", result)
	}

	current, remaining, err := svc.Current(userID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if remaining <= 0 {
		t.Errorf("remaining = %d, want positive", remaining)
	}
	if current.Answers["c1"] == nil || current.Answers["c1"].RunResult == nil {
		t.Fatal("coding answer missing attached run result")
	}

	completed, err := svc.Complete(ctx, userID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !completed.IsCompleted {
		t.Error("completed session not frozen")
	}
	if completed.Results == nil || completed.Results.ReadinessScore != 80 {
		t.Errorf("results = %+v", completed.Results)
	}
	if got := store.saveCount(); got != 1 {
		t.Errorf("persisted saves = %d, want 1", got)
	}
}

func TestAssessmentCompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{exam: fixtureExam(), evalResults: fixtureResults()}
	store := &fakeSessionStore{}
	svc := newTestAssessmentService(oracle, store)
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	first, err := svc.Complete(ctx, userID)
	if err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	second, err := svc.Complete(ctx, userID)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}

	if first.ID != second.ID {
		t.Error("repeat completion returned a different session")
	}
	if got := atomic.LoadInt32(&oracle.evalCalls); got != 1 {
		t.Errorf("evaluate calls = %d, want 1", got)
	}
	if got := store.saveCount(); got != 1 {
		t.Errorf("persisted saves = %d, want 1", got)
	}
}

func TestAssessmentConcurrentCompleteGradesOnce(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{
		exam:        fixtureExam(),
		evalResults: fixtureResults(),
		evalDelay:   20 * time.Millisecond,
	}
	store := &fakeSessionStore{}
	svc := newTestAssessmentService(oracle, store)
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	var wg sync.WaitGroup
	var successes int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := svc.Complete(ctx, userID)
			if err == nil && session != nil {
				atomic.AddInt32(&successes, 1)
			} else if err != nil && !errors.Is(err, exam.ErrGradingInFlight) {
				t.Errorf("unexpected Complete error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes == 0 {
		t.Fatal("no caller completed the session")
	}
	if got := atomic.LoadInt32(&oracle.evalCalls); got != 1 {
		t.Errorf("evaluate calls = %d, want 1", got)
	}
	if got := store.saveCount(); got != 1 {
		t.Errorf("persisted saves = %d, want 1", got)
	}
}

func TestAssessmentJudgeOutageKeepsPreviousResult(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{
		exam:        fixtureExam(),
		judgeResult: &model.RunResult{Passed: true, Score: 100},
		evalResults: fixtureResults(),
	}
	svc := newTestAssessmentService(oracle, &fakeSessionStore{})
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	code := &model.RunCodeRequest{Code: "def solve(): pass", Language: "python"}
	if _, err := svc.RunCode(ctx, userID, "c1", code); err != nil {
		t.Fatalf("RunCode: %v", err)
	}

	// Judge goes down; resubmitting the same code must not lose the earlier
	// run result.
	oracle.setJudgeErr(errors.New("oracle timeout"))
	if _, err := svc.RunCode(ctx, userID, "c1", code); !errors.Is(err, ErrJudgeUnavailable) {
		t.Fatalf("RunCode during outage = %v, want ErrJudgeUnavailable", err)
	}

	current, _, err := svc.Current(userID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	answer := current.Answers["c1"]
	if answer == nil || answer.RunResult == nil || answer.RunResult.Score != 100 {
		t.Errorf("previous run result lost: %+v", answer)
	}
}

func TestAssessmentEvaluationFailureDiscardsSession(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{exam: fixtureExam(), evalResults: fixtureResults()}
	store := &fakeSessionStore{}
	svc := newTestAssessmentService(oracle, store)
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := svc.SaveAnswer(ctx, userID, "t1", &model.AnswerPatchRequest{Answer: "0"}); err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}

	oracle.setEvalErr(errors.New("oracle overloaded"))
	if _, err := svc.Complete(ctx, userID); err == nil {
		t.Fatal("Complete succeeded despite evaluation failure")
	}

	// Grading failure is terminal: the session is gone, nothing persisted.
	if _, _, err := svc.Current(userID); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Current after failed grading = %v, want ErrNoActiveSession", err)
	}
	if got := store.saveCount(); got != 0 {
		t.Errorf("persisted saves = %d, want 0", got)
	}

	// The user can start a fresh session immediately.
	oracle.setEvalErr(nil)
	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam after discard: %v", err)
	}
}

func TestAssessmentCompleteBlocksOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{exam: fixtureExam(), evalResults: fixtureResults()}
	store := &fakeSessionStore{saveErr: errors.New("database down")}
	svc := newTestAssessmentService(oracle, store)
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// The commit failure is a blocking error for the caller.
	if _, err := svc.Complete(ctx, userID); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Complete with failing store = %v, want ErrPersistence", err)
	}

	// The store recovers; a retried Complete re-persists the frozen session
	// without grading again.
	store.setSaveErr(nil)
	completed, err := svc.Complete(ctx, userID)
	if err != nil {
		t.Fatalf("retry Complete: %v", err)
	}
	if !completed.IsCompleted || completed.Results == nil {
		t.Error("retried completion did not return the frozen session")
	}
	if got := atomic.LoadInt32(&oracle.evalCalls); got != 1 {
		t.Errorf("evaluate calls = %d, want 1", got)
	}
	if got := store.saveCount(); got != 1 {
		t.Errorf("persisted saves = %d, want 1", got)
	}

	// A further Complete is the plain idempotent path, no extra save.
	if _, err := svc.Complete(ctx, userID); err != nil {
		t.Fatalf("third Complete: %v", err)
	}
	if got := store.saveCount(); got != 1 {
		t.Errorf("persisted saves after third call = %d, want 1", got)
	}
}

func TestAssessmentStaleCheckpointKeepsCompletedRow(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{exam: fixtureExam(), evalResults: fixtureResults()}
	store := &fakeSessionStore{}
	svc := newTestAssessmentService(oracle, store)
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// An in-progress snapshot taken before submission, as the checkpoint
	// queue would hold it.
	stale, _, err := svc.Current(userID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}

	if _, err := svc.Complete(ctx, userID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// The backlogged checkpoint drains after the completion commit; it must
	// not reopen the frozen row.
	if err := store.SaveExamSession(ctx, stale); err != nil {
		t.Fatalf("stale save: %v", err)
	}

	rows, err := store.SessionsForUser(ctx, userID)
	if err != nil {
		t.Fatalf("SessionsForUser: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(rows))
	}
	if !rows[0].IsCompleted || rows[0].Results == nil {
		t.Error("stale checkpoint reopened the completed session")
	}
}

func TestAssessmentRunCodeNormalizesLanguage(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{
		exam:        fixtureExam(),
		judgeResult: &model.RunResult{Passed: true, Score: 100},
	}
	svc := newTestAssessmentService(oracle, &fakeSessionStore{})
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// An unsupported language falls back to the default, the same way a
	// saved answer does, so both write paths key codeStates consistently.
	if _, err := svc.RunCode(ctx, userID, "c1", &model.RunCodeRequest{Code: "solution", Language: "cobol"}); err != nil {
		t.Fatalf("RunCode: %v", err)
	}

	current, _, err := svc.Current(userID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	answer := current.Answers["c1"]
	if answer == nil {
		t.Fatal("coding answer missing")
	}
	fallback := model.SupportedLanguages[0]
	if answer.Language != fallback {
		t.Errorf("answer language = %q, want %q", answer.Language, fallback)
	}
	if answer.CodeStates[fallback] != "solution" {
		t.Errorf("codeStates[%q] = %q, want the submitted code", fallback, answer.CodeStates[fallback])
	}
	if _, ok := answer.CodeStates["cobol"]; ok {
		t.Error("unsupported language leaked into codeStates")
	}
}

func TestAssessmentRejectsSecondActiveSession(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{exam: fixtureExam(), evalResults: fixtureResults()}
	svc := newTestAssessmentService(oracle, &fakeSessionStore{})
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.StartExam(ctx, userID, startReq()); !errors.Is(err, ErrActiveSessionExists) {
		t.Fatalf("second StartExam = %v, want ErrActiveSessionExists", err)
	}

	// A different user is unaffected.
	if _, err := svc.StartExam(ctx, uuid.New(), startReq()); err != nil {
		t.Fatalf("StartExam for other user: %v", err)
	}
}

func TestAssessmentResumeFromStore(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{exam: fixtureExam(), evalResults: fixtureResults()}
	userID := uuid.New()

	stored := &model.ExamSession{
		ID:     uuid.New(),
		UserID: userID,
		Exam:   *fixtureExam(),
		Answers: map[string]*model.UserAnswer{
			"t1": {QuestionID: "t1", Answer: "1"},
		},
		StartTime:      time.Now().Add(-5 * time.Minute),
		CurrentSection: model.SectionTechnical,
	}
	store := &fakeSessionStore{latest: stored}
	svc := newTestAssessmentService(oracle, store)

	resumed, err := svc.Resume(ctx, userID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.ID != stored.ID {
		t.Errorf("resumed session id = %s, want %s", resumed.ID, stored.ID)
	}
	if resumed.Answers["t1"] == nil || resumed.Answers["t1"].Answer != "1" {
		t.Error("resumed session lost recorded answers")
	}

	// The resumed machine is live again.
	if _, err := svc.SaveAnswer(ctx, userID, "q1", &model.AnswerPatchRequest{Answer: "0"}); err != nil {
		t.Fatalf("SaveAnswer after resume: %v", err)
	}
	if _, err := svc.Complete(ctx, userID); err != nil {
		t.Fatalf("Complete after resume: %v", err)
	}
}

func TestAssessmentResumeWithNothingActive(t *testing.T) {
	oracle := &fakeOracle{exam: fixtureExam()}
	svc := newTestAssessmentService(oracle, &fakeSessionStore{})

	if _, err := svc.Resume(context.Background(), uuid.New()); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("Resume = %v, want ErrNoActiveSession", err)
	}
}

func TestAssessmentOperationsRequireSession(t *testing.T) {
	svc := newTestAssessmentService(&fakeOracle{exam: fixtureExam()}, &fakeSessionStore{})
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Begin(ctx, userID); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Begin = %v, want ErrNoActiveSession", err)
	}
	if _, _, err := svc.Current(userID); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Current = %v, want ErrNoActiveSession", err)
	}
	if _, err := svc.Complete(ctx, userID); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Complete = %v, want ErrNoActiveSession", err)
	}
}

func TestAssessmentSaveAnswerUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	svc := newTestAssessmentService(&fakeOracle{exam: fixtureExam()}, &fakeSessionStore{})
	userID := uuid.New()

	if _, err := svc.StartExam(ctx, userID, startReq()); err != nil {
		t.Fatalf("StartExam: %v", err)
	}
	if _, err := svc.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := svc.SaveAnswer(ctx, userID, "nope", &model.AnswerPatchRequest{Answer: "1"}); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("SaveAnswer = %v, want ErrQuestionNotFound", err)
	}
}
