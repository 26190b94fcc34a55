package exam

import (
	"errors"
	"testing"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

func TestLedgerRecordChoice(t *testing.T) {
	l := NewLedger(testExam())

	if err := l.RecordChoice("t1", "b"); err != nil {
		t.Fatalf("RecordChoice: %v", err)
	}
	if got := l.Get("t1").Answer; got != "b" {
		t.Errorf("answer = %q, want %q", got, "b")
	}

	// Overwrite replaces.
	if err := l.RecordChoice("t1", "c"); err != nil {
		t.Fatalf("RecordChoice overwrite: %v", err)
	}
	if got := l.Get("t1").Answer; got != "c" {
		t.Errorf("answer = %q, want %q", got, "c")
	}

	if err := l.RecordChoice("nope", "a"); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("unknown question err = %v, want ErrUnknownQuestion", err)
	}
}

func TestLedgerCodeStatesPerLanguage(t *testing.T) {
	l := NewLedger(testExam())

	if err := l.RecordCode("c1", "python", "print(1)"); err != nil {
		t.Fatalf("RecordCode python: %v", err)
	}
	if err := l.RecordCode("c1", "java", "class A {}"); err != nil {
		t.Fatalf("RecordCode java: %v", err)
	}

	a := l.Get("c1")
	if a.CodeStates["python"] != "print(1)" {
		t.Errorf("python state = %q, want preserved", a.CodeStates["python"])
	}
	if a.CodeStates["java"] != "class A {}" {
		t.Errorf("java state = %q", a.CodeStates["java"])
	}
	if a.Language != "java" || a.Answer != "class A {}" {
		t.Errorf("active answer = (%q, %q), want latest edit", a.Language, a.Answer)
	}
}

func TestLedgerEditInvalidatesRunResult(t *testing.T) {
	l := NewLedger(testExam())

	if err := l.RecordCode("c1", "python", "v1"); err != nil {
		t.Fatal(err)
	}
	if !l.AttachRunResult("c1", &model.RunResult{Passed: true, Score: 100}) {
		t.Fatal("AttachRunResult dropped a live answer")
	}

	// Same text keeps the result.
	if err := l.RecordCode("c1", "python", "v1"); err != nil {
		t.Fatal(err)
	}
	if l.Get("c1").RunResult == nil {
		t.Error("identical rewrite cleared the run result")
	}

	// Different text clears it.
	if err := l.RecordCode("c1", "python", "v2"); err != nil {
		t.Fatal(err)
	}
	if l.Get("c1").RunResult != nil {
		t.Error("edit kept a stale run result")
	}
}

func TestLedgerAttachRunResultStale(t *testing.T) {
	l := NewLedger(testExam())

	// No answer recorded yet: the result is stale and must be dropped.
	if l.AttachRunResult("c1", &model.RunResult{Passed: true}) {
		t.Error("stale run result was attached")
	}
	if l.Get("c1") != nil {
		t.Error("stale attach created an answer entry")
	}
}

func TestLedgerSeedCode(t *testing.T) {
	l := NewLedger(testExam())

	// Question starter wins when present.
	got, err := l.SeedCode("c1", "python")
	if err != nil {
		t.Fatalf("SeedCode: %v", err)
	}
	if got != "def solve():\n    pass" {
		t.Errorf("seed = %q, want question starter", got)
	}

	// Global template fallback for languages without a question starter.
	got, err = l.SeedCode("c1", "cpp")
	if err != nil {
		t.Fatalf("SeedCode cpp: %v", err)
	}
	if got != model.StarterTemplates["cpp"] {
		t.Errorf("cpp seed = %q, want global template", got)
	}

	// User edits are never overwritten by a re-seed.
	if err := l.RecordCode("c1", "python", "my work"); err != nil {
		t.Fatal(err)
	}
	got, err = l.SeedCode("c1", "python")
	if err != nil {
		t.Fatal(err)
	}
	if got != "my work" {
		t.Errorf("re-seed = %q, want existing user code", got)
	}

	if _, err := l.SeedCode("t1", "python"); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("seeding an MCQ err = %v, want ErrUnknownQuestion", err)
	}
}

func TestLedgerSnapshotIsDeepCopy(t *testing.T) {
	l := NewLedger(testExam())
	if err := l.RecordCode("c1", "python", "v1"); err != nil {
		t.Fatal(err)
	}

	snap := l.Snapshot()
	snap["c1"].CodeStates["python"] = "mutated"
	snap["c1"].Answer = "mutated"

	if l.Get("c1").Answer == "mutated" || l.Get("c1").CodeStates["python"] == "mutated" {
		t.Error("mutating a snapshot leaked into the ledger")
	}
}

func TestRestoreLedgerDropsForeignEntries(t *testing.T) {
	answers := map[string]*model.UserAnswer{
		"t1":    {QuestionID: "t1", Answer: "a"},
		"ghost": {QuestionID: "ghost", Answer: "x"},
	}
	l := RestoreLedger(testExam(), answers)

	if l.Get("t1") == nil {
		t.Error("valid entry dropped on restore")
	}
	if l.Get("ghost") != nil {
		t.Error("foreign entry survived restore")
	}
}
