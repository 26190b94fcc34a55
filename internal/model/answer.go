package model

// TestCaseResult is one judged test case in a RunResult.
type TestCaseResult struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	ActualOutput   string `json:"actualOutput"`
	Passed         bool   `json:"passed"`
	IsHidden       bool   `json:"isHidden,omitempty"`
	Category       string `json:"category,omitempty"`
}

// RunResult is the outcome of judging a code submission.
type RunResult struct {
	Passed          bool             `json:"passed"`
	Score           int              `json:"score"`
	TestCaseResults []TestCaseResult `json:"testCaseResults"`
}

// SafeRunResult is the degraded judge outcome used when the oracle fails or
// a question was never attempted: nothing passed, zero score, no cases.
func SafeRunResult() *RunResult {
	return &RunResult{Passed: false, Score: 0, TestCaseResults: []TestCaseResult{}}
}

// UserAnswer is the mutable per-question answer record. For MCQs Answer holds
// the selected option index as a string; for coding questions it holds the
// current code text and CodeStates keeps the last-edited code per language so
// switching language tabs never loses work.
type UserAnswer struct {
	QuestionID string            `json:"questionId"`
	Answer     string            `json:"answer"`
	Language   string            `json:"language,omitempty"`
	CodeStates map[string]string `json:"codeStates,omitempty"`
	RunResult  *RunResult        `json:"runResult,omitempty"`
}

// Clone returns a deep copy so callers can snapshot ledger state safely.
func (a *UserAnswer) Clone() *UserAnswer {
	if a == nil {
		return nil
	}
	cp := *a
	if a.CodeStates != nil {
		cp.CodeStates = make(map[string]string, len(a.CodeStates))
		for k, v := range a.CodeStates {
			cp.CodeStates[k] = v
		}
	}
	if a.RunResult != nil {
		rr := *a.RunResult
		rr.TestCaseResults = append([]TestCaseResult(nil), a.RunResult.TestCaseResults...)
		cp.RunResult = &rr
	}
	return &cp
}
