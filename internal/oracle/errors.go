package oracle

import "errors"

// Failure taxonomy for oracle calls. Callers branch on these with errors.Is.
var (
	// ErrGeneration means the oracle produced no or invalid JSON while
	// synthesizing an exam or practice set. Recoverable — the user retries.
	ErrGeneration = errors.New("oracle generation failed")

	// ErrJudge means code judging failed. Callers degrade gracefully
	// (keep the prior run result, or substitute the safe zero result).
	ErrJudge = errors.New("oracle code judge failed")

	// ErrEvaluation means final grading failed. Fatal to that completion
	// attempt — never swallowed.
	ErrEvaluation = errors.New("oracle evaluation failed")
)
