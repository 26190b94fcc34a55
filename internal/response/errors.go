package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Assessment lifecycle ──────────────────────────────────────────
	ErrSessionNotFound   ErrCode = "SESSION_NOT_FOUND"
	ErrSessionActive     ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionCompleted  ErrCode = "SESSION_COMPLETED"
	ErrBadTransition     ErrCode = "INVALID_SESSION_STATE"
	ErrQuestionNotFound  ErrCode = "QUESTION_NOT_FOUND"
	ErrGenerationFailed  ErrCode = "GENERATION_FAILED"
	ErrEvaluationFailed  ErrCode = "EVALUATION_FAILED"
	ErrJudgeUnavailable  ErrCode = "JUDGE_UNAVAILABLE"
	ErrPersistenceFailed ErrCode = "PERSISTENCE_FAILED"

	// ─── Practice ──────────────────────────────────────────────────────
	ErrSprintNotFound   ErrCode = "SPRINT_NOT_FOUND"
	ErrSprintIncomplete ErrCode = "SPRINT_INCOMPLETE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."

	// ─── Assessment lifecycle ──────────────────────────────────────────
	case ErrSessionNotFound:
		return "No active assessment session was found."
	case ErrSessionActive:
		return "An assessment session is already in progress."
	case ErrSessionCompleted:
		return "This assessment session has already been completed."
	case ErrBadTransition:
		return "This action is not allowed in the session's current state."
	case ErrQuestionNotFound:
		return "The question does not belong to this session."
	case ErrGenerationFailed:
		return "Assessment generation failed. Please try again."
	case ErrEvaluationFailed:
		return "Assessment evaluation failed. The session was discarded; please start a new assessment."
	case ErrJudgeUnavailable:
		return "Code execution is temporarily unavailable."
	case ErrPersistenceFailed:
		return "Saving your session failed. Please retry."

	// ─── Practice ──────────────────────────────────────────────────────
	case ErrSprintNotFound:
		return "No active practice sprint was found."
	case ErrSprintIncomplete:
		return "The sprint has unanswered questions. Confirm to finish anyway."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
