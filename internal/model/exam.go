package model

import "time"

// SectionType identifies one of the four exam sections.
type SectionType string

const (
	SectionTechnical    SectionType = "Technical"
	SectionCoding       SectionType = "Coding"
	SectionQuantitative SectionType = "Quantitative"
	SectionReasoning    SectionType = "Reasoning"
)

// SectionOrder is the canonical display order of sections.
var SectionOrder = []SectionType{
	SectionTechnical,
	SectionCoding,
	SectionQuantitative,
	SectionReasoning,
}

// PositionLevel enumerates the seniority tiers an exam can target.
type PositionLevel string

const (
	LevelIntern    PositionLevel = "Intern / Trainee"
	LevelFresher   PositionLevel = "Fresher / Graduate"
	LevelSDE1      PositionLevel = "SDE-1 / Junior"
	LevelSDE2      PositionLevel = "SDE-2 / Mid"
	LevelSenior    PositionLevel = "Senior / Lead"
	LevelArchitect PositionLevel = "Architect / Principal"
)

// MCQQuestion is a multiple-choice question. Immutable after generation.
type MCQQuestion struct {
	ID            string      `json:"id"`
	Question      string      `json:"question"`
	Options       []string    `json:"options"`
	CorrectAnswer int         `json:"correctAnswer"`
	Explanation   string      `json:"explanation"`
	Topic         string      `json:"topic"`
	Section       SectionType `json:"section"`
}

// SampleCase is a visible input/output pair on a coding question.
type SampleCase struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// HiddenTest is an input/output pair never shown to the user.
type HiddenTest struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// CodingQuestion is a free-form coding problem. Immutable after generation.
type CodingQuestion struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Problem             string            `json:"problem"`
	Constraints         string            `json:"constraints"`
	Samples             []SampleCase      `json:"samples"`
	HiddenTests         []HiddenTest      `json:"hidden_tests"`
	SolutionCode        string            `json:"solution_code"`
	SolutionExplanation string            `json:"solution_explanation"`
	Difficulty          string            `json:"difficulty"`
	Topic               string            `json:"topic"`
	StarterCodes        map[string]string `json:"starterCodes"`
	Section             SectionType       `json:"section"`
}

// ExamSections groups the four question lists of a generated exam.
type ExamSections struct {
	Technical    []MCQQuestion    `json:"technical"`
	Coding       []CodingQuestion `json:"coding"`
	Quantitative []MCQQuestion    `json:"quantitative"`
	Reasoning    []MCQQuestion    `json:"reasoning"`
}

// CompanyInference is descriptive metadata the oracle attaches to an exam.
type CompanyInference struct {
	Company          string   `json:"company"`
	Role             string   `json:"role"`
	Level            string   `json:"level"`
	Vibe             string   `json:"vibe"`
	PredictedTopics  []string `json:"predictedTopics"`
	Confidence       string   `json:"confidence"`
	Category         string   `json:"category"`
	Assumptions      []string `json:"assumptions"`
	IncludesAptitude bool     `json:"includesAptitude"`
}

// Exam is a generated assessment. Immutable once produced by the oracle.
type Exam struct {
	ID          string            `json:"id"`
	Company     string            `json:"company"`
	Role        string            `json:"role"`
	Level       PositionLevel     `json:"level"`
	Sections    ExamSections      `json:"sections"`
	TimeMinutes int               `json:"timeMinutes"`
	CreatedAt   time.Time         `json:"createdAt"`
	Inference   *CompanyInference `json:"inference,omitempty"`
}

// Section returns the MCQ list for a section, or nil for the coding section.
func (e *Exam) Section(s SectionType) []MCQQuestion {
	switch s {
	case SectionTechnical:
		return e.Sections.Technical
	case SectionQuantitative:
		return e.Sections.Quantitative
	case SectionReasoning:
		return e.Sections.Reasoning
	default:
		return nil
	}
}

// SectionLen returns the number of questions in a section.
func (e *Exam) SectionLen(s SectionType) int {
	if s == SectionCoding {
		return len(e.Sections.Coding)
	}
	return len(e.Section(s))
}

// QuestionCount returns the total question count across all sections.
func (e *Exam) QuestionCount() int {
	return len(e.Sections.Technical) +
		len(e.Sections.Coding) +
		len(e.Sections.Quantitative) +
		len(e.Sections.Reasoning)
}

// HasQuestion reports whether a question id belongs to this exam.
func (e *Exam) HasQuestion(questionID string) bool {
	for i := range e.Sections.Technical {
		if e.Sections.Technical[i].ID == questionID {
			return true
		}
	}
	for i := range e.Sections.Coding {
		if e.Sections.Coding[i].ID == questionID {
			return true
		}
	}
	for i := range e.Sections.Quantitative {
		if e.Sections.Quantitative[i].ID == questionID {
			return true
		}
	}
	for i := range e.Sections.Reasoning {
		if e.Sections.Reasoning[i].ID == questionID {
			return true
		}
	}
	return false
}

// CodingQuestion returns the coding question with the given id, if any.
func (e *Exam) CodingQuestion(questionID string) *CodingQuestion {
	for i := range e.Sections.Coding {
		if e.Sections.Coding[i].ID == questionID {
			return &e.Sections.Coding[i]
		}
	}
	return nil
}

// StartExamRequest is the payload for requesting a new generated exam.
type StartExamRequest struct {
	Company string `json:"company" binding:"required,min=1,max=120"`
	Role    string `json:"role" binding:"required,min=1,max=120"`
	Level   string `json:"level" binding:"required,max=40"`
}

// NavigateRequest moves the active section/question pointer.
type NavigateRequest struct {
	Section string `json:"section" binding:"required,oneof=Technical Coding Quantitative Reasoning"`
	Idx     *int   `json:"idx" binding:"omitempty"`
}

// AnswerPatchRequest merges a partial answer for one question.
type AnswerPatchRequest struct {
	Answer   string `json:"answer"`
	Language string `json:"language" binding:"omitempty,max=20"`
}

// RunCodeRequest asks the oracle to judge the submitted code.
type RunCodeRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required,max=20"`
}

// StartSprintRequest is the payload for requesting a practice sprint.
type StartSprintRequest struct {
	Topic      string `json:"topic" binding:"required,min=1,max=80"`
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
}
