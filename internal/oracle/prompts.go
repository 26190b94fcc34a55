package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// buildAssessmentPrompt asks the model for a complete multi-section exam
// shaped by the level's difficulty DNA.
func buildAssessmentPrompt(company, role string, level model.PositionLevel) string {
	dna := model.LevelProfiles[level]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ACT AS A SENIOR RECRUITMENT ARCHITECT FOR %s.\n", company))
	sb.WriteString(fmt.Sprintf("GENERATE A PROFESSIONAL MULTI-SECTION EXAM FOR THE %s ROLE AT %s LEVEL.\n\n", role, level))

	sb.WriteString("DIFFICULTY TARGETS (DNA SCALING):\n")
	sb.WriteString(fmt.Sprintf("- Very Easy: %d%%\n", dna.Difficulty.VeryEasy))
	sb.WriteString(fmt.Sprintf("- Easy: %d%%\n", dna.Difficulty.Easy))
	sb.WriteString(fmt.Sprintf("- Medium: %d%%\n", dna.Difficulty.Medium))
	sb.WriteString(fmt.Sprintf("- Hard: %d%%\n", dna.Difficulty.Hard))
	sb.WriteString(fmt.Sprintf("- Very Hard: %d%%\n", dna.Difficulty.VeryHard))
	sb.WriteString(fmt.Sprintf("- Ultra Hard: %d%%\n\n", dna.Difficulty.UltraHard))

	sb.WriteString(fmt.Sprintf("CANDIDATE FOCUS: %s\n", dna.Focus))
	sb.WriteString(fmt.Sprintf("SUGGESTED TOPICS: %s\n\n", strings.Join(dna.Topics, ", ")))

	sb.WriteString("MANDATORY REQUIREMENTS:\n")
	sb.WriteString("- EXACTLY 2 (TWO) CODING QUESTIONS.\n")
	sb.WriteString("- 5 TECHNICAL MCQS, 5 QUANTITATIVE, 5 REASONING.\n")
	sb.WriteString("- Each MCQ has options (array of strings), correctAnswer (zero-based index), explanation, topic.\n")
	sb.WriteString("- Each coding question has title, problem, constraints, samples (input/output/explanation),\n")
	sb.WriteString("  hidden_tests (input/output), solution_code, solution_explanation, difficulty, topic,\n")
	sb.WriteString("  and starterCodes keyed by language (javascript, typescript, python, java, cpp).\n\n")

	sb.WriteString("Respond ONLY with a JSON object of this shape, no text outside the JSON:\n")
	sb.WriteString(`{"sections":{"technical":[...],"coding":[...],"quantitative":[...],"reasoning":[...]},` +
		`"timeMinutes":<number>,` +
		`"inference":{"vibe":"...","predictedTopics":[...],"confidence":"High|Medium|Low",` +
		`"category":"...","assumptions":[...],"includesAptitude":<bool>}}`)
	sb.WriteString("\n")

	return sb.String()
}

// buildPracticeSetPrompt asks for a fixed-size set of coding problems on one
// topic at one difficulty.
func buildPracticeSetPrompt(topic, difficulty string, count int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("GENERATE A SET OF EXACTLY %d UNIQUE PROBLEMS FOR TOPIC: %q AT %s LEVEL.\n\n", count, topic, difficulty))
	sb.WriteString("Each problem has title, problem, constraints, samples (input/output/explanation),\n")
	sb.WriteString("hidden_tests (input/output), solution_code, solution_explanation,\n")
	sb.WriteString("and starterCodes keyed by language (javascript, typescript, python, java, cpp).\n\n")
	sb.WriteString("Respond ONLY with a JSON array of problem objects, no text outside the JSON.\n")
	return sb.String()
}

// buildJudgePrompt asks the model to evaluate a code submission against the
// question's sample and hidden tests plus synthesized edge cases.
func buildJudgePrompt(question model.CodingQuestion, code, language string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("JUDGE THE FOLLOWING %s CODE FOR THE PROBLEM: %s\n\n", strings.ToUpper(language), question.Title))
	sb.WriteString("PROBLEM STATEMENT:\n" + question.Problem + "\n\n")
	if question.Constraints != "" {
		sb.WriteString("CONSTRAINTS:\n" + question.Constraints + "\n\n")
	}

	if len(question.Samples) > 0 {
		sb.WriteString("SAMPLE TESTS:\n")
		for _, s := range question.Samples {
			sb.WriteString(fmt.Sprintf("- input: %s -> output: %s\n", s.Input, s.Output))
		}
		sb.WriteString("\n")
	}
	if len(question.HiddenTests) > 0 {
		sb.WriteString("HIDDEN TESTS (mark their results isHidden=true):\n")
		for _, h := range question.HiddenTests {
			sb.WriteString(fmt.Sprintf("- input: %s -> output: %s\n", h.Input, h.Output))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("CODE:\n" + code + "\n\n")
	sb.WriteString(fmt.Sprintf("EVALUATE AGAINST %d TEST CASES total, simulating execution faithfully.\n", judgeCaseCount))
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"passed":<bool>,"score":<0-100>,"testCaseResults":[` +
		`{"input":"...","expectedOutput":"...","actualOutput":"...","passed":<bool>,"isHidden":<bool>,"category":"..."}]}`)
	sb.WriteString("\n")
	return sb.String()
}

// buildEvaluationPrompt asks for a holistic grade of the full exam. The exam
// and answers are embedded as JSON so the model sees correct answers and the
// user's final state side by side.
func buildEvaluationPrompt(exam *model.Exam, answers map[string]*model.UserAnswer) (string, error) {
	examJSON, err := json.Marshal(exam)
	if err != nil {
		return "", fmt.Errorf("marshal exam: %w", err)
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("GRADE THE EXAM ANSWERS AGAINST THE EXAM METADATA.\n")
	sb.WriteString("Produce one evaluation entry per question in the exam (even unanswered ones),\n")
	sb.WriteString("a 0-100 score per entry, section scores, a 0-100 readiness score, and overall feedback.\n\n")
	sb.WriteString("EXAM:\n")
	sb.Write(examJSON)
	sb.WriteString("\n\nANSWERS:\n")
	sb.Write(answersJSON)
	sb.WriteString("\n\nRespond ONLY with a JSON object:\n")
	sb.WriteString(`{"totalScore":<number>,"readinessScore":<0-100>,"overallFeedback":"...",` +
		`"sectionScores":{"technical":<n>,"coding":<n>,"quantitative":<n>,"reasoning":<n>},` +
		`"evaluations":[{"questionId":"...","score":<0-100>,"feedback":"...",` +
		`"correctSolution":"...","passedCount":<n>,"totalCount":<n>}]}`)
	sb.WriteString("\n")
	return sb.String(), nil
}
