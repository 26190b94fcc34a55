package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/config"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

const (
	// practiceSetSize is the fixed sprint length.
	practiceSetSize = 5
	// judgeCaseCount is how many test cases the judge reports on.
	judgeCaseCount = 15
	// defaultExamMinutes backstops a missing timeMinutes in a response.
	defaultExamMinutes = 90
)

// Client wraps an OpenAI-compatible API behind the four gateway operations
// the session flows depend on. All responses are normalized and strictly
// decoded; shape mismatches surface as the typed gateway errors.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a gateway client from application config.
func New(cfg *config.Config, log zerolog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.OracleAPIKey)
	if cfg.OracleBaseURL != "" {
		apiCfg.BaseURL = cfg.OracleBaseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.OracleModel,
		timeout: cfg.OracleTimeout,
		log:     log.With().Str("component", "oracle").Logger(),
	}
}

// complete performs one JSON-mode chat completion and returns the normalized
// response body.
func (c *Client) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("oracle API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	c.log.Debug().Int("bytes", len(raw)).Msg("oracle response received")
	return NormalizeResponse(raw), nil
}

// examWire is the decode target for assessment synthesis. IDs and section
// tags are assigned locally after decoding.
type examWire struct {
	Sections struct {
		Technical    []model.MCQQuestion    `json:"technical"`
		Coding       []model.CodingQuestion `json:"coding"`
		Quantitative []model.MCQQuestion    `json:"quantitative"`
		Reasoning    []model.MCQQuestion    `json:"reasoning"`
	} `json:"sections"`
	TimeMinutes int                     `json:"timeMinutes"`
	Inference   *model.CompanyInference `json:"inference"`
}

// GenerateAssessment synthesizes a complete multi-section exam.
func (c *Client) GenerateAssessment(ctx context.Context, company, role string, level model.PositionLevel) (*model.Exam, error) {
	body, err := c.complete(ctx, buildAssessmentPrompt(company, role, level), 0.7)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var wire examWire
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return nil, fmt.Errorf("%w: parse exam synthesis: %v", ErrGeneration, err)
	}
	if len(wire.Sections.Technical) == 0 && len(wire.Sections.Coding) == 0 &&
		len(wire.Sections.Quantitative) == 0 && len(wire.Sections.Reasoning) == 0 {
		return nil, fmt.Errorf("%w: exam synthesis produced no questions", ErrGeneration)
	}

	exam := &model.Exam{
		ID:          uuid.New().String(),
		Company:     company,
		Role:        role,
		Level:       level,
		TimeMinutes: wire.TimeMinutes,
		CreatedAt:   time.Now(),
	}
	if exam.TimeMinutes <= 0 {
		exam.TimeMinutes = defaultExamMinutes
	}

	exam.Sections.Technical = tagMCQs(wire.Sections.Technical, model.SectionTechnical)
	exam.Sections.Quantitative = tagMCQs(wire.Sections.Quantitative, model.SectionQuantitative)
	exam.Sections.Reasoning = tagMCQs(wire.Sections.Reasoning, model.SectionReasoning)
	exam.Sections.Coding = tagCoding(wire.Sections.Coding, model.SectionCoding, "", "")

	if wire.Inference != nil {
		inf := *wire.Inference
		inf.Company = company
		inf.Role = role
		inf.Level = string(level)
		exam.Inference = &inf
	}

	c.log.Info().
		Str("company", company).
		Int("questions", exam.QuestionCount()).
		Int("time_minutes", exam.TimeMinutes).
		Msg("assessment generated")

	return exam, nil
}

// GeneratePracticeSet synthesizes the fixed-size sprint question set.
func (c *Client) GeneratePracticeSet(ctx context.Context, topic, difficulty string) ([]model.CodingQuestion, error) {
	body, err := c.complete(ctx, buildPracticeSetPrompt(topic, difficulty, practiceSetSize), 0.7)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	questions, err := decodePracticeSet(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	questions = tagCoding(questions, model.SectionCoding, topic, difficulty)
	return questions, nil
}

// decodePracticeSet parses a practice synthesis response. JSON mode may wrap
// the array in an object; both shapes are accepted. The sprint contract is a
// full set of practiceSetSize problems; any other count is a failed
// generation.
func decodePracticeSet(body string) ([]model.CodingQuestion, error) {
	var questions []model.CodingQuestion
	if err := json.Unmarshal([]byte(body), &questions); err != nil {
		var wrapped struct {
			Problems  []model.CodingQuestion `json:"problems"`
			Questions []model.CodingQuestion `json:"questions"`
		}
		if err2 := json.Unmarshal([]byte(body), &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse practice set: %w", err)
		}
		questions = wrapped.Problems
		if len(questions) == 0 {
			questions = wrapped.Questions
		}
	}
	if len(questions) != practiceSetSize {
		return nil, fmt.Errorf("practice set synthesis produced %d problems, want %d", len(questions), practiceSetSize)
	}
	return questions, nil
}

// JudgeCode asks the oracle to simulate running the submission. Errors are
// returned as-is; callers decide how to degrade (the exam flow keeps the
// prior run result, the practice flow substitutes model.SafeRunResult).
func (c *Client) JudgeCode(ctx context.Context, question model.CodingQuestion, code, language string) (*model.RunResult, error) {
	body, err := c.complete(ctx, buildJudgePrompt(question, code, language), 0.2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJudge, err)
	}

	var result model.RunResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("%w: parse judge response: %v", ErrJudge, err)
	}
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	if result.TestCaseResults == nil {
		result.TestCaseResults = []model.TestCaseResult{}
	}
	return &result, nil
}

// Evaluate grades the full exam. Failures here abort session completion.
func (c *Client) Evaluate(ctx context.Context, exam *model.Exam, answers map[string]*model.UserAnswer) (*model.ExamResults, error) {
	prompt, err := buildEvaluationPrompt(exam, answers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	body, err := c.complete(ctx, prompt, 0.1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	var results model.ExamResults
	if err := json.Unmarshal([]byte(body), &results); err != nil {
		return nil, fmt.Errorf("%w: parse evaluation: %v", ErrEvaluation, err)
	}
	if len(results.Evaluations) == 0 {
		return nil, fmt.Errorf("%w: evaluation contained no per-question entries", ErrEvaluation)
	}
	if results.SectionScores == nil {
		results.SectionScores = map[string]int{}
	}
	return &results, nil
}

func tagMCQs(list []model.MCQQuestion, section model.SectionType) []model.MCQQuestion {
	out := make([]model.MCQQuestion, 0, len(list))
	for _, q := range list {
		q.ID = uuid.New().String()
		q.Section = section
		out = append(out, q)
	}
	return out
}

func tagCoding(list []model.CodingQuestion, section model.SectionType, topic, difficulty string) []model.CodingQuestion {
	out := make([]model.CodingQuestion, 0, len(list))
	for _, q := range list {
		q.ID = uuid.New().String()
		q.Section = section
		if topic != "" {
			q.Topic = topic
		}
		if difficulty != "" {
			q.Difficulty = difficulty
		}
		out = append(out, q)
	}
	return out
}
