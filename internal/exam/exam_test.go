package exam

import (
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// testExam builds a small four-section exam shared by the package tests.
func testExam() *model.Exam {
	return &model.Exam{
		ID:          "exam-1",
		Company:     "Acme",
		Role:        "Backend Engineer",
		Level:       model.LevelSDE1,
		TimeMinutes: 90,
		Sections: model.ExamSections{
			Technical: []model.MCQQuestion{
				{ID: "t1", Question: "What is a goroutine?", Options: []string{"a", "b", "c", "d"}, Section: model.SectionTechnical},
				{ID: "t2", Question: "What does SELECT do?", Options: []string{"a", "b", "c", "d"}, Section: model.SectionTechnical},
			},
			Coding: []model.CodingQuestion{
				{
					ID:    "c1",
					Title: "Two Sum",
					StarterCodes: map[string]string{
						"python": "def solve():\n    pass",
					},
					Section: model.SectionCoding,
				},
			},
			Quantitative: []model.MCQQuestion{
				{ID: "q1", Question: "2+2?", Options: []string{"3", "4"}, Section: model.SectionQuantitative},
			},
			Reasoning: []model.MCQQuestion{
				{ID: "r1", Question: "Next in sequence?", Options: []string{"x", "y"}, Section: model.SectionReasoning},
			},
		},
	}
}
