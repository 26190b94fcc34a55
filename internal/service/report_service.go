package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// ReportService renders a user's history as a downloadable XLSX workbook.
type ReportService struct {
	history *HistoryService
}

// NewReportService creates a new ReportService.
func NewReportService(history *HistoryService) *ReportService {
	return &ReportService{history: history}
}

const (
	sheetAssessments = "Assessments"
	sheetPractice    = "Practice"
)

// ExportHistory builds the workbook: one sheet of assessment sessions and one
// of practice attempts. The caller owns closing the returned file.
func (s *ReportService) ExportHistory(ctx context.Context, userID uuid.UUID) (*excelize.File, error) {
	history, err := s.history.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetAssessments)
	if _, err := f.NewSheet(sheetPractice); err != nil {
		return nil, fmt.Errorf("create practice sheet: %w", err)
	}

	if err := s.writeAssessments(f, history.Sessions); err != nil {
		return nil, err
	}
	if err := s.writePractice(f, history.PracticeAttempts); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *ReportService) writeAssessments(f *excelize.File, sessions []model.ExamSession) error {
	headers := []string{"Started", "Company", "Role", "Level", "Status", "Questions", "Total Score", "Readiness"}
	if err := writeRow(f, sheetAssessments, 1, headers); err != nil {
		return err
	}

	for i := range sessions {
		session := &sessions[i]
		status := "In Progress"
		totalScore, readiness := "", ""
		if session.IsCompleted {
			status = "Completed"
			if session.Results != nil {
				totalScore = fmt.Sprintf("%d", session.Results.TotalScore)
				readiness = fmt.Sprintf("%d", session.Results.ReadinessScore)
			}
		}
		row := []string{
			session.StartTime.Format(time.RFC3339),
			session.Exam.Company,
			session.Exam.Role,
			string(session.Exam.Level),
			status,
			fmt.Sprintf("%d", session.Exam.QuestionCount()),
			totalScore,
			readiness,
		}
		if err := writeRow(f, sheetAssessments, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportService) writePractice(f *excelize.File, attempts []model.PracticeAttempt) error {
	headers := []string{"Attempted", "Title", "Topic", "Difficulty", "Language", "Score", "Passed"}
	if err := writeRow(f, sheetPractice, 1, headers); err != nil {
		return err
	}

	for i := range attempts {
		attempt := &attempts[i]
		passed := "No"
		if attempt.RunResult != nil && attempt.RunResult.Passed {
			passed = "Yes"
		}
		row := []string{
			attempt.Timestamp.Format(time.RFC3339),
			attempt.Question.Title,
			attempt.Question.Topic,
			attempt.Question.Difficulty,
			attempt.Language,
			fmt.Sprintf("%d", attempt.Score),
			passed,
		}
		if err := writeRow(f, sheetPractice, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
