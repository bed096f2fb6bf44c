// Package export produces XLSX roster reports for caseworkers.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"housing-intake/internal/checklist"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/models"
)

// CaseLister is the repository slice the exporter reads from.
type CaseLister interface {
	ListByClient(ctx context.Context, clientID string) ([]models.Case, error)
}

// Service renders XLSX workbooks of a client's case roster.
type Service struct {
	cases CaseLister
	log   logger.Logger
}

func NewService(cases CaseLister, log logger.Logger) *Service {
	return &Service{cases: cases, log: log}
}

// CaseRosterXLSX returns a workbook with one row per case: reference, status,
// applicant, checklist completeness and the outstanding documents.
func (s *Service) CaseRosterXLSX(ctx context.Context, clientID string) ([]byte, error) {
	start := time.Now()

	cases, err := s.cases.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Cases"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet excelize creates.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Reference",
		"Status",
		"Applicant",
		"Email",
		"Completeness",
		"Missing Documents",
		"Created",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range cases {
		write := func(col int, v interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		completeness := ""
		missing := ""
		if c.Checklist != nil {
			completeness = fmt.Sprintf("%d%%", checklist.CalculateOverallCompleteness(*c.Checklist))
			missing = strings.Join(checklist.MissingDocuments(*c.Checklist), ", ")
		}

		write(1, c.Reference)
		write(2, string(c.Status))
		write(3, c.Applicant.FullName)
		write(4, c.Applicant.Email)
		write(5, completeness)
		write(6, missing)
		write(7, c.CreatedAt.Format("2006-01-02"))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 20)
	_ = f.SetColWidth(sheet, "C", "D", 28)
	_ = f.SetColWidth(sheet, "E", "E", 14)
	_ = f.SetColWidth(sheet, "F", "F", 60)
	_ = f.SetColWidth(sheet, "G", "G", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.log.Info("case roster exported", map[string]interface{}{
		"clientId":  clientID,
		"rows":      len(cases),
		"elapsedMs": time.Since(start).Milliseconds(),
	})
	return buf.Bytes(), nil
}
