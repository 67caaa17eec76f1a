package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noor-academy/curriculum-api/internal/dto"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
	"github.com/noor-academy/curriculum-api/pkg/export"
)

type progressSnapshotter interface {
	Snapshot(ctx context.Context, studentID, programID string) (*dto.ProgressSnapshot, error)
}

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes plus the metadata the handler needs to
// set response headers.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders a student's progress timeline as a downloadable file.
type ExportService struct {
	progress progressSnapshotter
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	enabled  bool
	logger   *zap.Logger
}

// NewExportService wires export dependencies.
func NewExportService(progress progressSnapshotter, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		progress: progress,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		enabled:  enabled,
		logger:   logger,
	}
}

// ExportProgress renders the timeline for the student+program pair. One row
// per milestone, with the summary totals appended as a trailing row.
func (s *ExportService) ExportProgress(ctx context.Context, studentID, programID string, format ExportFormat) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	snapshot, err := s.progress.Snapshot(ctx, studentID, programID)
	if err != nil {
		return nil, err
	}

	dataset := progressDataset(snapshot)
	switch format {
	case ExportCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			FileName:    exportFileName(studentID, programID, "csv"),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportPDF:
		title := fmt.Sprintf("Progress Report - %s", programID)
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			FileName:    exportFileName(studentID, programID, "pdf"),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func progressDataset(snapshot *dto.ProgressSnapshot) export.Dataset {
	headers := []string{"Milestone", "Weeks", "Status", "Progress"}
	rows := make([]map[string]string, 0, len(snapshot.Timeline)+1)
	for _, entry := range snapshot.Timeline {
		rows = append(rows, map[string]string{
			"Milestone": entry.Name,
			"Weeks":     fmt.Sprintf("%d-%d", entry.WeekStart, entry.WeekEnd),
			"Status":    entry.Status,
			"Progress":  strconv.Itoa(entry.Progress) + "%",
		})
	}
	rows = append(rows, map[string]string{
		"Milestone": "Total",
		"Weeks":     fmt.Sprintf("year %d week %d", snapshot.CurrentWeek.AcademicYear, snapshot.CurrentWeek.WeekNumber),
		"Status":    fmt.Sprintf("%d/%d classes completed", snapshot.TotalCompleted, snapshot.TotalScheduled),
		"Progress":  strconv.Itoa(snapshot.Milestone.Progress) + "%",
	})
	return export.Dataset{Headers: headers, Rows: rows}
}

func exportFileName(studentID, programID, ext string) string {
	return fmt.Sprintf("progress_%s_%s.%s", studentID, programID, ext)
}
