// Package export renders project data as downloadable Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/synergysphere/backend/internal/domain"
)

const taskSheet = "Tasks"

var taskHeaders = []string{"Title", "Status", "Priority", "Assignee", "Deadline", "Tags", "Updated"}

// TaskReport builds an xlsx workbook listing the project's tasks, one row
// per task, with a styled header.
func TaskReport(project *domain.Project, tasks []domain.Task) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", taskSheet)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})
	if err != nil {
		return nil, fmt.Errorf("building title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1565C0"}},
	})
	if err != nil {
		return nil, fmt.Errorf("building header style: %w", err)
	}

	f.SetCellValue(taskSheet, "A1", fmt.Sprintf("%s - Task Report", project.Name))
	f.SetCellStyle(taskSheet, "A1", "A1", titleStyle)

	for i, h := range taskHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(taskSheet, cell, h)
		f.SetCellStyle(taskSheet, cell, cell, headerStyle)
	}

	for row, t := range tasks {
		values := []interface{}{
			t.Title,
			t.Status,
			t.Priority,
			assigneeName(&t),
			formatDeadline(t.Deadline),
			strings.Join(t.Tags, ", "),
			t.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+4)
			f.SetCellValue(taskSheet, cell, v)
		}
	}

	f.SetColWidth(taskSheet, "A", "A", 32)
	f.SetColWidth(taskSheet, "B", "G", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func assigneeName(t *domain.Task) string {
	if t.Assignee != nil {
		return strings.TrimSpace(t.Assignee.FirstName + " " + t.Assignee.LastName)
	}
	return ""
}

func formatDeadline(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}
