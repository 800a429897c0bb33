package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/synergysphere/backend/internal/domain"
)

func TestTaskReport(t *testing.T) {
	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	project := &domain.Project{ID: "p1", Name: "Apollo"}
	tasks := []domain.Task{
		{
			Title:    "Design review",
			Status:   domain.TaskStatusInProgress,
			Priority: domain.PriorityHigh,
			Deadline: &deadline,
			Tags:     domain.Tags{"design", "urgent"},
			Assignee: &domain.UserRef{FirstName: "Alice", LastName: "Liddell"},
		},
		{
			Title:  "Write docs",
			Status: domain.TaskStatusTodo,
		},
	}

	data, err := TaskReport(project, tasks)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(taskSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Apollo - Task Report", title)

	header, err := f.GetCellValue(taskSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Title", header)

	firstTitle, err := f.GetCellValue(taskSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Design review", firstTitle)

	assignee, err := f.GetCellValue(taskSheet, "D4")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", assignee)

	tags, err := f.GetCellValue(taskSheet, "F4")
	require.NoError(t, err)
	assert.Equal(t, "design, urgent", tags)

	// The unassigned task leaves its assignee cell empty.
	assignee2, err := f.GetCellValue(taskSheet, "D5")
	require.NoError(t, err)
	assert.Empty(t, assignee2)
}

func TestTaskReportEmptyProject(t *testing.T) {
	data, err := TaskReport(&domain.Project{Name: "Empty"}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(taskSheet)
	require.NoError(t, err)
	// Title row, blank spacer, header row.
	assert.Len(t, rows, 3)
}
