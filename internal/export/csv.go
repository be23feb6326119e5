package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"taskdeck/internal/model"
)

func ToCSV(tasks []model.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Status", "Priority", "Assignee ID", "Deadline", "Days Left", "Overdue"}); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Title,
			t.Status,
			t.Priority,
			fmt.Sprintf("%d", t.AssigneeID),
			t.Deadline,
			fmt.Sprintf("%d", t.DaysUntilDeadline),
			fmt.Sprintf("%t", t.IsOverdue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
