package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"taskdeck/internal/model"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	View       string       `json:"view"`
	Count      int          `json:"count"`
	Tasks      []model.Task `json:"tasks"`
}

// ToJSON writes a snapshot of the current task view. The view label
// records which filter the snapshot was taken under.
func ToJSON(tasks []model.Task, view, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		View:       view,
		Count:      len(tasks),
		Tasks:      tasks,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
