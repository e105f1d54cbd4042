package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/solscope/solscope/internal/extract"
)

// formatVersion identifies the export document layout for downstream
// consumers.
const formatVersion = 1

// RunExport is the top-level JSON export structure for one extraction run.
type RunExport struct {
	FormatVersion int               `json:"formatVersion"`
	RunID         string            `json:"runId,omitempty"`
	ExportedAt    string            `json:"exportedAt"`
	Entities      []*extract.Entity `json:"entities"`
}

// MarshalRun renders an extraction run as an indented JSON document.
// Entities keep their order; association maps marshal with sorted keys, so
// two exports of the same run are byte-identical apart from the timestamp.
func MarshalRun(runID string, entities []*extract.Entity) ([]byte, error) {
	doc := RunExport{
		FormatVersion: formatVersion,
		RunID:         runID,
		ExportedAt:    time.Now().UTC().Format(time.RFC3339),
		Entities:      entities,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal run: %w", err)
	}
	return data, nil
}
