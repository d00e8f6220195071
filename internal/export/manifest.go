package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/entericlab/entericreport/internal/utils"
)

// Manifest records what a report run read and wrote, for traceability of
// exported tables back to their inputs.
type Manifest struct {
	RunID         string    `json:"run_id"`
	CreatedAt     time.Time `json:"created_at"`
	DetectionPath string    `json:"detection_path"`
	CulturePath   string    `json:"culture_path"`
	DetectionRows int       `json:"detection_rows"`
	CultureRows   int       `json:"culture_rows"`
	Artifacts     []string  `json:"artifacts"`
}

// WriteManifest writes manifest.json into dir, assigning a fresh run ID and
// timestamp when they are unset, and returns the written path.
func WriteManifest(dir string, m Manifest) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if m.RunID == "" {
		m.RunID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	b, err := utils.PrettyJSON(m)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(dir, "manifest.json")
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}
