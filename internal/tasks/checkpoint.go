package tasks

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Checkpoint records how far an interrupted run got so a later invocation can
// resume accounting without repeating finished work. The plan itself is never
// stored; a resumed run re-derives it from fresh remote state, so the file
// stays valid even when the document or the playlist changed in between.
type Checkpoint struct {
	Operation  string    `json:"operation"`
	Document   string    `json:"document"`
	Title      string    `json:"title"`
	PlaylistID string    `json:"playlist_id"`
	TotalOps   int       `json:"total_ops"`
	Processed  int       `json:"processed"`
	Added      int       `json:"added"`
	Skipped    int       `json:"skipped"`
	Moved      int       `json:"moved"`
	Removed    int       `json:"removed"`
	QuotaSpent int       `json:"quota_spent"`
	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Remaining reports how many planned operations were still pending when the
// checkpoint was last written.
func (c *Checkpoint) Remaining() int {
	return c.TotalOps - c.Processed
}

// CheckpointStore persists checkpoints under a directory, one JSON file per
// document and operation pair.
type CheckpointStore struct {
	dir    string
	logger *log.Logger
}

// NewCheckpointStore returns a store rooted at dir. The directory is created
// lazily on the first write.
func NewCheckpointStore(dir string, logger *log.Logger) *CheckpointStore {
	return &CheckpointStore{dir: dir, logger: logger}
}

// Begin stamps the start time and writes the initial checkpoint.
func (s *CheckpointStore) Begin(cp *Checkpoint) error {
	now := time.Now()
	cp.StartedAt = now
	cp.UpdatedAt = now
	return s.write(cp)
}

// Advance re-persists the checkpoint after an operation completes.
func (s *CheckpointStore) Advance(cp *Checkpoint) error {
	cp.UpdatedAt = time.Now()
	return s.write(cp)
}

// Complete removes the checkpoint; the run no longer needs resuming.
func (s *CheckpointStore) Complete(cp *Checkpoint) error {
	if err := os.Remove(s.path(cp.Document, cp.Operation)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	return nil
}

// Find loads the checkpoint for a document and operation. A missing file is
// not an error; both returns are nil. An unreadable file is discarded with a
// warning so one torn write cannot wedge the document forever.
func (s *CheckpointStore) Find(document, operation string) (*Checkpoint, error) {
	path := s.path(document, operation)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		s.logger.Warn("Discarding unreadable checkpoint", "path", path, "error", err)
		os.Remove(path)
		return nil, nil
	}
	return &cp, nil
}

// path derives a stable file name from the document identity. Hashing keeps
// arbitrary absolute paths out of the file name.
func (s *CheckpointStore) path(document, operation string) string {
	sum := sha256.Sum256([]byte(document))
	return filepath.Join(s.dir, fmt.Sprintf("%s-%x.json", operation, sum[:8]))
}

// write persists atomically: temp file in the same directory, then rename.
func (s *CheckpointStore) write(cp *Checkpoint) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	path := s.path(cp.Document, cp.Operation)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	s.logger.Debug("checkpoint persisted", "path", path, "processed", cp.Processed, "total", cp.TotalOps)
	return nil
}
