package db

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"sync"

	"github.com/jmauran/portfolio-backend/models"
)

// JSONDatabase stores submissions as a single JSON array file. Appends
// follow read-whole-array-then-append-then-overwrite semantics; a missing
// or unreadable file is treated as an empty log. The mutex only serializes
// writers within this process, so concurrent instances sharing the file
// can still lose updates. Acceptable for a best-effort backup.
type JSONDatabase struct {
	path string
	mu   sync.Mutex
}

// InitJSONDatabase creates a JSON-file backed store at the path given in cfg.
func InitJSONDatabase(cfg Config) *JSONDatabase {
	return &JSONDatabase{path: cfg.JSONFilePath}
}

func (db *JSONDatabase) read() []models.Submission {
	submissions := []models.Submission{}
	content, err := ioutil.ReadFile(db.path)
	if err != nil {
		// File doesn't exist yet, that's ok
		return submissions
	}
	if err := json.Unmarshal(content, &submissions); err != nil {
		// Corrupt log; start over rather than fail the pipeline.
		return []models.Submission{}
	}
	return submissions
}

// PutSubmission appends a submission to the JSON log file.
func (db *JSONDatabase) PutSubmission(submission models.Submission) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	submissions := append(db.read(), submission)
	content, err := json.MarshalIndent(submissions, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(db.path, content, 0644)
}

// GetSubmissions returns every submission in the log, oldest first.
func (db *JSONDatabase) GetSubmissions() ([]models.Submission, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.read(), nil
}

// ClearSubmissions removes the log file. ** Should only be used during testing **
func (db *JSONDatabase) ClearSubmissions() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	err := os.Remove(db.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
