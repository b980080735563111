package db

import (
	"sync"

	"github.com/jmauran/portfolio-backend/models"
)

// MemDatabase is a straw-man in-memory store (for testing!)
type MemDatabase struct {
	mu          sync.Mutex
	submissions []models.Submission
}

// InitMemDatabase creates an empty in-memory store.
func InitMemDatabase() *MemDatabase {
	return &MemDatabase{submissions: make([]models.Submission, 0)}
}

// PutSubmission appends a submission to the in-memory log.
func (db *MemDatabase) PutSubmission(submission models.Submission) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.submissions = append(db.submissions, submission)
	return nil
}

// GetSubmissions returns every stored submission, oldest first.
func (db *MemDatabase) GetSubmissions() ([]models.Submission, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	submissions := make([]models.Submission, len(db.submissions))
	copy(submissions, db.submissions)
	return submissions, nil
}

// ClearSubmissions empties the store.
func (db *MemDatabase) ClearSubmissions() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.submissions = make([]models.Submission, 0)
	return nil
}
