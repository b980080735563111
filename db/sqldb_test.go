package db_test

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/jmauran/portfolio-backend/db"
	"github.com/jmauran/portfolio-backend/models"
)

// These tests run against a live Postgres instance and are skipped when
// DB_HOST is unset.

var database *db.SQLDatabase

func TestMain(m *testing.M) {
	godotenv.Overload("../.env.test")
	cfg, err := db.LoadEnvironmentVariables()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DbHost != "" {
		database, err = db.InitSQLDatabase(cfg)
		if err != nil {
			log.Fatal(err)
		}
	}
	code := m.Run()
	if database != nil {
		database.ClearSubmissions()
	}
	os.Exit(code)
}

func requireDatabase(t *testing.T) {
	if database == nil {
		t.Skip("DB_HOST not set, skipping SQL database tests")
	}
}

func TestPutAndGetSubmission(t *testing.T) {
	requireDatabase(t)
	defer database.ClearSubmissions()
	submission := models.Submission{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Message:   "I would like to discuss a project with you please.",
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
		ClientID:  "1.2.3.4",
		UserAgent: "test-agent",
	}
	if err := database.PutSubmission(submission); err != nil {
		t.Fatalf("PutSubmission failed: %v", err)
	}
	submissions, err := database.GetSubmissions()
	if err != nil {
		t.Fatalf("GetSubmissions failed: %v", err)
	}
	if len(submissions) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(submissions))
	}
	got := submissions[0]
	if got.Name != submission.Name || got.Email != submission.Email ||
		got.ClientID != submission.ClientID {
		t.Errorf("round-tripped submission differs: %+v", got)
	}
}

func TestSubmissionsOrderedOldestFirst(t *testing.T) {
	requireDatabase(t)
	defer database.ClearSubmissions()
	for _, name := range []string{"First", "Second", "Third"} {
		err := database.PutSubmission(models.Submission{
			Name:      name,
			Email:     "jane@example.com",
			Message:   "Ten chars or more of message body.",
			Timestamp: time.Now().UTC(),
			ClientID:  "1.2.3.4",
			UserAgent: "test-agent",
		})
		if err != nil {
			t.Fatalf("PutSubmission failed: %v", err)
		}
	}
	submissions, err := database.GetSubmissions()
	if err != nil {
		t.Fatalf("GetSubmissions failed: %v", err)
	}
	if len(submissions) != 3 || submissions[0].Name != "First" || submissions[2].Name != "Third" {
		t.Errorf("submissions out of order: %+v", submissions)
	}
}
