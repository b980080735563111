package db

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"

	// Imports postgresql driver for database/sql
	_ "github.com/lib/pq"

	"github.com/jmauran/portfolio-backend/models"
)

// SQLDatabase is a Database backed by postgresql, for deployments where a
// shared durable store is wanted instead of the local JSON log.
type SQLDatabase struct {
	cfg  Config // Configuration to define the DB connection.
	conn *sql.DB
}

func getConnectionString(cfg Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		url.PathEscape(cfg.DbUsername),
		url.PathEscape(cfg.DbPass),
		url.PathEscape(cfg.DbHost),
		url.PathEscape(cfg.DbName))
}

const createTableQuery = `
CREATE TABLE IF NOT EXISTS submissions (
    id         SERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    message    TEXT NOT NULL,
    timestamp  TIMESTAMPTZ NOT NULL,
    ip         TEXT NOT NULL,
    user_agent TEXT NOT NULL
)`

// InitSQLDatabase creates a DB connection based on information in a Config,
// and returns a pointer to the resulting SQLDatabase object. If connection
// fails, returns an error.
func InitSQLDatabase(cfg Config) (*SQLDatabase, error) {
	connectionString := getConnectionString(cfg)
	log.Printf("Connecting to Postgres DB ...\n")
	conn, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	if _, err = conn.Exec(createTableQuery); err != nil {
		return nil, err
	}
	return &SQLDatabase{cfg: cfg, conn: conn}, nil
}

// PutSubmission inserts a submission into the database.
func (db *SQLDatabase) PutSubmission(submission models.Submission) error {
	_, err := db.conn.Exec(
		"INSERT INTO submissions(name, email, message, timestamp, ip, user_agent) "+
			"VALUES($1, $2, $3, $4, $5, $6)",
		submission.Name, submission.Email, submission.Message,
		submission.Timestamp, submission.ClientID, submission.UserAgent)
	return err
}

// GetSubmissions retrieves every stored submission, oldest first.
func (db *SQLDatabase) GetSubmissions() ([]models.Submission, error) {
	rows, err := db.conn.Query(
		"SELECT name, email, message, timestamp, ip, user_agent FROM submissions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	submissions := []models.Submission{}
	for rows.Next() {
		var submission models.Submission
		if err := rows.Scan(&submission.Name, &submission.Email, &submission.Message,
			&submission.Timestamp, &submission.ClientID, &submission.UserAgent); err != nil {
			return submissions, err
		}
		submissions = append(submissions, submission)
	}
	return submissions, rows.Err()
}

// ClearSubmissions nukes the submissions table. ** Should only be used during testing **
func (db *SQLDatabase) ClearSubmissions() error {
	_, err := db.conn.Exec(fmt.Sprintf("DELETE FROM %s", db.cfg.DbTable))
	return err
}
