package db

import (
	"flag"
	"os"

	"github.com/jmauran/portfolio-backend/models"
)

// Database interface: the things a submission store should be able to do.
// Appends are best-effort; the contact pipeline treats failures here as
// non-fatal.
type Database interface {
	// Appends a submission to the durable log.
	PutSubmission(models.Submission) error
	// Retrieves every stored submission, oldest first.
	GetSubmissions() ([]models.Submission, error)
	// Removes all stored submissions. ** Should only be used during testing **
	ClearSubmissions() error
}

// Config is a configuration struct for a Database.
type Config struct {
	Port         string
	DbHost       string
	DbName       string
	DbUsername   string
	DbPass       string
	DbTable      string
	JSONFilePath string
}

// Default configuration values. Can be overwritten by env vars of the same name.
var configDefaults = map[string]string{
	"PORT":                 "8080",
	"DB_HOST":              "",
	"DB_NAME":              "portfolio",
	"DB_USERNAME":          "postgres",
	"DB_PASSWORD":          "postgres",
	"TEST_DB_NAME":         "portfolio_test",
	"DB_SUBMISSION_TABLE":  "submissions",
	"SUBMISSION_FILE_PATH": "contact-submissions.json",
}

func getEnvOrDefault(varName string) string {
	envVar := os.Getenv(varName)
	if len(envVar) == 0 {
		envVar = configDefaults[varName]
	}
	return envVar
}

// LoadEnvironmentVariables loads relevant environment variables into a
// Config object.
func LoadEnvironmentVariables() (Config, error) {
	config := Config{
		Port:         getEnvOrDefault("PORT"),
		DbHost:       getEnvOrDefault("DB_HOST"),
		DbName:       getEnvOrDefault("DB_NAME"),
		DbUsername:   getEnvOrDefault("DB_USERNAME"),
		DbPass:       getEnvOrDefault("DB_PASSWORD"),
		DbTable:      getEnvOrDefault("DB_SUBMISSION_TABLE"),
		JSONFilePath: getEnvOrDefault("SUBMISSION_FILE_PATH"),
	}
	if flag.Lookup("test.v") != nil {
		// Avoid accidentally wiping the default db during tests.
		config.DbName = getEnvOrDefault("TEST_DB_NAME")
	}
	return config, nil
}
