package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	raven "github.com/getsentry/raven-go"
	"github.com/joho/godotenv"

	"github.com/jmauran/portfolio-backend/api"
	"github.com/jmauran/portfolio-backend/db"
	"github.com/jmauran/portfolio-backend/email"
	"github.com/jmauran/portfolio-backend/ratelimit"
	"github.com/jmauran/portfolio-backend/spam"
	"github.com/jmauran/portfolio-backend/util"
)

func loadDontPanic() {
	// Fail gracefully if .env doesn't exist
	if err := godotenv.Load(); err != nil {
		log.Println(err)
	}
}

// durationFromEnv reads a duration from the environment, falling back to
// the given default when unset or unparseable.
func durationFromEnv(varName string, fallback time.Duration) time.Duration {
	value := os.Getenv(varName)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("could not parse %s=%q, using %v: %v", varName, value, fallback, err)
		return fallback
	}
	return parsed
}

func intFromEnv(varName string, fallback int) int {
	value := os.Getenv(varName)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("could not parse %s=%q, using %d: %v", varName, value, fallback, err)
		return fallback
	}
	return parsed
}

// chooseDatabase picks the submission store: Postgres when DB_HOST is
// set, else the local JSON log file.
func chooseDatabase(cfg db.Config) (db.Database, error) {
	if cfg.DbHost != "" {
		return db.InitSQLDatabase(cfg)
	}
	log.Printf("DB_HOST not set, appending submissions to %s", cfg.JSONFilePath)
	return db.InitJSONDatabase(cfg), nil
}

// ServePublicEndpoints wires up the contact pipeline and serves the
// portfolio's public endpoints until the process is killed.
func ServePublicEndpoints() {
	cfg, err := db.LoadEnvironmentVariables()
	if err != nil {
		log.Fatal(err)
	}
	database, err := chooseDatabase(cfg)
	if err != nil {
		log.Fatal(err)
	}
	emailConfig, err := email.MakeConfigFromEnv()
	if err != nil {
		log.Fatalf("couldn't connect to mailserver: %v", err)
	}

	a := api.API{
		Database: database,
		Emailer:  emailConfig,
		Limiter: ratelimit.NewMemoryStore(
			durationFromEnv("CONTACT_RATE_WINDOW", ratelimit.DefaultWindow),
			intFromEnv("CONTACT_RATE_MAX", ratelimit.DefaultMaxRequests)),
		Scorer: spam.NewScorer(intFromEnv("SPAM_SCORE_THRESHOLD", spam.DefaultThreshold)),
	}

	mux := http.NewServeMux()
	a.RegisterHandlers(mux)
	if staticDir := os.Getenv("STATIC_DIR"); staticDir != "" {
		// The marketing pages, including the /contact redirect targets.
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	portString, err := util.ValidPort(cfg.Port)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[portfolio-backend] Serving on port %s", portString)
	log.Fatal(http.ListenAndServe(portString, middleware(mux)))
}

func main() {
	loadDontPanic()
	raven.SetDSN(os.Getenv("SENTRY_DSN"))
	ServePublicEndpoints()
}
