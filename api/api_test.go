package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmauran/portfolio-backend/db"
	"github.com/jmauran/portfolio-backend/models"
	"github.com/jmauran/portfolio-backend/ratelimit"
	"github.com/jmauran/portfolio-backend/spam"
)

var api *API
var server *httptest.Server
var store *db.MemDatabase
var emailer *mockEmailer

// Mock emailer. Records every send; optionally fails.
type mockEmailer struct {
	mu            sync.Mutex
	notifications []models.Submission
	autoReplies   []models.Submission
	err           error
}

func (e *mockEmailer) SendContactNotification(s *models.Submission) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.notifications = append(e.notifications, *s)
	return nil
}

func (e *mockEmailer) SendAutoReply(s *models.Submission) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.autoReplies = append(e.autoReplies, *s)
	return nil
}

func (e *mockEmailer) counts() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.notifications), len(e.autoReplies)
}

func TestMain(m *testing.M) {
	store = db.InitMemDatabase()
	emailer = &mockEmailer{}
	api = &API{
		Database: store,
		Emailer:  emailer,
		Limiter:  ratelimit.NewMemoryStore(15*time.Minute, 5),
		Scorer:   spam.NewScorer(2),
	}
	mux := http.NewServeMux()
	api.RegisterHandlers(mux)
	server = httptest.NewServer(mux)
	defer server.Close()
	os.Exit(m.Run())
}

func teardown() {
	store.ClearSubmissions()
	emailer.mu.Lock()
	emailer.notifications = nil
	emailer.autoReplies = nil
	emailer.err = nil
	emailer.mu.Unlock()
}

// postContact submits the form values as an API-style request (JSON
// accepted) from the given client address.
func postContact(t *testing.T, data url.Values, clientIP string) *http.Response {
	req, err := http.NewRequest("POST", server.URL+"/api/contact", strings.NewReader(data.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Jane Doe"},
		"email":   {"jane@example.com"},
		"message": {"I would like to discuss a Flutter project with you please."},
	}
}

func TestNegotiateKind(t *testing.T) {
	tests := []struct {
		contentType string
		accept      string
		want        responseKind
	}{
		{"application/x-www-form-urlencoded", "", kindRedirect},
		{"application/x-www-form-urlencoded", "text/html", kindRedirect},
		{"application/x-www-form-urlencoded", "application/json", kindJSON},
		{"application/json", "", kindJSON},
		{"multipart/form-data; boundary=x", "", kindJSON},
		{"", "", kindJSON},
	}
	for _, test := range tests {
		if got := negotiateKind(test.contentType, test.accept); got != test.want {
			t.Errorf("negotiateKind(%q, %q) = %v, want %v",
				test.contentType, test.accept, got, test.want)
		}
	}
}

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		forwardedFor string
		realIP       string
		want         string
	}{
		{"1.2.3.4", "", "1.2.3.4"},
		{"1.2.3.4, 10.0.0.1, 10.0.0.2", "", "1.2.3.4"},
		{"", "5.6.7.8", "5.6.7.8"},
		{"1.2.3.4", "5.6.7.8", "1.2.3.4"},
		{"", "", "unknown"},
	}
	for _, test := range tests {
		r := httptest.NewRequest("POST", "/api/contact", nil)
		if test.forwardedFor != "" {
			r.Header.Set("X-Forwarded-For", test.forwardedFor)
		}
		if test.realIP != "" {
			r.Header.Set("X-Real-IP", test.realIP)
		}
		if got := clientIdentifier(r); got != test.want {
			t.Errorf("clientIdentifier(%q, %q) = %q, want %q",
				test.forwardedFor, test.realIP, got, test.want)
		}
	}
}

func TestPing(t *testing.T) {
	resp, err := http.Get(server.URL + "/api/ping")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ping returned %d, want 200", resp.StatusCode)
	}
}
