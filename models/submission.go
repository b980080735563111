package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits for a contact submission.
const (
	NameMinLength    = 2
	NameMaxLength    = 100
	EmailMaxLength   = 254
	MessageMinLength = 10
	MessageMaxLength = 1000
	// SanitizeMaxLength caps every raw field before validation.
	SanitizeMaxLength = 1000
)

// Error strings surfaced to the submitter, in the order fields are checked.
const (
	ErrNameRequired    = "Name is required"
	ErrNameInvalid     = "Name must be 2-100 characters and contain only letters, spaces, hyphens, and apostrophes"
	ErrEmailRequired   = "Email is required"
	ErrEmailInvalid    = "Please provide a valid email address"
	ErrMessageRequired = "Message is required"
	ErrMessageInvalid  = "Message must be between 10-1000 characters"
	ErrSpam            = "Message appears to be spam"
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Submission is a single accepted contact-form payload. Rejected payloads
// are never turned into a Submission.
type Submission struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"` // Time at which the submission was accepted.
	ClientID  string    `json:"ip"`        // Best-effort caller identity from proxy headers.
	UserAgent string    `json:"userAgent"`
}

// Sanitize trims surrounding whitespace and truncates the input to
// SanitizeMaxLength characters. Applied to every field before validation.
func Sanitize(input string) string {
	trimmed := strings.TrimSpace(input)
	if utf8.RuneCountInString(trimmed) > SanitizeMaxLength {
		return string([]rune(trimmed)[:SanitizeMaxLength])
	}
	return trimmed
}

// ValidName reports whether name has an acceptable length and contains
// only letters, spaces, hyphens, and apostrophes.
func ValidName(name string) bool {
	length := utf8.RuneCountInString(name)
	return length >= NameMinLength && length <= NameMaxLength && nameRegex.MatchString(name)
}

// ValidEmail reports whether email has a plausible local@domain shape.
// This is deliberately loose; deliverability is not guaranteed either way.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email) && len(email) <= EmailMaxLength
}

// ValidMessage reports whether message has an acceptable length.
func ValidMessage(message string) bool {
	length := utf8.RuneCountInString(message)
	return length >= MessageMinLength && length <= MessageMaxLength
}

// ValidationErrors checks the sanitized fields and returns every problem
// found, in field order. An empty field yields its "required" error rather
// than a format error. An empty slice means the fields are acceptable.
func ValidationErrors(name, email, message string) []string {
	errors := []string{}
	if name == "" {
		errors = append(errors, ErrNameRequired)
	} else if !ValidName(name) {
		errors = append(errors, ErrNameInvalid)
	}
	if email == "" {
		errors = append(errors, ErrEmailRequired)
	} else if !ValidEmail(email) {
		errors = append(errors, ErrEmailInvalid)
	}
	if message == "" {
		errors = append(errors, ErrMessageRequired)
	} else if !ValidMessage(message) {
		errors = append(errors, ErrMessageInvalid)
	}
	return errors
}
