package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	raven "github.com/getsentry/raven-go"

	"github.com/jmauran/portfolio-backend/models"
)

// User-facing messages for the contact pipeline.
const (
	rateLimitedError  = "Too many requests. Please wait before submitting again."
	validationMessage = "Please correct the errors and try again"
	successMessage    = "Thank you for your message! I'll get back to you within 24 hours."
	internalErrorText = "An unexpected error occurred. Please try again later."
	methodNotAllowed  = "/api/contact only accepts POST requests"
	unknownClient     = "unknown"
	timestampLayout   = time.RFC3339
)

type rateLimitedBody struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"` // Seconds until the window resets.
}

type validationFailedBody struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

type acceptedBody struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type internalErrorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

type messageBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func internalError() response {
	return response{
		StatusCode: http.StatusInternalServerError,
		Body: internalErrorBody{
			Success:   false,
			Error:     internalErrorText,
			Timestamp: time.Now().UTC().Format(timestampLayout),
		},
	}
}

// clientIdentifier derives a best-effort caller identity from proxy
// headers: the first x-forwarded-for hop, then x-real-ip, then "unknown".
func clientIdentifier(r *http.Request) string {
	if forwarded := r.Header.Get("x-forwarded-for"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("x-real-ip"); realIP != "" {
		return realIP
	}
	return unknownClient
}

// contact is the handler for /api/contact.
//   POST /api/contact
//        name, email, message: contact form fields
//        (form-encoded or multipart body)
// Runs the submission pipeline: rate limit, sanitize, validate, spam
// score, then durable log append and email dispatch. The two side effects
// are best-effort; their failure never affects the accepted response.
func (api *API) contact(r *http.Request) response {
	if r.Method != http.MethodPost {
		return response{
			StatusCode: http.StatusMethodNotAllowed,
			Body:       messageBody{Success: false, Message: methodNotAllowed},
		}
	}

	clientID := clientIdentifier(r)
	if result := api.Limiter.CheckAndRecord(clientID); result.Limited {
		return response{
			StatusCode: http.StatusTooManyRequests,
			Body: rateLimitedBody{
				Success:    false,
				Error:      rateLimitedError,
				RetryAfter: int(result.RetryAfter.Seconds()),
			},
		}
	}

	name := models.Sanitize(r.FormValue("name"))
	email := strings.ToLower(models.Sanitize(r.FormValue("email")))
	message := models.Sanitize(r.FormValue("message"))

	errors := models.ValidationErrors(name, email, message)
	// Spam scoring runs on top of field validation; valid fields can
	// still be rejected in aggregate.
	if api.Scorer.IsSpam(name, email, message) {
		errors = append(errors, models.ErrSpam)
	}
	if len(errors) > 0 {
		return response{
			StatusCode: http.StatusBadRequest,
			Body: validationFailedBody{
				Success: false,
				Errors:  errors,
				Message: validationMessage,
			},
		}
	}

	submission := models.Submission{
		Name:      name,
		Email:     email,
		Message:   message,
		Timestamp: time.Now().UTC(),
		ClientID:  clientID,
		UserAgent: userAgent(r),
	}
	log.Printf("[contact] new submission from %s <%s>", submission.Name, submission.Email)

	// Side effect A: durable log append. Non-fatal.
	if err := api.Database.PutSubmission(submission); err != nil {
		log.Printf("[contact] could not store submission: %v", err)
		raven.CaptureError(err, nil)
	}
	// Side effect B: notification dispatch. Each send has its own failure
	// boundary; neither can affect the other or the response.
	if err := api.Emailer.SendContactNotification(&submission); err != nil {
		log.Printf("[contact] could not send owner notification: %v", err)
		raven.CaptureError(err, nil)
	}
	if err := api.Emailer.SendAutoReply(&submission); err != nil {
		log.Printf("[contact] could not send auto-reply: %v", err)
		raven.CaptureError(err, nil)
	}

	return response{
		StatusCode: http.StatusOK,
		Body: acceptedBody{
			Success:   true,
			Message:   successMessage,
			Timestamp: submission.Timestamp.Format(timestampLayout),
		},
	}
}

func userAgent(r *http.Request) string {
	if agent := r.Header.Get("User-Agent"); agent != "" {
		return agent
	}
	return unknownClient
}
