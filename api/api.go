package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	raven "github.com/getsentry/raven-go"

	"github.com/jmauran/portfolio-backend/db"
	"github.com/jmauran/portfolio-backend/models"
	"github.com/jmauran/portfolio-backend/ratelimit"
	"github.com/jmauran/portfolio-backend/spam"
)

////////////////////////////////
//  *****   REST API   *****  //
////////////////////////////////

// Paths a traditional form post is redirected back to.
const (
	redirectSuccessPath = "/contact?submitted=1"
	redirectErrorPath   = "/contact?error=1"
)

// API is the HTTP API that this service provides.
// Handlers respond with JSON bodies, except traditional form posts to
// /api/contact which are redirected back to the contact page.
type API struct {
	Database db.Database
	Emailer  EmailSender
	Limiter  ratelimit.Store
	Scorer   *spam.Scorer
}

// EmailSender interface wraps a back-end that can send e-mails.
type EmailSender interface {
	// SendContactNotification mails a submission summary to the site owner.
	SendContactNotification(*models.Submission) error
	// SendAutoReply acknowledges receipt to the submitter.
	SendAutoReply(*models.Submission) error
}

// response is the outcome of one request before shaping. Body is written
// as the JSON response as-is; JSON-or-redirect is decided in the wrapper.
type response struct {
	StatusCode int
	Body       interface{}
}

type apiHandler func(r *http.Request) response

// responseKind is the negotiated shape of a response.
type responseKind int

const (
	kindJSON responseKind = iota
	kindRedirect
)

// negotiateKind decides, from the request's content-type and accept
// headers alone, whether the caller gets JSON or a redirect. Traditional
// form posts that don't ask for JSON are redirected. Used for the success
// and internal-error paths; rate-limit and validation rejections are
// always JSON.
func negotiateKind(contentType string, accept string) responseKind {
	if strings.Contains(contentType, "application/x-www-form-urlencoded") &&
		!strings.Contains(accept, "application/json") {
		return kindRedirect
	}
	return kindJSON
}

func (api *API) wrapper(handler apiHandler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		panicked := false
		response := func() (resp response) {
			defer func() {
				if rec := recover(); rec != nil {
					panicked = true
					err := fmt.Errorf("%v", rec)
					log.Printf("unhandled error in %s: %v", r.URL.Path, err)
					packet := raven.NewPacket(err.Error(),
						raven.NewException(err, raven.GetOrNewStacktrace(err, 2, 3, nil)),
						raven.NewHttp(r))
					raven.Capture(packet, nil)
					resp = internalError()
				}
			}()
			return handler(r)
		}()
		if response.StatusCode == http.StatusInternalServerError && !panicked {
			packet := raven.NewPacket(http.StatusText(response.StatusCode), raven.NewHttp(r))
			raven.Capture(packet, nil)
		}
		kind := negotiateKind(r.Header.Get("Content-Type"), r.Header.Get("Accept"))
		negotiable := response.StatusCode < http.StatusMultipleChoices ||
			response.StatusCode >= http.StatusInternalServerError
		if kind == kindRedirect && negotiable {
			target := redirectErrorPath
			if response.StatusCode < http.StatusMultipleChoices {
				target = redirectSuccessPath
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		writeJSON(w, response)
	}
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
}

// RegisterHandlers binds API functions to the given http server.
func (api *API) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/contact", api.wrapper(api.contact))
	mux.HandleFunc("/api/ping", pingHandler)
}

// Writes the response body as a JSON object to http.ResponseWriter w. If
// marshaling fails, writes http.StatusInternalServerError to w.
func writeJSON(w http.ResponseWriter, apiResponse response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	b, err := json.MarshalIndent(apiResponse.Body, "", "  ")
	if err != nil {
		msg := fmt.Sprintf("Internal error: could not format JSON. (%s)\n", err)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(apiResponse.StatusCode)
	fmt.Fprintf(w, "%s\n", b)
}
