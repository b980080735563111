// Package email dispatches contact-form notifications over SMTP.
package email

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"golang.org/x/net/idna"

	"github.com/jmauran/portfolio-backend/models"
	"github.com/jmauran/portfolio-backend/util"
)

// Config stores variables needed to submit emails for sending, as well as
// to generate the template text.
type Config struct {
	auth               smtp.Auth
	username           string
	password           string
	submissionHostname string
	port               string
	sender             string
	contactInbox       string // Where owner notifications land.
	ownerName          string // Signs the auto-reply.
	website            string // Needed to generate email template text.
}

// MakeConfigFromEnv initializes our email config object with environment
// variables. When SMTP_ENDPOINT is unset the config is still usable:
// sends are logged instead of dispatched.
func MakeConfigFromEnv() (Config, error) {
	varErrs := util.Errors{}
	c := Config{
		username:           os.Getenv("SMTP_USERNAME"),
		password:           os.Getenv("SMTP_PASSWORD"),
		submissionHostname: os.Getenv("SMTP_ENDPOINT"),
		port:               os.Getenv("SMTP_PORT"),
		sender:             util.RequireEnv("SMTP_FROM_ADDRESS", &varErrs),
		contactInbox:       util.RequireEnv("CONTACT_INBOX", &varErrs),
		ownerName:          util.RequireEnv("SITE_OWNER_NAME", &varErrs),
		website:            util.RequireEnv("FRONTEND_WEBSITE_LINK", &varErrs),
	}
	if len(varErrs) > 0 {
		return c, varErrs
	}
	if c.submissionHostname == "" {
		log.Println("Warning: SMTP_ENDPOINT not set, emails will be logged instead of sent")
		return c, nil
	}
	log.Printf("Establishing auth connection with SMTP server %s", c.submissionHostname)
	// create auth
	client, err := smtp.Dial(fmt.Sprintf("%s:%s", c.submissionHostname, c.port))
	if err != nil {
		return c, err
	}
	defer client.Close()
	err = client.StartTLS(&tls.Config{ServerName: c.submissionHostname})
	if err != nil {
		return c, fmt.Errorf("SMTP server doesn't support STARTTLS")
	}
	ok, auths := client.Extension("AUTH")
	if !ok {
		return c, fmt.Errorf("remote SMTP server doesn't support any authentication mechanisms")
	}
	if strings.Contains(auths, "PLAIN") {
		c.auth = smtp.PlainAuth("", c.username, c.password, c.submissionHostname)
	} else if strings.Contains(auths, "CRAM-MD5") {
		c.auth = smtp.CRAMMD5Auth(c.username, c.password)
	} else {
		return c, fmt.Errorf("SMTP server doesn't support PLAIN or CRAM-MD5 authentication")
	}
	return c, nil
}

// SendContactNotification mails a summary of the submission to the site
// owner's contact inbox.
func (c Config) SendContactNotification(submission *models.Submission) error {
	subject := fmt.Sprintf(notificationSubject, submission.Name)
	body := notificationText(submission)
	return c.sendEmail(subject, body, c.contactInbox)
}

// SendAutoReply acknowledges receipt to the submitter.
func (c Config) SendAutoReply(submission *models.Submission) error {
	subject := autoReplySubject
	body := autoReplyText(submission, c.ownerName, c.website)
	address, err := asciiAddress(submission.Email)
	if err != nil {
		return err
	}
	return c.sendEmail(subject, body, address)
}

// asciiAddress converts the domain part of an email address to its ASCII
// (punycode) form so the SMTP envelope stays 7-bit clean. ASCII input
// passes through unchanged.
func asciiAddress(address string) (string, error) {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return "", fmt.Errorf("address %s has no domain part", address)
	}
	domain, err := idna.ToASCII(address[at+1:])
	if err != nil {
		return "", fmt.Errorf("could not convert domain %s to ASCII (%s)", address[at+1:], err)
	}
	return address[:at+1] + domain, nil
}

func (c Config) sendEmail(subject string, body string, address string) error {
	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		c.sender, address, subject, body)
	if c.submissionHostname == "" {
		log.Println("Warning: email host not configured, not sending email")
		log.Println(message)
		return nil
	}
	return smtp.SendMail(fmt.Sprintf("%s:%s", c.submissionHostname, c.port),
		c.auth,
		c.sender, []string{address}, []byte(message))
}
