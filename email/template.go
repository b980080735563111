package email

import (
	"fmt"
	"strings"

	"github.com/jmauran/portfolio-backend/models"
)

const notificationSubject = "New Portfolio Contact from %s"

const autoReplySubject = "Thanks for reaching out!"

const notificationTemplate = `<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> %[1]s</p>
<p><strong>Email:</strong> %[2]s</p>
<p><strong>Message:</strong></p>
<p>%[3]s</p>
<hr>
<p><small>Submitted on %[4]s from %[5]s</small></p>
`

const autoReplyTemplate = `<h2>Hi %[1]s,</h2>
<p>Thank you for contacting me through my portfolio! I've received your message and will get back to you within 24 hours.</p>
<p><strong>Your message:</strong></p>
<p><em>&quot;%[2]s&quot;</em></p>
<br>
<p>Best regards,<br>%[3]s</p>
<p><small>%[4]s</small></p>
`

// escape neutralizes HTML metacharacters so submitted text can't inject
// markup into the notification bodies.
func escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}

func notificationText(submission *models.Submission) string {
	message := strings.Replace(escape(submission.Message), "\n", "<br>", -1)
	return fmt.Sprintf(notificationTemplate,
		escape(submission.Name),
		escape(submission.Email),
		message,
		submission.Timestamp.Format("Mon, 02 Jan 2006 15:04:05 MST"),
		escape(submission.ClientID))
}

func autoReplyText(submission *models.Submission, ownerName string, website string) string {
	return fmt.Sprintf(autoReplyTemplate,
		escape(submission.Name),
		escape(submission.Message),
		escape(ownerName),
		website)
}
