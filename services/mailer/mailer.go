package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"chalethaven/models"

	"github.com/mailersend/mailersend-go"
)

var ErrDisabled = errors.New("mailer disabled (missing MAILERSEND_API_KEY or MAILER_FROM_EMAIL)")

type Mailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	m := &Mailer{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

// Send delivers one message and returns the provider's message id.
func (m *Mailer) Send(ctx context.Context, toEmail, toName, subject, text, html string) (string, error) {
	if !m.Enabled {
		return "", ErrDisabled
	}
	return m.deliver(ctx, m.message(toEmail, toName, subject, text, html))
}

// SendLeadNotice tells the owner at toEmail about a new enquiry. Replies go to the guest.
func (m *Mailer) SendLeadNotice(ctx context.Context, toEmail string, lead models.LeadNotificationPayload) error {
	if !m.Enabled {
		return ErrDisabled
	}
	subject, text, body := LeadMessage(lead)
	msg := m.message(toEmail, "", subject, text, body)
	if lead.Email != "" {
		msg.SetReplyTo(mailersend.Recipient{Name: lead.Name, Email: lead.Email})
	}
	_, err := m.deliver(ctx, msg)
	return err
}

func (m *Mailer) message(toEmail, toName, subject, text, html string) *mailersend.Message {
	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}
	return msg
}

func (m *Mailer) deliver(ctx context.Context, msg *mailersend.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return res.Header.Get("X-Message-Id"), nil
}

// LeadMessage renders the subject, plain text and HTML of a lead notice.
func LeadMessage(lead models.LeadNotificationPayload) (subject, text, body string) {
	subject = "New enquiry from " + lead.Name
	if lead.Chalet != "" {
		subject += " about " + lead.Chalet
	}

	var t strings.Builder
	fmt.Fprintf(&t, "%s <%s> sent an enquiry.\n", lead.Name, lead.Email)
	if lead.Phone != "" {
		fmt.Fprintf(&t, "Phone: %s\n", lead.Phone)
	}
	if lead.Subject != "" {
		fmt.Fprintf(&t, "Subject: %s\n", lead.Subject)
	}
	if lead.Message != "" {
		fmt.Fprintf(&t, "\n%s\n", lead.Message)
	}
	fmt.Fprintf(&t, "\nLead id: %s", lead.LeadID)

	var h strings.Builder
	fmt.Fprintf(&h, "<p><strong>%s</strong> &lt;%s&gt; sent an enquiry.</p>", html.EscapeString(lead.Name), html.EscapeString(lead.Email))
	if lead.Phone != "" {
		fmt.Fprintf(&h, "<p>Phone: %s</p>", html.EscapeString(lead.Phone))
	}
	if lead.Subject != "" {
		fmt.Fprintf(&h, "<p>Subject: %s</p>", html.EscapeString(lead.Subject))
	}
	if lead.Message != "" {
		fmt.Fprintf(&h, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(lead.Message), "\n", "<br>"))
	}
	fmt.Fprintf(&h, "<p style=\"color:#888\">Lead id: %s</p>", html.EscapeString(lead.LeadID))
	return subject, t.String(), h.String()
}
