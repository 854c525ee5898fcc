// AngelaMos | 2026
// notifier.go

package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
)

// EventSummary carries the fields shown in moderation emails.
type EventSummary struct {
	Title        string
	Date         string
	Time         string
	LocationText string
	Category     string
	Description  string
	PosterName   string
	ContactEmail string
}

// Notifier renders and enqueues the application's outbound emails.
type Notifier struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
	baseURL    string
	adminEmail string
}

func NewNotifier(
	dispatcher *Dispatcher,
	logger *slog.Logger,
	baseURL, adminEmail string,
) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		logger:     logger,
		baseURL:    baseURL,
		adminEmail: adminEmail,
	}
}

// EventSubmitted asks the admin to moderate a new event. The approve
// and reject links embed single-use tokens and work without a login.
func (n *Notifier) EventSubmitted(
	event EventSummary,
	approveToken, rejectToken string,
) {
	data := map[string]any{
		"Event": event,
		"ApproveLink": fmt.Sprintf("%s/events/approve-email/%s",
			n.baseURL, url.PathEscape(approveToken)),
		"RejectLink": fmt.Sprintf("%s/events/reject-email/%s",
			n.baseURL, url.PathEscape(rejectToken)),
	}

	body, err := n.render(eventSubmittedTmpl, data)
	if err != nil {
		n.logger.Error("render submission email", slog.String("error", err.Error()))
		return
	}

	subject := "New event pending approval: " + event.Title
	n.dispatcher.Enqueue(n.adminEmail, subject, body)
}

// EventApproved tells the poster their listing is live.
func (n *Notifier) EventApproved(to, name, title string) {
	n.sendStatus(eventApprovedTmpl, to, name, title,
		"Your event has been approved: "+title)
}

// EventRejected tells the poster their listing was declined.
func (n *Notifier) EventRejected(to, name, title string) {
	n.sendStatus(eventRejectedTmpl, to, name, title,
		"Update on your event submission: "+title)
}

// PasswordReset mails a one-hour reset link.
func (n *Notifier) PasswordReset(to, name, token string) {
	data := map[string]any{
		"Name": name,
		"ResetLink": fmt.Sprintf("%s/reset-password?token=%s",
			n.baseURL, url.QueryEscape(token)),
	}

	body, err := n.render(passwordResetTmpl, data)
	if err != nil {
		n.logger.Error("render reset email", slog.String("error", err.Error()))
		return
	}

	n.dispatcher.Enqueue(to, "Reset your password", body)
}

func (n *Notifier) sendStatus(
	tmpl *template.Template,
	to, name, title, subject string,
) {
	data := map[string]any{
		"Name":  name,
		"Title": title,
	}

	body, err := n.render(tmpl, data)
	if err != nil {
		n.logger.Error("render status email", slog.String("error", err.Error()))
		return
	}

	n.dispatcher.Enqueue(to, subject, body)
}

func (n *Notifier) render(
	tmpl *template.Template,
	data map[string]any,
) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
