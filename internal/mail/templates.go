package mail

import (
	"fmt"

	"github.com/tutorwave/lms-support/internal/domain"
)

// TicketEmailData contains the data shared by support-desk email templates.
type TicketEmailData struct {
	Ticket        *domain.Ticket
	RequesterName string
	BaseURL       string
}

// BuildTicketRaisedEmail creates the message sent to a support distribution
// list address when a ticket is raised.
func BuildTicketRaisedEmail(to string, data TicketEmailData) Message {
	t := data.Ticket
	subject := fmt.Sprintf("New support ticket %s (%s)", t.TicketNumber, t.IssueType)

	textBody := fmt.Sprintf(`A new support ticket has been raised.

Ticket:      %s
Raised by:   %s
Issue type:  %s
Status:      %s

Description:
%s

Review it at %s/admin/support`,
		t.TicketNumber, data.RequesterName, t.IssueType, t.Status, t.Description, data.BaseURL)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">New support ticket %s</h2>
    <p><strong>Raised by:</strong> %s</p>
    <p><strong>Issue type:</strong> %s</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">%s</p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s/admin/support" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open ticket</a>
    </p>
</body>
</html>`,
		t.TicketNumber, data.RequesterName, t.IssueType, t.Description, data.BaseURL)

	return Message{To: []string{to}, Subject: subject, TextBody: textBody, HTMLBody: htmlBody}
}

// BuildTicketRatedEmail creates the message sent when a resolved ticket is
// rated by its requester.
func BuildTicketRatedEmail(to string, data TicketEmailData, rating int) Message {
	t := data.Ticket
	subject := fmt.Sprintf("Ticket %s rated %d/5", t.TicketNumber, rating)

	textBody := fmt.Sprintf(`Hi,

Ticket %s has been rated %d out of 5 by %s.

Thanks,
The TutorWave Support Team`,
		t.TicketNumber, rating, data.RequesterName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Ticket %s rated</h2>
    <p>%s rated this ticket <strong>%d / 5</strong>.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The TutorWave Support Team</p>
</body>
</html>`,
		t.TicketNumber, data.RequesterName, rating)

	return Message{To: []string{to}, Subject: subject, TextBody: textBody, HTMLBody: htmlBody}
}

// BuildTicketReminderEmail creates the delayed confirmation message sent to
// the requester shortly after ticket creation.
func BuildTicketReminderEmail(to string, data TicketEmailData) Message {
	t := data.Ticket
	name := data.RequesterName
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("We received your ticket %s", t.TicketNumber)

	textBody := fmt.Sprintf(`Hi %s,

This is a confirmation that we received your support ticket %s. Our team is
on it and will get back to you soon.

Thanks,
The TutorWave Support Team`,
		name, t.TicketNumber)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>This is a confirmation that we received your support ticket <strong>%s</strong>.</p>
    <p>Our team is on it and will get back to you soon.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The TutorWave Support Team</p>
</body>
</html>`,
		name, t.TicketNumber)

	return Message{To: []string{to}, Subject: subject, TextBody: textBody, HTMLBody: htmlBody}
}
