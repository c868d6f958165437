package contact

import (
	"bytes"
	"html/template"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/mailer"
)

const ConfirmationSubject = "Thank you for contacting us"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you for contacting us, {{.Name}}!</h2>
  <p>We have received your message and will get back to you as soon as possible.</p>
  <table cellpadding="4">
    <tr><td><strong>Subject:</strong></td><td>{{.Subject}}</td></tr>
    <tr><td valign="top"><strong>Message:</strong></td><td>{{.Message}}</td></tr>
  </table>
  <p>Best regards,<br>The Stocker Team</p>
</body>
</html>`))

func confirmationMessage(c *Contact) (mailer.Message, error) {
	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, c); err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{
		To:      c.Email,
		Subject: ConfirmationSubject,
		Body:    body.String(),
		HTML:    true,
	}, nil
}
