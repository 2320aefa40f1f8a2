package services

import (
	"html/template"
	"log/slog"
	"strings"

	"github.com/adampresley/adamgokit/email"
)

type EmailServicer interface {
	SendDownloadReady(toName, toEmail string, data map[string]any) error
	SendContactNotification(toEmail string, data map[string]any) error
}

type EmailServiceConfig struct {
	ApiKey    string
	FromName  string
	FromEmail string
}

type EmailService struct {
	apiKey    string
	fromName  string
	fromEmail string
}

var (
	downloadReadyTemplate = template.Must(template.New("download").Parse(`
<h1>Your photo album is ready!</h1>
<p>Hello {{.toName}}! The photos download you requested is now
ready. You can click the button below to download the album '{{.albumName}}'
as a ZIP file containing your photos. This link will expire in {{.expirationDays}} days.</p>
<a href="{{.downloadURL}}">Download Gallery</a>
	`))

	contactTemplate = template.Must(template.New("contact").Parse(`
<h1>New inquiry from {{.name}}</h1>
<p><strong>Email:</strong> {{.email}}<br />
<strong>Phone:</strong> {{.phone}}<br />
<strong>Event date:</strong> {{.eventDate}}</p>
<p>{{.message}}</p>
	`))
)

func NewEmailService(config EmailServiceConfig) EmailService {
	return EmailService{
		apiKey:    config.ApiKey,
		fromName:  config.FromName,
		fromEmail: config.FromEmail,
	}
}

func (s EmailService) SendDownloadReady(toName, toEmail string, data map[string]any) error {
	data["toName"] = toName
	return s.send(toName, toEmail, "Your photos download is ready!", downloadReadyTemplate, data)
}

func (s EmailService) SendContactNotification(toEmail string, data map[string]any) error {
	subject := "New inquiry"

	if name, ok := data["name"].(string); ok && name != "" {
		subject += " from " + name
	}

	return s.send("", toEmail, subject, contactTemplate, data)
}

func (s EmailService) send(toName, toEmail, subject string, tmpl *template.Template, data map[string]any) error {
	parsedTemplate := strings.Builder{}

	if s.apiKey == "" {
		slog.Warn("no email API key configured. skipping email", "to", toEmail, "subject", subject)
		return nil
	}

	if err := tmpl.Execute(&parsedTemplate, data); err != nil {
		return err
	}

	service := email.NewResendService(&email.Config{
		ApiKey: s.apiKey,
	})

	return service.Send(email.Mail{
		Body:       parsedTemplate.String(),
		BodyIsHtml: true,
		From: email.EmailAddress{
			Email: s.fromEmail,
			Name:  s.fromName,
		},
		Subject: subject,
		To: []email.EmailAddress{
			{Name: toName, Email: toEmail},
		},
	})
}

var _ EmailServicer = EmailService{}
