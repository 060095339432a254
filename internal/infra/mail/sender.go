package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) SendWelcome(to, businessName, dashboardURL string) error {
	data := WelcomeEmailData{
		BusinessName: businessName,
		DashboardURL: dashboardURL,
	}
	subject := fmt.Sprintf("Bem-vindo, %s! Seu vendedor automático está pronto 🚀", businessName)
	return s.send(to, subject, "welcome.html", data)
}

func (s *EmailSender) SendQuotaAlert(to, businessName, message string, used, limit int) error {
	data := QuotaEmailData{
		BusinessName: businessName,
		Message:      message,
		Used:         used,
		Limit:        limit,
	}
	return s.send(to, "⚠️ Limite de mensagens atingido", "quota.html", data)
}

func (s *EmailSender) send(to, subject, tmpl string, data any) error {
	body, err := render(tmpl, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func render(tmpl string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
