package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	// SendScrapeFailureAlert mails the operator when a webhook batch
	// could not be delivered.
	SendScrapeFailureAlert(toEmail, batchId, source, errMsg string) error
	SendDailyDigest(toEmail string, published, failed int) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) from() string {
	if s.senderName != "" {
		return fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	}
	return s.senderEmail
}

func (s *emailService) SendScrapeFailureAlert(toEmail, batchId, source, errMsg string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from())
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Scrape batch %s failed", batchId))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Scrape batch failed</h2>
			<p><b>Batch:</b> %s</p>
			<p><b>Source:</b> %s</p>
			<p><b>Error:</b></p>
			<pre style="background: #f5f5f5; padding: 10px; border-radius: 4px;">%s</pre>
			<p>%s</p>
		</div>
	`, batchId, source, errMsg, time.Now().UTC().Format(time.RFC1123))

	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendDailyDigest(toEmail string, published, failed int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from())
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "EV platform daily digest")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Daily publishing digest</h2>
			<p><b>Published to X:</b> %d</p>
			<p><b>Failed:</b> %d</p>
		</div>
	`, published, failed)

	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}
