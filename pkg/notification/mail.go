package notification

import (
	"fmt"
	"net/smtp"

	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/raykavin/pricewatch/pkg/metric"
)

// sendMailFunc matches smtp.SendMail
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mail mirrors operator notifications to an e-mail inbox
type Mail struct {
	auth              smtp.Auth
	smtpServerPort    int
	smtpServerAddress string
	to                string
	from              string
	sendMail          sendMailFunc
	log               logger.Logger
}

// MailParams contains all parameters needed to initialize a Mail instance
type MailParams struct {
	SMTPServerPort    int
	SMTPServerAddress string
	To                string
	From              string
	Password          string
}

// NewMail creates a new Mail instance with the provided parameters
func NewMail(params MailParams, log logger.Logger) *Mail {
	return &Mail{
		from:              params.From,
		to:                params.To,
		smtpServerPort:    params.SMTPServerPort,
		smtpServerAddress: params.SMTPServerAddress,
		auth: smtp.PlainAuth(
			"",
			params.From,
			params.Password,
			params.SMTPServerAddress,
		),
		sendMail: smtp.SendMail,
		log:      log,
	}
}

// Notify mails an informational message
func (m *Mail) Notify(text string) {
	m.send("pricewatch: info", text)
}

// Alert mails a target hit, flagged as high priority
func (m *Mail) Alert(text string) {
	m.send("pricewatch: ALERT", text, "X-Priority: 1")
}

func (m *Mail) send(subject, text string, headers ...string) {
	serverAddress := fmt.Sprintf("%s:%d", m.smtpServerAddress, m.smtpServerPort)

	message := fmt.Sprintf("To: %s\r\nFrom: \"pricewatch\" <%s>\r\nSubject: %s\r\n", m.to, m.from, subject)
	for _, header := range headers {
		message += header + "\r\n"
	}
	message += "\r\n" + text + "\r\n"

	err := m.sendMail(serverAddress, m.auth, m.from, []string{m.to}, []byte(message))
	if err != nil {
		metric.NotificationFailuresTotal.WithLabelValues("mail").Inc()
		m.log.WithError(err).Error("failed to send email")
	}
}
