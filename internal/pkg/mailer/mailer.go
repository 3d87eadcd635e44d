package mailer

import (
	"fmt"
	"net/smtp"

	"healthcare_booking/internal/pkg/config"
	"healthcare_booking/pkg/logger"

	"go.uber.org/zap"
)

// Mailer SMTP 邮件发送器
// 通知邮件为 fire-and-forget：失败只记录日志，不重试，绝不阻塞触发它的请求
type Mailer struct {
	host   string
	port   int
	sender string
	auth   smtp.Auth
}

// NewMailer 创建邮件发送器
func NewMailer(cfg config.SMTPConfig) *Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Mailer{
		host:   cfg.Host,
		port:   cfg.Port,
		sender: cfg.Sender,
		auth:   auth,
	}
}

// Send 同步发送 HTML 邮件
func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		to, m.sender, subject, htmlBody))
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return smtp.SendMail(addr, m.auth, m.sender, []string{to}, msg)
}

// SendAsync 异步发送，失败只记日志
func (m *Mailer) SendAsync(to, subject, htmlBody string) {
	go func() {
		if err := m.Send(to, subject, htmlBody); err != nil {
			logger.Log.Warn("Failed to send notification email",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}
