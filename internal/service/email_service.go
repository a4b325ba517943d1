package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/suhome/internal/config"
	"github.com/suhome/internal/i18n"
	"github.com/suhome/internal/models"

	"github.com/jordan-wright/email"
)

// MailAttachment 邮件附件
type MailAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// MailMessage 邮件内容
type MailMessage struct {
	To          string
	Subject     string
	Text        string
	Attachments []MailAttachment
}

// Mailer 邮件发送能力
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// EmailService SMTP 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Send 发送邮件，受 cfg.Timeout 约束
// 未启用或未配置时返回 ErrEmailServiceDisabled / ErrEmailServiceNotConfigured
func (s *EmailService) Send(ctx context.Context, msg MailMessage) error {
	if s == nil || s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(msg.To); err != nil {
		return ErrInvalidEmail
	}

	e := email.NewEmail()
	e.From = buildFromAddress(s.cfg.From, s.cfg.FromName)
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	for _, attachment := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(attachment.Content), attachment.Filename, attachment.ContentType); err != nil {
			return fmt.Errorf("attach %s failed: %w", attachment.Filename, err)
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.deliver(e)
	}()
	select {
	case err := <-done:
		return normalizeEmailSendError(err)
	case <-ctx.Done():
		return fmt.Errorf("smtp send timed out: %w", ctx.Err())
	}
}

func (s *EmailService) deliver(e *email.Email) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	switch {
	case s.cfg.UseSSL:
		return e.SendWithTLS(addr, auth, tlsConfig)
	case s.cfg.UseTLS:
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	default:
		return e.Send(addr, auth)
	}
}

// OrderStatusEmailInput 订单状态邮件输入
type OrderStatusEmailInput struct {
	OrderNo      string
	CustomerName string
	Status       string
	Amount       models.Money
	Currency     string
}

// SendOrderStatusEmail 发送订单状态通知
func (s *EmailService) SendOrderStatusEmail(ctx context.Context, toEmail string, input OrderStatusEmailInput, locale string) error {
	subject, body := buildOrderStatusContent(input, locale)
	return s.Send(ctx, MailMessage{To: toEmail, Subject: subject, Text: body})
}

func buildOrderStatusContent(input OrderStatusEmailInput, locale string) (string, string) {
	statusKey := "order.status." + strings.ToLower(strings.TrimSpace(input.Status))
	statusLabel := i18n.T(locale, statusKey)
	if statusLabel == statusKey {
		statusLabel = input.Status
	}
	subject := i18n.Sprintf(locale, "order.status_email_subject", input.OrderNo)
	body := i18n.Sprintf(locale, "order.status_email_body", customerGreetingName(input.CustomerName), input.OrderNo, statusLabel)
	return subject, body
}

func customerGreetingName(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return "customer"
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

// isMailSkipped 未启用或未配置的邮件视为跳过
func isMailSkipped(err error) bool {
	return errors.Is(err, ErrEmailServiceDisabled) || errors.Is(err, ErrEmailServiceNotConfigured)
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
