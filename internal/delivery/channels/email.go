package channels

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig là cấu hình SMTP để gửi email thông báo.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SendEmail gửi email thông báo sự kiện claim cho người nhận.
func SendEmail(ctx context.Context, smtp SMTPConfig, recipient string, eventType string, reference string, payload map[string]interface{}) error {
	if smtp.Host == "" {
		return fmt.Errorf("chưa cấu hình SMTP host")
	}

	subject := fmt.Sprintf("[Farm claims] %s - %s", eventType, reference)
	body := fmt.Sprintf("<p>Sự kiện: <b>%s</b></p><p>Reference: <b>%s</b></p>", eventType, reference)
	if status, ok := payload["status"].(string); ok {
		body += fmt.Sprintf("<p>Trạng thái: %s</p>", status)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", smtp.From)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	return dialer.DialAndSend(msg)
}
