package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOrderCancelled(toEmail, orderId, reason string) error
	SendRefundProcessed(toEmail, orderId string, amount float64, method string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendOrderCancelled(toEmail, orderId, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your order has been cancelled")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Order Cancelled</h2>
			<p>Order <strong>%s</strong> has been cancelled.</p>
			<p>Reason: %s</p>
			<p>If the order was paid, your refund details follow in a separate message.</p>
		</div>
	`, orderId, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send cancellation mail to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendRefundProcessed(toEmail, orderId string, amount float64, method string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your refund has been processed")

	timeline := "Your wallet has been credited instantly."
	if method == "paystack" {
		timeline = "The refund will reach your payment method within 3-5 business days."
	} else if method == "manual" {
		timeline = "Our support team will settle the refund shortly."
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Refund Processed</h2>
			<p>A refund of <strong>%.2f</strong> for order <strong>%s</strong> has been processed via %s.</p>
			<p>%s</p>
		</div>
	`, amount, orderId, method, timeline)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send refund mail to %s: %w", toEmail, err)
	}
	return nil
}
