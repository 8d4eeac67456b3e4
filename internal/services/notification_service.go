// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/skillswap/skillswap-backend/internal/config"
	"github.com/skillswap/skillswap-backend/internal/models"
)

type NotificationService struct {
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{
		config: config,
	}
}

// Authentication notifications
func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"DisplayName":  user.DisplayName,
		"BrowseURL":    fmt.Sprintf("%s/listings", s.config.Frontend.BaseURL),
		"PlatformName": "SkillSwap",
	}

	subject := "Welcome to SkillSwap"
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Order notifications
func (s *NotificationService) SendPurchaseConfirmation(order *models.Order) error {
	buyer := order.Buyer

	data := map[string]interface{}{
		"BuyerName":    buyer.DisplayName,
		"ListingTitle": order.ListingTitle,
		"Price":        fmt.Sprintf("%.2f", order.Price),
		"OrderID":      order.ID,
		"OrdersURL":    fmt.Sprintf("%s/dashboard", s.config.Frontend.BaseURL),
	}

	subject := "Purchase Confirmation - " + order.ListingTitle
	tmpl := s.getEmailTemplate("purchase_confirmation")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(buyer.Email, subject, body)
}

func (s *NotificationService) SendSaleNotification(order *models.Order) error {
	seller := order.Seller

	data := map[string]interface{}{
		"SellerName":   seller.DisplayName,
		"ListingTitle": order.ListingTitle,
		"Price":        fmt.Sprintf("%.2f", order.Price),
		"BuyerName":    order.Buyer.DisplayName,
		"OrderID":      order.ID,
	}

	subject := "You made a sale - " + order.ListingTitle
	tmpl := s.getEmailTemplate("sale_notification")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(seller.Email, subject, body)
}

// NotifyOrderCompleted fans out both order emails. Failures are logged
// and never propagate: email is best-effort.
func (s *NotificationService) NotifyOrderCompleted(order *models.Order) {
	if err := s.SendPurchaseConfirmation(order); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("Failed to send purchase confirmation")
	}
	if err := s.SendSaleNotification(order); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("Failed to send sale notification")
	}
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to SkillSwap",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.DisplayName}}!</h2>
	<p>Thanks for joining SkillSwap, the student marketplace for skills and knowledge.</p>
	<a href="{{.BrowseURL}}">Browse listings</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"purchase_confirmation": {
			Subject: "Purchase Confirmation",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thanks for your purchase, {{.BuyerName}}!</h2>
	<p>Your order for "{{.ListingTitle}}" (${{.Price}}) has been completed.</p>
	<p>Order reference: {{.OrderID}}</p>
	<a href="{{.OrdersURL}}">View your orders</a>
	<p>Best regards,<br>SkillSwap Team</p>
</body>
</html>`,
		},
		"sale_notification": {
			Subject: "You made a sale",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Congratulations {{.SellerName}}!</h2>
	<p>{{.BuyerName}} purchased "{{.ListingTitle}}" for ${{.Price}}.</p>
	<p>Order reference: {{.OrderID}}</p>
	<p>Best regards,<br>SkillSwap Team</p>
</body>
</html>`,
		},
	}

	if tmpl, ok := templates[templateType]; ok {
		return tmpl
	}
	return EmailTemplate{}
}
