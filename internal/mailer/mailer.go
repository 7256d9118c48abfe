// Package mailer sends transactional notifications over SMTP. All mail is
// best-effort: services dispatch in the background and only log failures.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/fairyhunter13/storefront-api/internal/config"
	"github.com/fairyhunter13/storefront-api/internal/model"
)

// Mailer sends order and intake notifications via SMTP.
type Mailer struct {
	cfg    config.SMTPConfig
	client *mail.Client
}

// New creates a Mailer from SMTP configuration.
func New(cfg config.SMTPConfig) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &Mailer{cfg: cfg, client: client}, nil
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendOrderConfirmation mails the customer that their order was placed.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, order *model.Order) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for your order!\n\nOrder ID: %s\nTotal: ₹%d\n\nWe will reach out on %s once your order ships.\n",
		order.Customer.Name, order.ID, order.TotalAmount, order.Customer.Phone)
	return m.send(ctx, order.Customer.Email, fmt.Sprintf("Order confirmed: %s", order.ID), body)
}

// SendOrderAlert mails the admin mailbox about a new order.
func (m *Mailer) SendOrderAlert(ctx context.Context, order *model.Order) error {
	if m.cfg.AdminEmail == "" {
		return nil
	}
	body := fmt.Sprintf(
		"New order %s\n\nCustomer: %s (%s)\nAddress: %s\nItems: %d\nSubtotal: ₹%d\nDiscount: ₹%d (%s)\nTotal: ₹%d\n",
		order.ID, order.Customer.Name, order.Customer.Phone, order.Customer.Address,
		len(order.Items), order.Subtotal, order.Discount, order.CouponCode, order.TotalAmount)
	return m.send(ctx, m.cfg.AdminEmail, fmt.Sprintf("New order: %s", order.ID), body)
}

// SendCareerAlert mails the admin mailbox about a new career application.
func (m *Mailer) SendCareerAlert(ctx context.Context, app *model.CareerApplication) error {
	if m.cfg.AdminEmail == "" {
		return nil
	}
	body := fmt.Sprintf(
		"New application for %s\n\nName: %s\nEmail: %s\nPhone: %s\nPortfolio: %s\n\n%s\n",
		app.Position, app.Name, app.Email, app.Phone, app.Portfolio, app.Message)
	return m.send(ctx, m.cfg.AdminEmail, fmt.Sprintf("Career application: %s", app.Position), body)
}
