package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/GTDGit/customer_portal/internal/config"
	"github.com/GTDGit/customer_portal/internal/models"
)

const sendTimeout = 30 * time.Second

// Mailer delivers a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// CustomerLookup resolves the recipient of a confirmation.
type CustomerLookup interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}

// NotificationWorker sends order confirmation emails off the request path.
type NotificationWorker struct {
	queue     chan models.Order
	customers CustomerLookup
	mailer    Mailer
}

// NewNotificationWorker constructs a NotificationWorker with a bounded queue.
func NewNotificationWorker(customers CustomerLookup, mailer Mailer, queueSize int) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &NotificationWorker{
		queue:     make(chan models.Order, queueSize),
		customers: customers,
		mailer:    mailer,
	}
}

// Enqueue schedules a confirmation without blocking. It returns false and
// drops the notification when the queue is full.
func (w *NotificationWorker) Enqueue(order models.Order) bool {
	select {
	case w.queue <- order:
		return true
	default:
		log.Warn().Str("order_id", order.ID).Msg("Notification queue full, dropping order confirmation")
		return false
	}
}

// Start consumes the queue until the context is canceled.
func (w *NotificationWorker) Start(ctx context.Context) {
	log.Info().Int("queue_size", cap(w.queue)).Msg("Starting notification worker")

	for {
		select {
		case order := <-w.queue:
			w.send(ctx, order)
		case <-ctx.Done():
			log.Info().Int("pending", len(w.queue)).Msg("Notification worker stopped")
			return
		}
	}
}

func (w *NotificationWorker) send(ctx context.Context, order models.Order) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	customer, err := w.customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("Failed to resolve confirmation recipient")
		return
	}
	if customer.Email == "" {
		log.Warn().Str("order_id", order.ID).Str("customer_id", customer.ID).Msg("Customer has no email, skipping confirmation")
		return
	}

	subject := fmt.Sprintf("Order %s received", order.ID)
	if err := w.mailer.Send(ctx, customer.Email, subject, confirmationBody(customer, order)); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("Failed to send order confirmation")
		return
	}
	log.Info().Str("order_id", order.ID).Str("customer_id", customer.ID).Msg("Order confirmation sent")
}

func confirmationBody(customer *models.Customer, order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", customer.CompanyName)
	fmt.Fprintf(&b, "We received order %s on %s.\n\n", order.ID, order.Date.UTC().Format("2006-01-02 15:04 MST"))
	for i, sku := range order.Products {
		fmt.Fprintf(&b, "  %s x %d\n", sku, order.Quantities[i])
	}
	fmt.Fprintf(&b, "\nTotal: $%.2f\n", order.TotalAmount)
	if order.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", order.Notes)
	}
	b.WriteString("\nWe will email you again when it ships.\n")
	return b.String()
}

// SMTPMailer sends through an SMTP server.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer from SMTP settings.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// LogMailer only logs; used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("SMTP not configured, confirmation logged only")
	return nil
}
