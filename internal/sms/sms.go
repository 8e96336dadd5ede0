package sms

import (
	"context"

	"github.com/agsexpress/backoffice/internal/kafka"
	"github.com/agsexpress/backoffice/internal/logger"
)

// Sender notifies the customer that an invoice was raised. The gateway call is
// stubbed; the integration point is the worker consuming the notifications
// topic.
type Sender struct {
	log *logger.Logger
}

func NewSender(log *logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.InvoiceEvent) error {
	if event.CustomerPhone == "" {
		s.log.Infow("skipping sms, no customer phone", "invoice_number", event.InvoiceNumber)
		return nil
	}
	s.log.Infow("sending invoice sms",
		"phone", event.CustomerPhone,
		"invoice_number", event.InvoiceNumber,
		"net_amount", event.NetAmount)
	return nil
}
