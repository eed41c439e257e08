// Package notification fans a rendered message out to every configured
// channel: email, chat and SMS.
package notification

import (
	appErrors "barberbook/internal/pkg/errors"
	"barberbook/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	"sync"
)

// Channel names a delivery medium.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelChat  Channel = "chat"
	ChannelSMS   Channel = "sms"
)

// EmailSender delivers an HTML email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// ChatSender delivers a plain-text chat message (WhatsApp, LINE).
type ChatSender interface {
	SendChatMessage(ctx context.Context, to, body string) error
}

// SMSSender delivers a short text message.
type SMSSender interface {
	SendShortMessage(ctx context.Context, to, body string) error
}

// Transports groups the senders of one dispatcher. A nil sender disables its channel.
type Transports struct {
	Email EmailSender
	Chat  ChatSender
	SMS   SMSSender
}

// Recipient holds the per-channel addresses of whoever is notified.
type Recipient struct {
	Email string
	Chat  string
	Phone string
}

// Dispatcher sends a Message over every channel that has a transport, an
// address and content.
type Dispatcher struct {
	transports Transports
	log        logger.Logger
}

// NewDispatcher creates a dispatcher over the given transports.
func NewDispatcher(transports Transports, log logger.Logger) *Dispatcher {
	return &Dispatcher{transports: transports, log: log}
}

type delivery struct {
	channel Channel
	send    func(ctx context.Context) error
}

func (d *Dispatcher) deliveries(msg Message, to Recipient) []delivery {
	var out []delivery
	if d.transports.Email != nil && to.Email != "" && msg.EmailHTML != "" {
		out = append(out, delivery{ChannelEmail, func(ctx context.Context) error {
			return d.transports.Email.SendEmail(ctx, to.Email, msg.Subject, msg.EmailHTML)
		}})
	}
	if d.transports.Chat != nil && to.Chat != "" && msg.ChatText != "" {
		out = append(out, delivery{ChannelChat, func(ctx context.Context) error {
			return d.transports.Chat.SendChatMessage(ctx, to.Chat, msg.ChatText)
		}})
	}
	if d.transports.SMS != nil && to.Phone != "" && msg.SMSText != "" {
		out = append(out, delivery{ChannelSMS, func(ctx context.Context) error {
			return d.transports.SMS.SendShortMessage(ctx, to.Phone, msg.SMSText)
		}})
	}
	return out
}

// Notify sends msg concurrently on every applicable channel. A failing
// channel does not stop the others; all failures are returned joined and
// wrapped in ErrNotification. Nothing is retried.
func (d *Dispatcher) Notify(ctx context.Context, msg Message, to Recipient) error {
	deliveries := d.deliveries(msg, to)
	if len(deliveries) == 0 {
		d.log.Debug(fmt.Sprintf("No channel available for %s notification", msg.Kind))
		return nil
	}

	errs := make([]error, len(deliveries))
	var wg sync.WaitGroup
	for i, dl := range deliveries {
		wg.Add(1)
		go func(i int, dl delivery) {
			defer wg.Done()
			if err := dl.send(ctx); err != nil {
				d.log.Error(fmt.Sprintf("Failed to send %s notification via %s", msg.Kind, dl.channel), err)
				errs[i] = fmt.Errorf("%s: %w", dl.channel, err)
				return
			}
			d.log.Info(fmt.Sprintf("Sent %s notification via %s", msg.Kind, dl.channel))
		}(i, dl)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", appErrors.ErrNotification, err)
	}
	return nil
}
