package notification

import (
	"barberbook/internal/pkg/logger"
	"context"
	"fmt"
)

// LogSender stands in for a transport that is not configured. It only logs.
type LogSender struct {
	channel Channel
	log     logger.Logger
}

// NewLogSender returns a sender that logs deliveries on channel.
func NewLogSender(channel Channel, log logger.Logger) *LogSender {
	return &LogSender{channel: channel, log: log}
}

func (s *LogSender) SendEmail(ctx context.Context, to, subject, html string) error {
	s.log.Info(fmt.Sprintf("send %s to %s: %s", s.channel, to, subject))
	return nil
}

func (s *LogSender) SendChatMessage(ctx context.Context, to, body string) error {
	s.log.Info(fmt.Sprintf("send %s to %s: %s", s.channel, to, body))
	return nil
}

func (s *LogSender) SendShortMessage(ctx context.Context, to, body string) error {
	s.log.Info(fmt.Sprintf("send %s to %s: %s", s.channel, to, body))
	return nil
}
