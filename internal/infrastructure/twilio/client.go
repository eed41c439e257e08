// Package twilio sends SMS and WhatsApp messages through the Twilio Messages API.
package twilio

import (
	"barberbook/internal/pkg/logger"
	"context"
	"fmt"
	"strings"

	twiliosdk "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the part of the Twilio REST API used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Client sends messages from fixed sender numbers.
type Client struct {
	api          messageCreator
	smsFrom      string
	whatsAppFrom string
	log          logger.Logger
}

// NewClient creates a Twilio client with account credentials.
func NewClient(accountSID, authToken, smsFrom, whatsAppFrom string, log logger.Logger) (*Client, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN must be set")
	}
	rest := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	log.Info("Successfully created Twilio client.")
	return newClient(rest.Api, smsFrom, whatsAppFrom, log), nil
}

func newClient(api messageCreator, smsFrom, whatsAppFrom string, log logger.Logger) *Client {
	return &Client{
		api:          api,
		smsFrom:      strings.TrimSpace(smsFrom),
		whatsAppFrom: whatsAppPrefixed(strings.TrimSpace(whatsAppFrom)),
		log:          log,
	}
}

// NormalizePhone strips whitespace and ensures a leading '+'.
func NormalizePhone(phone string) string {
	p := strings.Join(strings.Fields(phone), "")
	if p == "" || strings.HasPrefix(p, "+") {
		return p
	}
	return "+" + p
}

func whatsAppPrefixed(addr string) string {
	if addr == "" || strings.HasPrefix(addr, "whatsapp:") {
		return addr
	}
	return "whatsapp:" + NormalizePhone(addr)
}

func (c *Client) send(ctx context.Context, from, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if from == "" {
		return fmt.Errorf("no Twilio sender configured for %s", to)
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send Twilio message to %s: %w", to, err)
	}
	if resp != nil && resp.Sid != nil {
		c.log.Debug(fmt.Sprintf("Twilio message %s sent to %s", *resp.Sid, to))
	}
	return nil
}

// SendShortMessage sends an SMS.
func (c *Client) SendShortMessage(ctx context.Context, to, body string) error {
	return c.send(ctx, c.smsFrom, NormalizePhone(to), body)
}

// SendChatMessage sends a WhatsApp message to a phone number.
func (c *Client) SendChatMessage(ctx context.Context, to, body string) error {
	return c.send(ctx, c.whatsAppFrom, whatsAppPrefixed(to), body)
}
