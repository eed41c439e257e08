package line

import (
	"barberbook/internal/pkg/logger"
	"context"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Client wraps the linebot.Client.
type Client struct {
	*linebot.Client
	log logger.Logger
}

// NewClient creates a LINE Messaging API client. Options are passed through
// to linebot (tests point WithEndpointBase at a local server).
func NewClient(channelSecret, channelToken string, log logger.Logger, options ...linebot.ClientOption) (*Client, error) {
	if channelSecret == "" || channelToken == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN must be set")
	}
	bot, err := linebot.New(channelSecret, channelToken, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE Bot client: %w", err)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{
		Client: bot,
		log:    log,
	}, nil
}

// SendChatMessage pushes a text message to a LINE user.
func (c *Client) SendChatMessage(ctx context.Context, to, body string) error {
	return c.PushMessages(ctx, to, linebot.NewTextMessage(body))
}

// SendMessages sends one or more messages using the ReplyMessage API.
func (c *Client) SendMessages(ctx context.Context, replyToken string, messages ...linebot.SendingMessage) error {
	if _, err := c.ReplyMessage(replyToken, messages...).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send LINE reply: %w", err)
	}
	c.log.Debug("Successfully sent reply message.")
	return nil
}

// PushMessages sends one or more messages using the PushMessage API.
func (c *Client) PushMessages(ctx context.Context, to string, messages ...linebot.SendingMessage) error {
	if _, err := c.PushMessage(to, messages...).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("failed to push LINE message to %s: %w", to, err)
	}
	c.log.Debug("Successfully sent push message.")
	return nil
}

// DisplayName returns the profile name of a LINE user, or "" when it cannot be fetched.
func (c *Client) DisplayName(ctx context.Context, userID string) string {
	profile, err := c.GetProfile(userID).WithContext(ctx).Do()
	if err != nil {
		c.log.Warn(fmt.Sprintf("Failed to get LINE profile for %s: %v", userID, err))
		return ""
	}
	return profile.DisplayName
}

// ParseRequest parses and verifies incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}
