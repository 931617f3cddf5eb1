package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender delivers one chat message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("telegram API returned status code %d: %s", e.Code, e.Body)
}

// Telegram posts messages through the Bot API sendMessage method.
type Telegram struct {
	endpoint string
	chatID   string
	client   *http.Client
}

var _ Sender = (*Telegram)(nil)

// NewTelegram builds a client for baseURL (normally https://api.telegram.org).
func NewTelegram(baseURL, botToken, chatID string, timeout time.Duration) *Telegram {
	return &Telegram{
		endpoint: strings.TrimRight(baseURL, "/") + "/bot" + botToken + "/sendMessage",
		chatID:   chatID,
		client:   &http.Client{Timeout: timeout},
	}
}

func (t *Telegram) Send(ctx context.Context, text string) error {
	form := url.Values{
		"chat_id":    {t.chatID},
		"text":       {text},
		"parse_mode": {"Markdown"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		// the URL carries the bot token; keep it out of logs
		if ue, ok := err.(*url.Error); ok {
			return fmt.Errorf("failed to send telegram message: %w", ue.Err)
		}
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return nil
}
