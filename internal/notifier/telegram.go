package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier delivers scan digests and alert messages to a single
// Telegram chat, and long-polls the same bot for slash commands. Empty
// credentials are valid: Enabled reports false and callers stay log-only.
type TelegramNotifier struct {
	botToken string
	chatID   string

	apiBase   string
	client    *http.Client // sendMessage
	poller    *http.Client // getUpdates, outlives the long-poll window
	retryBase time.Duration
}

func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		botToken:  botToken,
		chatID:    chatID,
		apiBase:   defaultAPIBase,
		client:    &http.Client{Timeout: 30 * time.Second, Transport: transport},
		poller:    &http.Client{Timeout: pollTimeout + 5*time.Second, Transport: transport},
		retryBase: time.Second,
	}
}

// Enabled reports whether the notifier has credentials to send with.
func (t *TelegramNotifier) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

func (t *TelegramNotifier) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.apiBase, t.botToken, method)
}

// apiReply is the envelope Telegram wraps every bot API response in.
type apiReply struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func decodeReply(resp *http.Response) (*apiReply, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var reply apiReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("telegram: status %d, body: %s", resp.StatusCode, body)
	}
	if !reply.OK {
		return nil, fmt.Errorf("telegram: %s (status %d)", reply.Description, resp.StatusCode)
	}
	return &reply, nil
}

// Send posts one HTML-formatted message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.client.Post(t.endpoint("sendMessage"), "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if _, err := decodeReply(resp); err != nil {
		return err
	}
	return nil
}

// SendWithRetry resends on failure with exponential backoff. The backoff
// runs only between attempts; the final failure returns immediately.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	for attempt := 0; ; attempt++ {
		err := t.Send(text)
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, err)
		}
		backoff := t.retryBase << uint(attempt)
		log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", attempt+1, maxRetries+1, err, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
