package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	pollTimeout    = 30 * time.Second
	pollRetryDelay = 5 * time.Second
)

// CommandFunc routes one slash command (/scan, /last, /watchlist, ...) to
// its reply text. An empty reply suppresses the response.
type CommandFunc func(command string) string

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls getUpdates and feeds each incoming command
// through route. Messages from chats other than the configured one are
// acknowledged but ignored. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, route CommandFunc) {
	var offset int64
	for ctx.Err() == nil {
		updates, err := t.fetchUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[WARN] poll updates: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			t.dispatch(u, route)
		}
	}
	log.Println("[INFO] Telegram polling stopped")
}

func (t *TelegramNotifier) fetchUpdates(ctx context.Context, offset int64) ([]update, error) {
	u := fmt.Sprintf("%s?offset=%d&timeout=%d", t.endpoint("getUpdates"), offset, int(pollTimeout.Seconds()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.poller.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	reply, err := decodeReply(resp)
	if err != nil {
		return nil, err
	}
	var updates []update
	if err := json.Unmarshal(reply.Result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

func (t *TelegramNotifier) dispatch(u update, route CommandFunc) {
	if u.Message == nil {
		return
	}
	if t.chatID != "" && strconv.FormatInt(u.Message.Chat.ID, 10) != t.chatID {
		return
	}
	command := strings.TrimSpace(u.Message.Text)
	if command == "" {
		return
	}
	log.Printf("[INFO] received command: %s", command)
	if reply := route(command); reply != "" {
		if err := t.Send(reply); err != nil {
			log.Printf("[ERROR] send reply: %v", err)
		}
	}
}
