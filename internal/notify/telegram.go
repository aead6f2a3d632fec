package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TelegramNotifier delivers messages through the Telegram Bot API
// sendMessage method.
type TelegramNotifier struct {
	token   string
	apiBase string
	client  *http.Client
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramNotifier returns a notifier posting to apiBase (normally
// https://api.telegram.org) with the given bot token.
func NewTelegramNotifier(token, apiBase string) *TelegramNotifier {
	return &TelegramNotifier{
		token:   token,
		apiBase: apiBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, ownerID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: ownerID, Text: text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telegram read response: %w", err)
	}
	var out sendMessageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("telegram decode response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("telegram API: %s", out.Description)
	}
	return nil
}
