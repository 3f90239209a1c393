// Package expopush talks to the Expo push relay (exp.host). The relay has
// no Go SDK; this is a minimal client for the /push/send endpoint.
package expopush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	BaseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://exp.host"
	}
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type pushMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type pushResponse struct {
	Data []struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

// Send delivers one notification to an Expo push token. A non-ok ticket is
// reported as an error so the caller can log it; delivery is best-effort
// either way.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	payload, _ := json.Marshal(pushMessage{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/--/api/v2/push/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push send failed: %d %s", resp.StatusCode, string(respBody))
	}
	var out pushResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return err
	}
	for _, ticket := range out.Data {
		if ticket.Status == "error" {
			return fmt.Errorf("expo push ticket error: %s", ticket.Message)
		}
	}
	return nil
}
