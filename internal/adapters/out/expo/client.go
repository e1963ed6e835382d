// Package expo provides the push-delivery adapter for the Expo push
// service. Courier devices register ExponentPushToken addresses; the client
// validates the format before sending and surfaces per-receipt errors.
package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"courierhub/internal/core/ports"
)

// DefaultBaseURL is the public Expo push endpoint.
const DefaultBaseURL = "https://exp.host/--/api/v2/push/send"

// Client implements ports.PushSender against the Expo push HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a push client for the given endpoint. An empty baseURL
// selects the public Expo endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsValidAddress reports whether the address is an Expo push token of the
// form ExponentPushToken[...].
func (c *Client) IsValidAddress(address string) bool {
	return strings.HasPrefix(address, "ExponentPushToken[") && strings.HasSuffix(address, "]")
}

type pushRequest struct {
	To         string            `json:"to"`
	Sound      string            `json:"sound"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
	CategoryID string            `json:"categoryId,omitempty"`
	Priority   string            `json:"priority"`
}

type pushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type pushResponse struct {
	Data []pushTicket `json:"data"`
}

// Send delivers one message through the Expo push API. Returns an error for
// a malformed address, a non-2xx response or an error ticket.
func (c *Client) Send(ctx context.Context, msg ports.PushMessage) error {
	if !c.IsValidAddress(msg.To) {
		return fmt.Errorf("invalid push address: %q", msg.To)
	}

	payload, err := json.Marshal(pushRequest{
		To:         msg.To,
		Sound:      "default",
		Title:      msg.Title,
		Body:       msg.Body,
		Data:       msg.Data,
		CategoryID: msg.Category,
		Priority:   "high",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	var ticketResp pushResponse
	if err = json.NewDecoder(resp.Body).Decode(&ticketResp); err != nil {
		return fmt.Errorf("decode push response: %w", err)
	}

	for _, ticket := range ticketResp.Data {
		if ticket.Status == "error" {
			return fmt.Errorf("push ticket error: %s", ticket.Message)
		}
	}

	return nil
}
