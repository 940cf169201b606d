// Package whatsapp relays text and image messages through the WhatsApp
// Cloud (Graph) API, one recipient at a time.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"crm-backend/internal/config"
)

// ErrNotConfigured is returned when the token or phone number id is missing
var ErrNotConfigured = errors.New("whatsapp token or phone number id not configured")

// Message is the content sent to every recipient
type Message struct {
	Text     string
	ImageURL string
}

// Result is the outcome for one recipient
type Result struct {
	To       string      `json:"to"`
	OK       bool        `json:"ok"`
	Response interface{} `json:"response,omitempty"`
	Error    interface{} `json:"error,omitempty"`
}

// Client posts messages to {graph_base}/{phone_number_id}/messages
type Client struct {
	token         string
	phoneNumberID string
	graphBase     string
	httpClient    *http.Client
}

// NewClient creates a relay client from the WhatsApp configuration
func NewClient(cfg config.WhatsAppConfig) *Client {
	timeout := cfg.GetTimeout()
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		token:         cfg.Token,
		phoneNumberID: cfg.PhoneNumberID,
		graphBase:     strings.TrimRight(cfg.GraphBase, "/"),
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether credentials are present
func (c *Client) Configured() bool {
	return c.token != "" && c.phoneNumberID != ""
}

// Send delivers msg to each recipient sequentially. A failure for one
// recipient is recorded in its Result and does not stop the rest. Blank
// recipients are skipped.
func (c *Client) Send(ctx context.Context, msg Message, recipients []string) ([]Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/%s/messages", c.graphBase, c.phoneNumberID)
	results := make([]Result, 0, len(recipients))

	for _, raw := range recipients {
		to := NormalizeRecipient(raw)
		if to == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			results = append(results, Result{To: to, OK: false, Error: err.Error()})
			continue
		}
		results = append(results, c.sendOne(ctx, url, to, msg))
	}

	return results, nil
}

func (c *Client) sendOne(ctx context.Context, url, to string, msg Message) Result {
	body, err := json.Marshal(payload(to, msg))
	if err != nil {
		return Result{To: to, OK: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{To: to, OK: false, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[whatsapp] send to %s failed: %v", to, err)
		return Result{To: to, OK: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{To: to, OK: false, Error: err.Error()}
	}

	if resp.StatusCode >= 400 {
		log.Printf("[whatsapp] send to %s rejected: status=%d", to, resp.StatusCode)
		return Result{To: to, OK: false, Error: decodeBody(data)}
	}
	return Result{To: to, OK: true, Response: decodeBody(data)}
}

// NormalizeRecipient trims whitespace and a leading "+" from a phone number
func NormalizeRecipient(raw string) string {
	return strings.TrimLeft(strings.TrimSpace(raw), "+")
}

// AnyFailed reports whether at least one recipient failed
func AnyFailed(results []Result) bool {
	for _, r := range results {
		if !r.OK {
			return true
		}
	}
	return false
}

func payload(to string, msg Message) map[string]interface{} {
	if msg.ImageURL != "" {
		return map[string]interface{}{
			"messaging_product": "whatsapp",
			"to":                to,
			"type":              "image",
			"image":             map[string]string{"link": msg.ImageURL, "caption": msg.Text},
		}
	}
	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": msg.Text},
	}
}

// decodeBody returns the parsed JSON body, or the raw text if it is not JSON
func decodeBody(data []byte) interface{} {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	return v
}
