// Package mail is a thin client for the transactional email HTTP API.
// The client is constructed once at process start and passed to whoever
// sends email; there is no package-level instance.
package mail

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var ErrDisabled = errors.New("outgoing email is not configured")

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, from string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

func (c *Client) Send(to, subject, text string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	msg := Message{
		From:    c.from,
		To:      to,
		Subject: subject,
		Text:    text,
	}
	buf := bytes.Buffer{}
	_ = json.NewEncoder(&buf).Encode(msg)
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/messages", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("mail.Send error: %v", err)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		buf.Reset()
		_, _ = io.Copy(&buf, resp.Body)
		log.Printf("mail.Send error, status: %d, %s", resp.StatusCode, buf.String())
		return fmt.Errorf("mail API status: %d", resp.StatusCode)
	}
	return nil
}
