package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const mailChannelsEndpoint = "https://api.mailchannels.net/tx/v1/send"

// MailClient delivers transactional mail through the MailChannels send
// API. The zero Endpoint means production; tests point it at a local
// server.
type MailClient struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

func NewMailClient(apiKey string) *MailClient {
	return &MailClient{
		APIKey:     apiKey,
		Endpoint:   mailChannelsEndpoint,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type mailPersonalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailPayload struct {
	Personalizations []mailPersonalization `json:"personalizations"`
	From             mailAddress           `json:"from"`
	Subject          string                `json:"subject"`
	Content          []mailContent         `json:"content"`
}

// Send posts one plain-text message.
func (m *MailClient) Send(ctx context.Context, toName, toEmail, subject, body string) error {
	if m.APIKey == "" {
		return fmt.Errorf("mailchannels: API key is missing")
	}

	payload := mailPayload{
		Personalizations: []mailPersonalization{{To: []mailAddress{{Email: toEmail, Name: toName}}}},
		From:             mailAddress{Email: "no-reply@anime-dimension.com", Name: "Anime Dimension no-reply"},
		Subject:          subject,
		Content:          []mailContent{{Type: "text/plain", Value: body}},
	}

	bs, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mailchannels: marshal payload: %w", err)
	}

	endpoint := m.Endpoint
	if endpoint == "" {
		endpoint = mailChannelsEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("mailchannels: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("mailchannels: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mailchannels: send failed with status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
