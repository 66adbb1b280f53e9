// Package assist wraps the outbound learning-assist APIs: chat
// completion, image text recognition and translation.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ayubo/internal/config"
	"ayubo/internal/observability"
)

// ErrNotConfigured is returned when an assist endpoint has no URL or
// API key configured.
var ErrNotConfigured = errors.New("assist API is not configured")

const requestTimeout = 15 * time.Second

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the external assist services. The zero value is not
// usable; construct it with NewClient.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	chatURL      string
	ocrURL       string
	translateURL string
}

// NewClient builds an assist client from the application config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		apiKey:       cfg.RapidAPIKey,
		chatURL:      cfg.ChatAPIURL,
		ocrURL:       cfg.OCRAPIURL,
		translateURL: cfg.TranslateAPIURL,
	}
}

// Chat sends a conversation to the chat completion API and returns the
// assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if c.chatURL == "" || c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload := map[string]interface{}{
		"messages":    messages,
		"temperature": 0.9,
		"top_k":       5,
		"top_p":       0.9,
		"max_tokens":  256,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setRapidAPIHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveAssistRequest("chat", "error", start)
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	observability.ObserveAssistRequest("chat", resp.Status, start)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Result string `json:"result"`
		Error  string `json:"Error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if parsed.Result == "" {
		if parsed.Error != "" {
			return "", fmt.Errorf("chat API error: %s", parsed.Error)
		}
		return "", errors.New("chat API returned an empty result")
	}
	return parsed.Result, nil
}

// Recognize extracts text from an image reachable at imageURL.
func (c *Client) Recognize(ctx context.Context, imageURL string) (string, error) {
	if c.ocrURL == "" || c.apiKey == "" {
		return "", ErrNotConfigured
	}

	form := url.Values{}
	form.Set("url", imageURL)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ocrURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setRapidAPIHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveAssistRequest("ocr", "error", start)
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	observability.ObserveAssistRequest("ocr", resp.Status, start)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr API returned status %d", resp.StatusCode)
	}

	// The OCR provider nests the recognized text deep inside its
	// entity hierarchy.
	var parsed struct {
		Results []struct {
			Entities []struct {
				Objects []struct {
					Entities []struct {
						Text string `json:"text"`
					} `json:"entities"`
				} `json:"objects"`
			} `json:"entities"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}

	if len(parsed.Results) > 0 &&
		len(parsed.Results[0].Entities) > 0 &&
		len(parsed.Results[0].Entities[0].Objects) > 0 &&
		len(parsed.Results[0].Entities[0].Objects[0].Entities) > 0 {
		return parsed.Results[0].Entities[0].Objects[0].Entities[0].Text, nil
	}
	return "", errors.New("no text found in image")
}

// Translate converts text between two languages using the translation
// API's q/langpair GET interface.
func (c *Client) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	if c.translateURL == "" {
		return "", ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s?q=%s&langpair=%s%%7C%s",
		c.translateURL, url.QueryEscape(text), url.QueryEscape(fromLang), url.QueryEscape(toLang))

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveAssistRequest("translate", "error", start)
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	observability.ObserveAssistRequest("translate", resp.Status, start)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate API returned status %d", resp.StatusCode)
	}

	var parsed struct {
		ResponseStatus int `json:"responseStatus"`
		ResponseData   struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if parsed.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("translate API returned response status %d", parsed.ResponseStatus)
	}
	return parsed.ResponseData.TranslatedText, nil
}

// setRapidAPIHeaders attaches the API key and the host header the
// gateway routes on.
func (c *Client) setRapidAPIHeaders(req *http.Request) {
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", req.URL.Host)
}
