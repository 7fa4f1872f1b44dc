// Package deepl implements a minimal client for the DeepL REST API v2:
// text translation with billed-character reporting, supported-language
// queries, and account usage.
//
// API failures are surfaced as *APIError values carrying a closed set of
// error kinds (auth, quota, rate-limit, invalid-language, server) so
// callers can branch on the failure class instead of parsing messages.
// Transport-level failures are returned as wrapped errors from net/http.
package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// ProBaseURL is the endpoint for paid DeepL API subscriptions.
	ProBaseURL = "https://api.deepl.com"
	// FreeBaseURL is the endpoint for DeepL API Free authentication
	// keys (recognizable by their ":fx" suffix).
	FreeBaseURL = "https://api-free.deepl.com"

	defaultTimeout = 30 * time.Second
)

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------

// ErrorKind classifies an API failure.
type ErrorKind string

const (
	// KindAuth covers invalid or rejected authentication keys.
	KindAuth ErrorKind = "auth"
	// KindQuota means the account's character quota is exhausted.
	KindQuota ErrorKind = "quota"
	// KindRateLimit means too many requests in a short period.
	KindRateLimit ErrorKind = "rate-limit"
	// KindInvalidLanguage covers bad request parameters, most commonly
	// an unsupported language code.
	KindInvalidLanguage ErrorKind = "invalid-language"
	// KindServer covers everything else the API reports.
	KindServer ErrorKind = "server"
)

// APIError is a non-2xx response from the DeepL API.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("deepl: %s (HTTP %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("deepl: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
}

func classify(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindInvalidLanguage
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	case 456: // DeepL: quota exceeded
		return KindQuota
	}
	return KindServer
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// Client talks to the DeepL API using a fixed authentication key.
type Client struct {
	baseURL string
	authKey string
	http    *http.Client
}

// New creates a client. Free-tier keys (suffix ":fx") are routed to the
// api-free endpoint automatically, matching DeepL's own SDKs.
func New(authKey string) *Client {
	base := ProBaseURL
	if strings.HasSuffix(authKey, ":fx") {
		base = FreeBaseURL
	}
	return &Client{
		baseURL: base,
		authKey: authKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL overrides the API endpoint (used by tests and proxies).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// ---------------------------------------------------------------------------
// Translation
// ---------------------------------------------------------------------------

// Translation is the result of translating one text.
type Translation struct {
	Text                   string `json:"text"`
	DetectedSourceLanguage string `json:"detected_source_language"`
	BilledCharacters       int    `json:"billed_characters"`
}

type translateRequest struct {
	Text                 []string `json:"text"`
	TargetLang           string   `json:"target_lang"`
	Context              string   `json:"context,omitempty"`
	ShowBilledCharacters bool     `json:"show_billed_characters"`
}

type translateResponse struct {
	Translations []Translation `json:"translations"`
}

// TranslateText translates one text into targetLang. The optional hint
// is free-text context (domain, audience) forwarded to the API; it
// influences the translation but is never translated or billed itself.
func (c *Client) TranslateText(ctx context.Context, text, targetLang, hint string) (*Translation, error) {
	req := translateRequest{
		Text:                 []string{text},
		TargetLang:           strings.ToUpper(targetLang),
		Context:              hint,
		ShowBilledCharacters: true,
	}

	var resp translateResponse
	if err := c.post(ctx, "/v2/translate", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Translations) == 0 {
		return nil, fmt.Errorf("deepl: empty translation response")
	}
	return &resp.Translations[0], nil
}

// ---------------------------------------------------------------------------
// Language support
// ---------------------------------------------------------------------------

// Language describes one language the API can translate from or to.
type Language struct {
	Language string `json:"language"`
	Name     string `json:"name"`
}

// TargetLanguages returns the languages the API can translate into.
func (c *Client) TargetLanguages(ctx context.Context) ([]Language, error) {
	return c.languages(ctx, "target")
}

// SourceLanguages returns the languages the API can translate from.
func (c *Client) SourceLanguages(ctx context.Context) ([]Language, error) {
	return c.languages(ctx, "source")
}

func (c *Client) languages(ctx context.Context, typ string) ([]Language, error) {
	var langs []Language
	if err := c.get(ctx, "/v2/languages?type="+typ, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// IsSupportedTargetLanguage reports whether code (case-insensitive) is
// an accepted target language.
func (c *Client) IsSupportedTargetLanguage(ctx context.Context, code string) (bool, error) {
	langs, err := c.TargetLanguages(ctx)
	if err != nil {
		return false, err
	}
	code = strings.ToUpper(code)
	for _, l := range langs {
		if strings.ToUpper(l.Language) == code {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Usage
// ---------------------------------------------------------------------------

// Usage is the account's billing-period character consumption.
type Usage struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}

// Usage returns the characters translated and the limit for the current
// billing period.
func (c *Client) Usage(ctx context.Context) (*Usage, error) {
	var u Usage
	if err := c.get(ctx, "/v2/usage", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("deepl: encoding request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("deepl: creating request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("deepl: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			Kind:    classify(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(respBody),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("deepl: decoding response: %w", err)
	}
	return nil
}

// errorMessage extracts the "message" field from an error payload,
// falling back to a truncated raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
