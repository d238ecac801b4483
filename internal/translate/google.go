package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleProvider translates through the public Google Translate web
// endpoint. No API key is needed, which also means no SLA; failures are
// expected and handled by the service's degradation rules.
type GoogleProvider struct {
	client   *http.Client
	endpoint string
}

// NewGoogleProvider creates a Google web-endpoint provider.
func NewGoogleProvider() *GoogleProvider {
	return &GoogleProvider{
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: googleEndpoint,
	}
}

// NewGoogleProviderWithEndpoint is used by tests to point at a stub server.
func NewGoogleProviderWithEndpoint(endpoint string, client *http.Client) *GoogleProvider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GoogleProvider{client: client, endpoint: endpoint}
}

// Translate implements Provider.
func (p *GoogleProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("google translate request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("google translate read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google translate status %d: %s", resp.StatusCode, body)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse extracts the translated segments from the gtx
// response, a nested JSON array of the form
// [[["segment","source",...],...],...].
func parseGoogleResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("google translate decode: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("google translate: empty response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("google translate: unexpected response shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if text, ok := parts[0].(string); ok {
			sb.WriteString(text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("google translate: no segments in response")
	}
	return sb.String(), nil
}
