// Package explorer fetches verified contract source from an
// Etherscan-compatible block explorer API. The fetched source feeds the
// extraction pipeline with remote-relative import resolution, since the
// file paths it reports never exist on local disk.
package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotVerified is returned when the explorer has no verified source for
// an address.
var ErrNotVerified = errors.New("explorer: contract source not verified")

// ContractSource is the verified source bundle for one on-chain address.
type ContractSource struct {
	// ContractName is the explorer's suggested primary contract name.
	ContractName string

	// Files maps repository-relative paths to raw Solidity source. Single-file
	// verifications use the contract name as the sole key.
	Files map[string]string

	// CompilerVersion as reported by the explorer.
	CompilerVersion string
}

// Client talks to an Etherscan-compatible getsourcecode endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAPIKey sets the explorer API key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// NewClient creates a Client for the given explorer API base URL
// (e.g. "https://api.etherscan.io/api").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the Etherscan response wrapper.
type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Result  []sourceCodeEntry `json:"result"`
}

// sourceCodeEntry is one result row of the getsourcecode action.
type sourceCodeEntry struct {
	SourceCode      string `json:"SourceCode"`
	ContractName    string `json:"ContractName"`
	CompilerVersion string `json:"CompilerVersion"`
}

// GetSource fetches the verified source bundle for an address.
func (c *Client) GetSource(ctx context.Context, address string) (*ContractSource, error) {
	q := url.Values{}
	q.Set("module", "contract")
	q.Set("action", "getsourcecode")
	q.Set("address", address)
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}

	reqURL := c.baseURL + "?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("explorer: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("explorer: get source: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("explorer: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer: get source: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("explorer: decode response: %w", err)
	}
	if env.Status != "1" || len(env.Result) == 0 {
		return nil, fmt.Errorf("explorer: %s: %s", address, env.Message)
	}

	entry := env.Result[0]
	if entry.SourceCode == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotVerified, address)
	}

	files, err := parseSourceField(entry.SourceCode, entry.ContractName)
	if err != nil {
		return nil, fmt.Errorf("explorer: %s: %w", address, err)
	}

	return &ContractSource{
		ContractName:    entry.ContractName,
		Files:           files,
		CompilerVersion: entry.CompilerVersion,
	}, nil
}

// parseSourceField untangles the three shapes Etherscan stuffs into the
// SourceCode field: plain Solidity, a JSON object of {path: {content}}, and
// standard-JSON input wrapped in doubled braces.
func parseSourceField(source, contractName string) (map[string]string, error) {
	trimmed := strings.TrimSpace(source)

	// Standard-JSON input arrives wrapped in an extra brace pair: {{ ... }}.
	if strings.HasPrefix(trimmed, "{{") && strings.HasSuffix(trimmed, "}}") {
		trimmed = trimmed[1 : len(trimmed)-1]
	}

	if !strings.HasPrefix(trimmed, "{") {
		// Plain single-file source.
		return map[string]string{contractName + ".sol": source}, nil
	}

	// Multi-file: either {"sources": {path: {content}}} or {path: {content}}.
	var wrapper struct {
		Sources map[string]struct {
			Content string `json:"content"`
		} `json:"sources"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapper); err == nil && len(wrapper.Sources) > 0 {
		return flattenSources(wrapper.Sources), nil
	}

	var direct map[string]struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(trimmed), &direct); err != nil {
		return nil, fmt.Errorf("decode multi-file source: %w", err)
	}
	return flattenSources(direct), nil
}

func flattenSources(sources map[string]struct {
	Content string `json:"content"`
}) map[string]string {
	files := make(map[string]string, len(sources))
	for path, entry := range sources {
		files[path] = entry.Content
	}
	return files
}
