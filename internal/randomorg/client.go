// Package randomorg generates random integers, strings and choices. It
// prefers true random values from the random.org service and falls back to
// the local CSPRNG when the service is unreachable or out of quota.
package randomorg

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIURL   = "https://api.random.org/json-rpc/4/invoke"
	defaultQuotaURL = "https://www.random.org/quota/?format=plain"
	defaultBytesURL = "https://www.random.org/cgi-bin/randbyte"

	// DefaultTimeout bounds every request to the service.
	DefaultTimeout = 10 * time.Second
)

// Client talks to random.org. With an API key it uses the JSON-RPC API;
// without one it falls back to the plain per-IP endpoints. The URLs are
// fields so tests can point the client at a local server.
type Client struct {
	APIKey     string
	HTTPClient *http.Client

	APIURL   string
	QuotaURL string
	BytesURL string
}

// NewClient builds a client with the production endpoints.
func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
		APIURL:     defaultAPIURL,
		QuotaURL:   defaultQuotaURL,
		BytesURL:   defaultBytesURL,
	}
}

// QuotaError reports that random.org has too little quota left for the
// request.
type QuotaError struct {
	RequestedBytes int
	RemainingBytes int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("random.org quota exceeded: requested %d bytes with %d bytes remaining",
		e.RequestedBytes, e.RemainingBytes)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type integerParams struct {
	APIKey      string `json:"apiKey"`
	N           int    `json:"n"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Replacement bool   `json:"replacement"`
}

type usageParams struct {
	APIKey string `json:"apiKey"`
}

// invoke performs one JSON-RPC call and decodes its result field into out.
func (c *Client) invoke(ctx context.Context, method string, params, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      42,
	})
	if err != nil {
		return fmt.Errorf("randomorg: encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("randomorg: build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("randomorg: %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("randomorg: %s request failed with status %d", method, resp.StatusCode)
	}

	var rpc rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		return fmt.Errorf("randomorg: decode %s response: %w", method, err)
	}
	if rpc.Error != nil {
		return fmt.Errorf("randomorg: %s error %d: %s", method, rpc.Error.Code, rpc.Error.Message)
	}
	if err := json.Unmarshal(rpc.Result, out); err != nil {
		return fmt.Errorf("randomorg: decode %s result: %w", method, err)
	}
	return nil
}

// Quota returns the remaining random.org quota in bytes. With an API key it
// reads getUsage; otherwise it queries the plain per-IP quota endpoint.
func (c *Client) Quota(ctx context.Context) (int, error) {
	if c.APIKey != "" {
		var result struct {
			BitsLeft int `json:"bitsLeft"`
		}
		if err := c.invoke(ctx, "getUsage", usageParams{APIKey: c.APIKey}, &result); err != nil {
			return 0, err
		}
		return result.BitsLeft / 8, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QuotaURL, nil)
	if err != nil {
		return 0, fmt.Errorf("randomorg: build quota request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("randomorg: quota request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("randomorg: quota request failed with status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("randomorg: read quota response: %w", err)
	}
	bits, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, fmt.Errorf("randomorg: parse quota response: %w", err)
	}
	return bits / 8, nil
}

// CheckQuota returns nil when at least n bytes of quota remain, and a
// QuotaError otherwise.
func (c *Client) CheckQuota(ctx context.Context, n int) error {
	remaining, err := c.Quota(ctx)
	if err != nil {
		return err
	}
	if remaining < n {
		return &QuotaError{RequestedBytes: n, RemainingBytes: remaining}
	}
	return nil
}

// Integers fetches n true random integers in [min, max] via the JSON-RPC
// generateIntegers method. Requires an API key.
func (c *Client) Integers(ctx context.Context, n, min, max int, unique bool) ([]int, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("randomorg: generateIntegers requires an API key")
	}
	var result struct {
		Random struct {
			Data []int `json:"data"`
		} `json:"random"`
	}
	params := integerParams{
		APIKey:      c.APIKey,
		N:           n,
		Min:         min,
		Max:         max,
		Replacement: !unique,
	}
	if err := c.invoke(ctx, "generateIntegers", params, &result); err != nil {
		return nil, err
	}
	if len(result.Random.Data) != n {
		return nil, fmt.Errorf("randomorg: generateIntegers returned %d values, want %d", len(result.Random.Data), n)
	}
	return result.Random.Data, nil
}

// Bytes fetches n true random bytes from the key-less randbyte endpoint,
// which responds with hex text.
func (c *Client) Bytes(ctx context.Context, n int) ([]byte, error) {
	url := fmt.Sprintf("%s?nbytes=%d&format=h", c.BytesURL, n)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("randomorg: build randbyte request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("randomorg: randbyte request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("randomorg: randbyte request failed with status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("randomorg: read randbyte response: %w", err)
	}
	// The endpoint formats hex in whitespace-separated groups.
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, string(body))
	data, err := hex.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("randomorg: parse randbyte response: %w", err)
	}
	if len(data) != n {
		return nil, fmt.Errorf("randomorg: randbyte returned %d bytes, want %d", len(data), n)
	}
	return data, nil
}
