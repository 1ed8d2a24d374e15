// Package httpclient is the JSON client services use to call each other.
// Error responses are turned back into apperror values.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
)

const DefaultTimeout = 5 * time.Second

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Kind   apperror.Kind     `json:"kind"`
	Fields map[string]string `json:"fields"`
}

// Do sends in (when non-nil) as JSON and decodes a 2xx body into out (when
// non-nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out interface{}) error {
	reqURL := c.BaseURL + path

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return apperror.Internal("encode request", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return apperror.Internal("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("httpclient: request failed", err, "method", method, "url", reqURL)
		return apperror.Internal(fmt.Sprintf("call %s %s", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, method, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Internal("decode response", err)
	}
	return nil
}

func decodeError(resp *http.Response, method, path string) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)

	kind := eb.Kind
	if kind == "" {
		kind = apperror.KindFromStatus(resp.StatusCode)
	}
	msg := eb.Error
	if msg == "" {
		msg = fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode)
	}
	if kind == apperror.KindInternal {
		logger.Warn("httpclient: remote error", "method", method, "path", path, "status", resp.StatusCode, "message", msg)
	}
	return &apperror.Error{Kind: kind, Message: msg, Fields: eb.Fields}
}
