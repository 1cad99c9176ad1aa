// internal/pkg/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/config"
)

// Client is the single typed gateway to the music-store REST backend.
// It never retries; a failed call is reported once and the caller decides.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// Request describes one call against the store
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Header http.Header
}

// Response is the raw outcome of a successful call
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// NewClient creates a client from configuration
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	httpClient := &http.Client{}
	if cfg.StoreAPI.Timeout > 0 {
		httpClient.Timeout = cfg.StoreAPI.Timeout
	}
	return NewClientWithHTTP(cfg.StoreAPI.BaseURL, httpClient, logger)
}

// NewClientWithHTTP creates a client around an existing http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do sends req and decodes a successful JSON body into out (when non-nil)
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	resp, err := c.Raw(ctx, req)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

// Raw sends req and returns the undecoded body of a 2xx response
func (c *Client) Raw(ctx context.Context, req Request) (*Response, error) {
	op := fmt.Sprintf("%s %s", req.Method, req.Path)

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.Path,
		}).WithError(err).Warn("Store request failed before a response")
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	entry := c.logger.WithFields(logrus.Fields{
		"method":  req.Method,
		"path":    req.Path,
		"status":  httpResp.StatusCode,
		"latency": time.Since(start),
	})

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized:
		entry.Info("Store rejected credentials")
		rejection := rejectionFromResponse(httpResp.StatusCode, body)
		return nil, &AuthError{Message: rejection.Message}
	case httpResp.StatusCode >= 400:
		entry.Info("Store rejected request")
		return nil, rejectionFromResponse(httpResp.StatusCode, body)
	}

	entry.Debug("Store request completed")

	return &Response{
		Status:      httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil || method == http.MethodPost || method == http.MethodPut {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	return httpReq, nil
}
