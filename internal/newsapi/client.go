// Package newsapi talks to a News v1-2 compatible server.
//
// Every call either returns a decoded payload or an [errors.Error] classified
// as a network, decode or server failure. Nothing is retried here: whatever
// failed gets picked up again on the next sync.
package newsapi

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

	nserrs "github.com/jdholdren/newsync/internal/errors"
	"github.com/jdholdren/newsync/internal/newsync"
)

// Ensure Client implements the Remote interface
var _ newsync.Remote = (*Client)(nil)

type (
	Config struct {
		// BaseURL is the API root, e.g. https://cloud.example.com/index.php/apps/news/api/v1-2
		BaseURL  string
		Username string
		Password string
		Timeout  time.Duration
	}

	Client struct {
		baseURL  string
		username string
		password string
		http     *http.Client
	}
)

func New(cfg Config, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base url: %s", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", cfg.BaseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		http:     httpClient,
	}, nil
}

// do performs the request and decodes the JSON response into out when out is
// not nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		byts, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request body: %s", err)
		}
		reader = bytes.NewReader(byts)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %s", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nserrs.E(nserrs.KindNetwork, fmt.Errorf("error calling %s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nserrs.E(nserrs.KindServer, resp.StatusCode, fmt.Errorf("unexpected status code from %s %s: %d", method, path, resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nserrs.E(nserrs.KindDecode, resp.StatusCode, fmt.Errorf("error decoding %s %s: %w", method, path, err))
	}

	return nil
}
