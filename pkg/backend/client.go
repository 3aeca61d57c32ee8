// Package backend talks to the scraping server over its HTTP/JSON contract.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-scripts/scrapeview/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error is a non-2xx answer from the backend. Message carries the server's
// "error" field when it sent one.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// Client is an HTTP client for one backend base URL
type Client struct {
	base   *url.URL
	client *http.Client
}

// NewClient creates a client for the server at baseURL. No timeout is set;
// callers bound requests through their context.
func NewClient(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{base: u, client: hc}, nil
}

// Scrape asks the backend to scrape target and returns the extracted items
func (c *Client) Scrape(ctx context.Context, target string) ([]common.Item, error) {
	form := url.Values{"url": {target}}
	req, err := c.newRequest(ctx, http.MethodPost, "/scrape", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var items []common.Item
	if err := c.do(req, "scrape", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Fetch returns the full dataset currently stored by the backend
func (c *Client) Fetch(ctx context.Context) ([]common.Item, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/get-data", nil)
	if err != nil {
		return nil, err
	}
	var items []common.Item
	if err := c.do(req, "get data", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes the item stored at position pos
func (c *Client) Delete(ctx context.Context, pos int) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/delete/"+strconv.Itoa(pos), nil)
	if err != nil {
		return err
	}
	return c.doSuccess(req, "delete")
}

// Refresh clears the backend's dataset
func (c *Client) Refresh(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/refresh", nil)
	if err != nil {
		return err
	}
	return c.doSuccess(req, "refresh")
}

// ExportURL returns the address that produces a download in format
func (c *Client) ExportURL(format string) string {
	return c.base.JoinPath("export", format).String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

type successBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) doSuccess(req *http.Request, op string) error {
	var body successBody
	if err := c.do(req, op, &body); err != nil {
		return err
	}
	if !body.Success {
		return &Error{Op: op, Status: http.StatusOK, Message: body.Error}
	}
	return nil
}

// do sends req and decodes a 2xx JSON body into out. Non-2xx answers
// become *Error with the server's message when the body has one.
func (c *Client) do(req *http.Request, op string, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		// a body that is not JSON still yields a status-only error
		_ = json.Unmarshal(data, &body)
		return &Error{Op: op, Status: resp.StatusCode, Message: body.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
