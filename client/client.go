package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the shared HTTP transport for the info and exchange endpoints.
// The API is POST-JSON throughout.
type Client struct {
	httpClient *http.Client
	baseUrl    string
}

var ErrAPIFailure = errors.New("api request failed")

func NewClient(baseUrl string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseUrl:    baseUrl,
	}
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}, result interface{}) error {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+endpoint, bytes.NewReader(bytes.TrimSpace(buf.Bytes())))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doRequest(req, result)
}

func (c *Client) doRequest(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error %d: %s: %w", resp.StatusCode, string(body), ErrAPIFailure)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return err
		}
	}

	return nil
}
