package cli

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

type Client struct {
	Host string
	HTTP *http.Client
}

func NewClient(host string, timeout time.Duration) *Client {
	return &Client{
		Host: strings.TrimRight(host, "/"),
		HTTP: &http.Client{Timeout: timeout},
	}
}

// Request sends one call to the segment API and prints the status and body to out.
// JSON bodies are indented; anything else is printed as is.
func (c *Client) Request(ctx context.Context, method, endpoint, data string, out io.Writer) error {
	url := c.Host + "/" + strings.TrimLeft(endpoint, "/")
	var body io.Reader
	if data != "" {
		if !json.Valid([]byte(data)) {
			return fmt.Errorf("payload is not valid JSON: %s", data)
		}
		body = strings.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	fmt.Fprintf(out, "Status: %s\n", resp.Status)
	if len(raw) == 0 {
		return nil
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err == nil {
		fmt.Fprintln(out, "Response:")
		fmt.Fprintln(out, pretty.String())
	} else {
		fmt.Fprintf(out, "Response: %s\n", string(raw))
	}
	return nil
}
