package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// Options configures the client
type Options struct {
	Endpoint string
	Username string // basic auth, optional
	Password string
	Retries  int
}

// Client posts GraphQL operations to the CMS endpoint
type Client struct {
	http     *retryablehttp.Client
	endpoint string
	username string
	password string
}

// NewClient creates a new Client
func NewClient(opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = opts.Retries

	return &Client{
		http:     rc,
		endpoint: opts.Endpoint,
		username: opts.Username,
		password: opts.Password,
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Do runs one operation and returns its "data" member. GraphQL errors are
// returned with their messages joined.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any) (gjson.Result, error) {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("graphql endpoint returned %s", resp.Status)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, errors.New("graphql endpoint returned invalid JSON")
	}

	result := gjson.ParseBytes(raw)
	if errs := result.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		return result.Get("data"), &Error{Messages: messages(errs)}
	}
	return result.Get("data"), nil
}

func messages(errs gjson.Result) []string {
	var out []string
	for _, e := range errs.Array() {
		if msg := e.Get("message").String(); msg != "" {
			out = append(out, msg)
		}
	}
	if len(out) == 0 {
		out = []string{"unknown graphql error"}
	}
	return out
}

// Error carries the messages of a GraphQL error response
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NotFound reports whether the error is the store's missing-path error
func (e *Error) NotFound() bool {
	for _, m := range e.Messages {
		if strings.Contains(m, "PathNotFoundException") || strings.Contains(m, "ItemNotFoundException") {
			return true
		}
	}
	return false
}
