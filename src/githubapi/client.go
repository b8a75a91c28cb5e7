// Package githubapi is a small GitHub REST client. Every call builds a URL,
// sends the standard GitHub headers, and validates the decoded response
// against the JSON Schema for the expected resource shape before returning it.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.github.com"
	APIVersion     = "2022-11-28"
	mediaType      = "application/vnd.github+json"
)

// Client is a GitHub REST API client
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new GitHub client against api.github.com.
// An empty token sends unauthenticated requests.
func NewClient(token string) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: DefaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client for GitHub Enterprise or a test server.
// A nil httpClient uses a 30 second timeout.
func NewClientWithBaseURL(token, baseURL string, httpClient *http.Client) *Client {
	c := NewClient(token)
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// Params holds optional query parameters. Nil values, empty strings, zero
// integers and false booleans are treated as unset and omitted.
type Params map[string]any

// BuildURL appends params to base, omitting unset values. Keys are encoded in
// sorted order so the result is deterministic.
func BuildURL(base string, params Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		if s, ok := formatParam(params[k]); ok {
			values.Set(k, s)
		}
	}
	if len(values) == 0 {
		return base
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + values.Encode()
}

func formatParam(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case *string:
		if t == nil || *t == "" {
			return "", false
		}
		return *t, true
	case int:
		return strconv.Itoa(t), t != 0
	case int64:
		return strconv.FormatInt(t, 10), t != 0
	case bool:
		return "true", t
	case *bool:
		if t == nil {
			return "", false
		}
		return strconv.FormatBool(*t), true
	case []string:
		return strings.Join(t, ","), len(t) > 0
	default:
		return fmt.Sprint(t), true
	}
}

// repoPath returns /repos/{owner}/{repo} with both segments escaped.
func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}

// newRequest builds a request with the standard GitHub headers and an
// optional JSON body.
func (c *Client) newRequest(ctx context.Context, method, path string, query Params, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, BuildURL(c.baseURL+path, query), reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", mediaType)
	req.Header.Set("X-GitHub-Api-Version", APIVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends the request, checks the status, validates the body against shape
// and decodes it into out. out may be nil when the body is not needed.
func (c *Client) do(ctx context.Context, method, path string, query Params, body any, shape Shape, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:     method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := validate(shape, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", shape, err)
	}
	return nil
}

// get is a convenience for GET requests returning the raw validated body.
func (c *Client) get(ctx context.Context, path string, query Params, shape Shape) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, shape, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// send is a convenience for requests with a JSON body returning the raw validated body.
func (c *Client) send(ctx context.Context, method, path string, body any, shape Shape) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, nil, body, shape, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
