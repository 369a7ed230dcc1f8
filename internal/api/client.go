package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lunarlog/internal/model"
)

// Client provides typed access to the research backend for interactive tools.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithToken sets the session token used for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New constructs a Client pointing at the provided backend base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:1111"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// BaseURL reports the normalized backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken swaps the session token after login/logout.
func (c *Client) SetToken(token string) { c.token = strings.TrimSpace(token) }

// APIError represents an error response from the backend. Message carries the
// backend's human-readable message and is shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend request failed with status %d", e.Status)
	}
	return e.Message
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, v)
}

func (c *Client) send(req *http.Request, v any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return APIError{Status: resp.StatusCode, Message: extractMessage(resp.Body)}
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractMessage(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Message == "" {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Message)
}

// Health probes backend reachability. It distinguishes "unreachable" from any
// HTTP-level answer: an authentication failure still means the backend is up.
func (c *Client) Health(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	if _, ok := err.(APIError); ok {
		return nil
	}
	return err
}

// LoginResponse is the session payload emitted on successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a session token and adopts it.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/session/login", body, &resp); err != nil {
		return LoginResponse{}, err
	}
	c.token = resp.Token
	return resp, nil
}

// Logout clears the backend session and drops the local token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/session/logout", nil, nil)
	c.token = ""
	return err
}

// Me returns the current session's user.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/session/me", nil, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// FindOptions shape a collection read. Include names relationship fields the
// backend should embed in the same round trip; Sort is "field:asc|desc".
type FindOptions struct {
	Include []string
	Sort    string
	Limit   int
}

func (o FindOptions) query() string {
	q := url.Values{}
	if len(o.Include) > 0 {
		q.Set("include", strings.Join(o.Include, ","))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) find(ctx context.Context, et model.EntityType, opts FindOptions, out any) error {
	path := "/collections/" + et.String() + opts.query()
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// ListProjects returns projects with the lead scientist embedded, newest first.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var resp struct {
		Data []model.Project `json:"data"`
	}
	opts := FindOptions{Include: []string{"leadScientist"}, Sort: "createdAt:desc"}
	if err := c.find(ctx, model.EntityProject, opts, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListLogs returns observation logs with observer and project embedded,
// most recent observation first.
func (c *Client) ListLogs(ctx context.Context) ([]model.ObservationLog, error) {
	var resp struct {
		Data []model.ObservationLog `json:"data"`
	}
	opts := FindOptions{Include: []string{"observer", "project"}, Sort: "observationDate:desc"}
	if err := c.find(ctx, model.EntityObservationLog, opts, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Candidate is a minimal row used to populate relationship selectors.
type Candidate struct {
	ID   string
	Name string
}

// CandidateLimit bounds relationship candidate fetches. The candidate list is
// an enumeration, not a search; referenced collections are assumed to fit.
const CandidateLimit = 100

// Candidates fetches up to CandidateLimit records of the given entity type and
// maps each to its display label.
func (c *Client) Candidates(ctx context.Context, et model.EntityType) ([]Candidate, error) {
	var resp struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.find(ctx, et, FindOptions{Limit: CandidateLimit}, &resp); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Data))
	field := et.DisplayField()
	for _, row := range resp.Data {
		id, _ := row["id"].(string)
		if id == "" {
			continue
		}
		name, _ := row[field].(string)
		out = append(out, Candidate{ID: id, Name: name})
	}
	return out, nil
}
