package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrSessionExpired is returned by authenticated calls when the server
	// rejects the session, either with a transport 401 or an envelope
	// status_code of 401. The session-expired handler fires as well; callers
	// should not surface this error inline on top of that.
	ErrSessionExpired = errors.New("session expired")

	// ErrLinkInvalid is returned when a rating token is unknown, already
	// used or expired. The server's 404 and 410 both collapse into this:
	// the visitor is told the link is expired or invalid either way.
	ErrLinkInvalid = errors.New("rating link is expired or invalid")

	// ErrAlreadySubmitted is returned when the link was consumed by an
	// earlier submission
	ErrAlreadySubmitted = errors.New("rating already submitted")
)

// APIError is a non-success envelope from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// envelope mirrors the server's uniform response shape
type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Timestamp  string          `json:"timestamp"`
}

// Doer is the minimal HTTP client surface, satisfied by *http.Client
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the score API. It holds the session token and notifies a
// single observer when the session expires, so UI code has one place to
// route the user back to login.
type Client struct {
	baseURL    string
	httpClient Doer

	mu               sync.RWMutex
	token            string
	onSessionExpired func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.httpClient = d }
}

// WithToken sets an initial session token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the given API base URL, e.g.
// "https://score.ctecg.co.za/api"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken stores the session token used on authenticated calls
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnSessionExpired registers the observer called when an authenticated call
// fails with 401. Only one observer is held; setting a new one replaces it.
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	c.onSessionExpired = fn
	c.mu.Unlock()
}

func (c *Client) sessionExpired() error {
	c.mu.Lock()
	c.token = ""
	fn := c.onSessionExpired
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return ErrSessionExpired
}

// do executes one API call and decodes the envelope's data into out. When
// authenticated is set, the session token rides in X-Token and a 401 in
// either the transport status or the envelope body triggers the
// session-expired path.
func (c *Client) do(ctx context.Context, method, path string, body any, authenticated bool, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token := c.Token()
		if token == "" {
			return ErrSessionExpired
		}
		req.Header.Set("X-Token", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if authenticated && resp.StatusCode == http.StatusUnauthorized {
		return c.sessionExpired()
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("invalid response (status %d): %w", resp.StatusCode, err)
	}

	status := env.StatusCode
	if status == 0 {
		status = resp.StatusCode
	}

	if !env.Success {
		if authenticated && status == http.StatusUnauthorized {
			return c.sessionExpired()
		}
		return &APIError{StatusCode: status, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

// mapLinkError collapses the server's not-found and gone responses for a
// rating token into ErrLinkInvalid
func mapLinkError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			return ErrLinkInvalid
		case http.StatusConflict:
			return ErrAlreadySubmitted
		}
	}
	return err
}

// Login authenticates and stores the returned session token on success
func (c *Client) Login(ctx context.Context, email, password, userType string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":     email,
		"password":  password,
		"user_type": userType,
	}, false, &result)
	if err != nil {
		return nil, err
	}
	if result.Token != "" {
		c.SetToken(result.Token)
	}
	return &result, nil
}

// Verify checks the stored session
func (c *Client) Verify(ctx context.Context) (*SessionUser, error) {
	var user SessionUser
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout discards the session on both sides
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, false, nil)
	c.SetToken("")
	return err
}

// Info fetches the public branding payload
func (c *Client) Info(ctx context.Context) (*SystemInfo, error) {
	var info SystemInfo
	if err := c.do(ctx, http.MethodGet, "/public/info", nil, false, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchForm loads the rating form for a token and returns it as a Form
// ready for answering. Unknown, used and expired tokens all return
// ErrLinkInvalid.
func (c *Client) FetchForm(ctx context.Context, token string) (*Form, error) {
	var data FormData
	if err := c.do(ctx, http.MethodGet, "/public/rating/"+url.PathEscape(token), nil, false, &data); err != nil {
		return nil, mapLinkError(err)
	}
	return newForm(c, token, &data), nil
}

// LinkStatus probes whether a token is still usable
func (c *Client) LinkStatus(ctx context.Context, token string) (*LinkStatus, error) {
	var status LinkStatus
	err := c.do(ctx, http.MethodGet, "/public/rating/"+url.PathEscape(token)+"/status", nil, false, &status)
	if err != nil {
		return nil, mapLinkError(err)
	}
	return &status, nil
}

// submitRating posts a completed form's answers. Comments and the captcha
// token are optional and omitted from the body when empty.
func (c *Client) submitRating(ctx context.Context, token string, answers map[string]int, comments, recaptchaToken string) (*SubmitResult, error) {
	body := map[string]any{
		"answers": answers,
	}
	if comments != "" {
		body["comments"] = comments
	}
	if recaptchaToken != "" {
		body["recaptcha_token"] = recaptchaToken
	}

	var result SubmitResult
	err := c.do(ctx, http.MethodPost, "/public/rating/"+url.PathEscape(token), body, false, &result)
	if err != nil {
		return nil, mapLinkError(err)
	}
	return &result, nil
}

// Leaderboard fetches the public standings for a period
func (c *Client) Leaderboard(ctx context.Context, params LeaderboardParams) (*Leaderboard, error) {
	query := url.Values{}
	if params.Year != 0 {
		query.Set("year", strconv.Itoa(params.Year))
	}
	if params.Month != 0 {
		query.Set("month", strconv.Itoa(params.Month))
	}
	if params.Limit != 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	path := "/public/leaderboard"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var lb Leaderboard
	if err := c.do(ctx, http.MethodGet, path, nil, false, &lb); err != nil {
		return nil, err
	}
	return &lb, nil
}
