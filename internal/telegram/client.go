// Package telegram is a minimal Telegram Bot API client used to push status
// notifications. Every call is a single attempt bounded by the client
// timeout; callers decide what a failure means.
//
// Deliver never returns an error. Its Result folds the three possible
// outcomes into one shape:
//
//   - OutcomeTransport: the endpoint could not be reached, timed out, or
//     answered with something that is not a Bot API envelope.
//   - OutcomeRejected: the envelope says ok=false; Description carries the
//     API error text (e.g. "Forbidden: bot was blocked by the user").
//   - OutcomeDelivered: ok=true.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIBase is the public Bot API host.
const DefaultAPIBase = "https://api.telegram.org"

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is decoded.
const maxResponseBytes = 1 << 20

// ErrNoToken is returned by GetMe when the client has no bot token.
var ErrNoToken = errors.New("telegram: bot token not configured")

// Outcome classifies a delivery attempt.
type Outcome int

const (
	OutcomeDelivered Outcome = iota
	OutcomeRejected
	OutcomeTransport
)

// String returns a stable label, used as a metrics label value.
func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Result is the uniform outcome of Deliver.
type Result struct {
	OK          bool
	Outcome     Outcome
	Description string
	// ErrorCode is the Bot API error_code for rejections (e.g. 403), or the
	// HTTP status for undecodable responses. Zero otherwise.
	ErrorCode int
}

// SendOption customizes a sendMessage call.
type SendOption func(url.Values)

// WithParseMode sets parse_mode (e.g. "HTML"). Empty values are ignored.
func WithParseMode(mode string) SendOption {
	return func(v url.Values) {
		if mode != "" {
			v.Set("parse_mode", mode)
		}
	}
}

// WithoutPreview disables link previews for the message.
func WithoutPreview() SendOption {
	return func(v url.Values) { v.Set("disable_web_page_preview", "true") }
}

// Client talks to one bot. The zero value is not usable; use NewClient.
type Client struct {
	token      string
	baseURL    string // {apiBase}/bot{token}
	httpClient *http.Client
}

// NewClient builds a client for token. An empty apiBase selects the public
// API and a non-positive timeout selects DefaultTimeout.
func NewClient(apiBase, token string, timeout time.Duration) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		token:      token,
		baseURL:    fmt.Sprintf("%s/bot%s", strings.TrimRight(apiBase, "/"), token),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a bot token is set.
func (c *Client) Configured() bool { return c != nil && c.token != "" }

// Deliver sends text to chatID via sendMessage.
func (c *Client) Deliver(ctx context.Context, chatID int64, text string, opts ...SendOption) Result {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)
	for _, opt := range opts {
		opt(form)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sendMessage", strings.NewReader(form.Encode()))
	if err != nil {
		return transportResult(c.redact(err.Error()), 0)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	env, status, err := c.do(req)
	if err != nil {
		return transportResult(err.Error(), status)
	}
	if !env.ok() {
		return Result{
			Outcome:     OutcomeRejected,
			Description: env.describe(status),
			ErrorCode:   env.ErrorCode,
		}
	}
	return Result{OK: true, Outcome: OutcomeDelivered}
}

// GetMe returns the bot identity. Envelope rejections are *APIError;
// transport failures are wrapped plain errors.
func (c *Client) GetMe(ctx context.Context) (*BotInfo, error) {
	if !c.Configured() {
		return nil, ErrNoToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getMe", nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: build getMe request: %s", c.redact(err.Error()))
	}

	env, status, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: getMe: %s", err.Error())
	}
	if !env.ok() {
		return nil, &APIError{ErrorCode: env.ErrorCode, Description: env.describe(status)}
	}

	var info BotInfo
	if err := json.Unmarshal(env.Result, &info); err != nil {
		return nil, fmt.Errorf("telegram: decode getMe result: %w", err)
	}
	return &info, nil
}

// do executes req and decodes the Bot API envelope. Non-2xx statuses are
// fine as long as the body is an envelope; the API reports rejections that
// way (403 for blocked bots, 400 for unknown chats). Returned error strings
// never contain the bot token.
func (c *Client) do(req *http.Request) (*envelope, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.New(c.redact(err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %s", c.redact(err.Error()))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || !env.hasOK() {
		return nil, resp.StatusCode, fmt.Errorf("unexpected response (HTTP %d)", resp.StatusCode)
	}
	return &env, resp.StatusCode, nil
}

// redact strips the bot token from s; url.Error messages embed the URL.
func (c *Client) redact(s string) string {
	if c.token == "" {
		return s
	}
	return strings.ReplaceAll(s, c.token, "<redacted>")
}

func transportResult(desc string, status int) Result {
	return Result{Outcome: OutcomeTransport, Description: desc, ErrorCode: status}
}
