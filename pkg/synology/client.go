package synology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/seekfs/seekfs/pkg/provider"
)

const (
	// DefaultPort is the default DSM HTTPS port.
	DefaultPort = 5001

	// DefaultTimeout bounds every API call so a hung NAS cannot block a
	// session indefinitely.
	DefaultTimeout = 30 * time.Second

	apiPath = "/webapi/entry.cgi"

	// csrfHeader carries the SynoToken on every request after login.
	// The token must travel as a header, not a query parameter.
	csrfHeader = "X-SYNO-Token"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("synology: client closed")

// Config holds the connection parameters for a Client.
type Config struct {
	// Host is the NAS hostname or IP. Required.
	Host string

	// Port is the DSM port. Defaults to DefaultPort.
	Port int

	// Username and Password authenticate against SYNO.API.Auth.
	Username string
	Password string

	// Secure selects https when true, plain http otherwise.
	Secure bool

	// Timeout bounds each API call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client. Mainly for tests.
	HTTPClient *http.Client
}

// Client is a stateful Synology File Station client. It owns one HTTP
// client and one session state; use one Client per login.
//
// Client implements [provider.Provider] and [provider.ShareLister].
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client

	mu     sync.Mutex
	sid    string
	token  string // CSRF SynoToken, empty if DSM did not issue one
	closed bool
}

var (
	_ provider.Provider    = (*Client)(nil)
	_ provider.ShareLister = (*Client)(nil)
)

// New creates a Client in the unauthenticated state. No network traffic
// happens until Login.
func New(cfg Config) *Client {
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	scheme := "http"
	if cfg.Secure {
		scheme = "https"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:  fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, port),
		username: cfg.Username,
		password: cfg.Password,
		http:     hc,
	}
}

// Kind reports KindRemote.
func (c *Client) Kind() provider.Kind { return provider.KindRemote }

// apiResponse is the envelope every entry.cgi call returns.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type apiError struct {
	Code int `json:"code"`
}

// Login authenticates against SYNO.API.Auth and stores the session id and
// CSRF token. otpCode is the optional one-time code for two-factor
// accounts; pass "" when 2FA is not enabled.
//
// A transport failure satisfies provider.ErrConnection; a rejection by
// the NAS satisfies provider.ErrUnauthenticated and carries the remote
// code in a *Error.
func (c *Client) Login(ctx context.Context, otpCode string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	form := url.Values{
		"api":     {"SYNO.API.Auth"},
		"version": {"7"},
		"method":  {"login"},
		"account": {c.username},
		"passwd":  {c.password},
		"session": {"FileStation"},
		"format":  {"sid"},
	}
	if otpCode != "" {
		form.Set("otp_code", otpCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("synology: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: "login", kind: provider.ErrConnection, cause: err}
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp)
	if err != nil {
		return &Error{Op: "login", kind: provider.ErrConnection, cause: err}
	}
	if !env.Success {
		return &Error{Op: "login", Code: envCode(env), kind: provider.ErrUnauthenticated}
	}

	var data struct {
		SID       string `json:"sid"`
		SynoToken string `json:"synotoken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return &Error{Op: "login", kind: provider.ErrConnection, cause: err}
	}

	c.mu.Lock()
	c.sid = data.SID
	c.token = data.SynoToken
	c.mu.Unlock()
	return nil
}

// session returns a consistent snapshot of the session state.
func (c *Client) session() (sid, token string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid, c.token, c.sid != ""
}

// get performs an authenticated GET against entry.cgi and returns the
// data payload. reject is the taxonomy sentinel used when the NAS returns
// a non-success envelope.
func (c *Client) get(ctx context.Context, op string, query url.Values, sid, token string, reject error) (json.RawMessage, error) {
	query.Set("_sid", sid)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+apiPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("synology: build %s request: %w", op, err)
	}
	if token != "" {
		req.Header.Set(csrfHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: op, kind: provider.ErrConnection, cause: err}
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, &Error{Op: op, kind: provider.ErrConnection, cause: err}
	}
	if !env.Success {
		return nil, &Error{Op: op, Code: envCode(env), kind: reject}
	}
	return env.Data, nil
}

// Close releases the HTTP client. Idempotent; safe to call multiple
// times. It does not log the session out on the NAS side.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.sid = ""
	c.token = ""
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func decodeEnvelope(resp *http.Response) (*apiResponse, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var env apiResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected response (HTTP %d)", resp.StatusCode)
	}
	return &env, nil
}

func envCode(env *apiResponse) int {
	if env.Error != nil {
		return env.Error.Code
	}
	return 0
}
