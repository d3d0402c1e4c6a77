package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/rankgo/codec"
)

// tokenExpiryLayout matches the service's tokenExpiryAt format,
// e.g. "2025-01-02 15:04:05+08:00".
const tokenExpiryLayout = "2006-01-02 15:04:05-07:00"

// ErrHTTPStatus indicates a non-2xx response from the dataset API.
type ErrHTTPStatus struct {
	Status   int
	Endpoint string
}

func (e *ErrHTTPStatus) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.Endpoint)
}

// Client is an HTTP client for the dataset API that manages the
// authorization token: it registers on first use, caches the token, and
// re-registers when the token expires. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time

	now func() time.Time
}

// ClientOptions configures a Client.
type ClientOptions struct {
	// HTTPClient is the underlying client; nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// NewClient creates a Client for the API at baseURL.
func NewClient(baseURL string, optFns ...func(*ClientOptions)) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		now:     time.Now,
	}
}

type registerResponse struct {
	Data struct {
		AuthorizationToken string `json:"authorizationToken"`
		TokenExpiryAt      string `json:"tokenExpiryAt"`
	} `json:"data"`
}

func (c *Client) tokenValid() bool {
	return c.token != "" && c.now().Before(c.tokenExpiry)
}

func (c *Client) refreshToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/register", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: register: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ErrHTTPStatus{Status: resp.StatusCode, Endpoint: "/register"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fetch: register: %w", err)
	}

	var reg registerResponse
	if err := codec.Default.Unmarshal(body, &reg); err != nil {
		return fmt.Errorf("fetch: register: %w", err)
	}

	expiry, err := time.Parse(tokenExpiryLayout, reg.Data.TokenExpiryAt)
	if err != nil {
		return fmt.Errorf("fetch: parse token expiry %q: %w", reg.Data.TokenExpiryAt, err)
	}

	c.token = reg.Data.AuthorizationToken
	c.tokenExpiry = expiry
	return nil
}

// authToken returns a currently valid token, refreshing it if needed.
func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tokenValid() {
		if err := c.refreshToken(ctx); err != nil {
			return "", err
		}
	}
	return c.token, nil
}

// Do executes an API request with the authorization token attached,
// renewing the token first if it has expired.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("authorizationToken", token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpc.Do(req)
}

// Endpoint joins a path onto the API base URL.
func (c *Client) Endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
