// Package verify submits pipeline outputs to the grading service's check
// endpoints and reports its verdict.
package verify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hupe1980/rankgo/codec"
	"github.com/hupe1980/rankgo/fetch"
	"github.com/hupe1980/rankgo/model"
)

// Client submits artifacts for verification. It reuses the fetch package's
// authorized API client.
type Client struct {
	api    *fetch.Client
	codec  codec.Codec
	logger *slog.Logger
}

// Options configures a verification Client.
type Options struct {
	// Codec encodes submissions. Defaults to codec.Default.
	Codec codec.Codec
	// Logger receives responses; nil discards.
	Logger *slog.Logger
}

// NewClient creates a verification client on top of an authorized API client.
func NewClient(api *fetch.Client, optFns ...func(*Options)) *Client {
	opts := Options{Codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{api: api, codec: opts.Codec, logger: logger}
}

// CheckValidation submits the cleaned dataset to /test/check-data-validation
// and returns the service's raw response body.
func (c *Client) CheckValidation(ctx context.Context, records []model.Record) ([]byte, error) {
	// The validation endpoint expects the capitalized "Data" key.
	return c.submit(ctx, "/test/check-data-validation", map[string]any{"Data": records})
}

// CheckTopK submits the result set to /test/check-topk-sort and returns the
// service's raw response body.
func (c *Client) CheckTopK(ctx context.Context, results model.ResultSet) ([]byte, error) {
	return c.submit(ctx, "/test/check-topk-sort", map[string]any{"data": results})
}

func (c *Client) submit(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := c.codec.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("verify: encode submission: %w", err)
	}

	resp, err := c.api.Do(ctx, http.MethodPost, c.api.Endpoint(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("verify: submit to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("verify: read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return out, &fetch.ErrHTTPStatus{Status: resp.StatusCode, Endpoint: endpoint}
	}

	c.logger.InfoContext(ctx, "verification response", "endpoint", endpoint, "body", string(out))

	return out, nil
}
