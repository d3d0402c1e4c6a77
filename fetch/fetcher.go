package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/rankgo/blobstore"
	"github.com/hupe1980/rankgo/codec"
)

// Options configures a Fetcher.
type Options struct {
	// RawPrefix is the artifact prefix raw pages are stored under.
	RawPrefix string
	// PageInterval is the minimum delay between page requests.
	// Defaults to 10 seconds, the service's documented rate limit.
	PageInterval time.Duration
	// MaxPages bounds a run; 0 means unbounded.
	MaxPages int
	// Codec decodes API responses. Defaults to codec.Default.
	Codec codec.Codec
	// Logger receives per-page progress; nil discards.
	Logger *slog.Logger
}

// Fetcher downloads the paginated dataset into the artifact store.
type Fetcher struct {
	client  *Client
	store   blobstore.Store
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher that stores raw pages through store.
func NewFetcher(client *Client, store blobstore.Store, optFns ...func(*Options)) *Fetcher {
	opts := Options{
		RawPrefix:    "datasets/",
		PageInterval: 10 * time.Second,
		Codec:        codec.Default,
	}
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

	return &Fetcher{
		client:  client,
		store:   store,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.PageInterval), 1),
		logger:  logger,
	}
}

type downloadResponse struct {
	Data struct {
		DatasetURL string `json:"dataset_url"`
		NextID     string `json:"next_id"`
	} `json:"data"`
}

// FetchAll walks the dataset page by page until the service reports no next
// page, storing each raw page under its service-assigned filename (the
// service names pages so that ascending name order is fetch order).
// Returns the stored page names.
func (f *Fetcher) FetchAll(ctx context.Context) ([]string, error) {
	var (
		pages  []string
		pageID string
	)

	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return pages, err
		}

		f.logger.InfoContext(ctx, "downloading page", "next_id", pageID)

		name, nextID, err := f.fetchPage(ctx, pageID)
		if err != nil {
			return pages, fmt.Errorf("fetch: page %q: %w", pageID, err)
		}
		pages = append(pages, name)

		if nextID == "" {
			f.logger.InfoContext(ctx, "no more pages", "pages", len(pages))
			return pages, nil
		}
		if f.opts.MaxPages > 0 && len(pages) >= f.opts.MaxPages {
			f.logger.InfoContext(ctx, "page limit reached", "pages", len(pages))
			return pages, nil
		}
		pageID = nextID
	}
}

// fetchPage downloads one page: asks the API for the page's dataset URL,
// retrieves the JSON document behind it, and stores it raw.
func (f *Fetcher) fetchPage(ctx context.Context, pageID string) (string, string, error) {
	payload, err := f.opts.Codec.Marshal(map[string]string{"next_id": pageID})
	if err != nil {
		return "", "", err
	}

	resp, err := f.client.Do(ctx, http.MethodPost, f.client.Endpoint("/download-dataset"), payload)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", &ErrHTTPStatus{Status: resp.StatusCode, Endpoint: "/download-dataset"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}

	var dl downloadResponse
	if err := f.opts.Codec.Unmarshal(body, &dl); err != nil {
		return "", "", err
	}

	name, err := pageName(dl.Data.DatasetURL)
	if err != nil {
		return "", "", err
	}

	f.logger.InfoContext(ctx, "dataset url resolved", "page", name)

	pageResp, err := f.client.Do(ctx, http.MethodGet, dl.Data.DatasetURL, nil)
	if err != nil {
		return "", "", err
	}
	defer pageResp.Body.Close()

	if pageResp.StatusCode != http.StatusOK {
		return "", "", &ErrHTTPStatus{Status: pageResp.StatusCode, Endpoint: dl.Data.DatasetURL}
	}

	data, err := io.ReadAll(pageResp.Body)
	if err != nil {
		return "", "", err
	}

	stored := path.Join(f.opts.RawPrefix, name)
	if err := f.store.Put(ctx, stored, data); err != nil {
		return "", "", err
	}

	f.logger.InfoContext(ctx, "page stored", "artifact", stored, "bytes", len(data))

	return stored, dl.Data.NextID, nil
}

// pageName extracts the page filename from a (typically pre-signed)
// dataset URL.
func pageName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid dataset url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("dataset url %q has no filename", rawURL)
	}
	return name, nil
}
