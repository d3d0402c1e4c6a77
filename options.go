package rankgo

import (
	"net/http"
	"time"

	"github.com/hupe1980/rankgo/codec"
	"github.com/hupe1980/rankgo/pipeline"
)

type options struct {
	k                int
	shards           int
	baseURL          string
	httpClient       *http.Client
	pageInterval     time.Duration
	maxPages         int
	codec            codec.Codec
	logger           *Logger
	metricsCollector MetricsCollector
	resultsName      string
	runMarker        RunMarker
}

// Option configures Engine behavior.
type Option func(*options)

// WithK sets the top-K cutoff. Must be positive; validated by New before
// any record is processed. Defaults to 10.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithShards sets the number of parallel partitions for sharded ranking.
// 1 (the default) disables sharding.
func WithShards(shards int) Option {
	return func(o *options) {
		o.shards = shards
	}
}

// WithBaseURL sets the dataset API base URL. Required for FetchDataset
// and Submit*; ranking over an existing store works without it.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient injects the HTTP client used for API calls.
func WithHTTPClient(httpc *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpc
	}
}

// WithPageInterval sets the minimum delay between page downloads.
// Defaults to 10 seconds, the service's documented rate limit.
func WithPageInterval(d time.Duration) Option {
	return func(o *options) {
		o.pageInterval = d
	}
}

// WithMaxPages bounds a fetch run. 0 (the default) means unbounded.
func WithMaxPages(n int) Option {
	return func(o *options) {
		o.maxPages = n
	}
}

// WithCodec configures the codec used for artifacts.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging. Pass NoopLogger() to disable.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResultsName sets the artifact name of the final result set.
// Defaults to "topk_results.json".
func WithResultsName(name string) Option {
	return func(o *options) {
		o.resultsName = name
	}
}

// WithCodecName selects a built-in codec by its stable name ("json",
// "go-json") for configuration-driven setups. Unknown names keep the
// current codec.
func WithCodecName(name string) Option {
	return func(o *options) {
		if c, ok := codec.ByName(name); ok {
			o.codec = c
		}
	}
}

// WithRunMarker configures a run marker consulted by RunOnce, so a full
// cycle executes at most once per run id even with concurrent writers.
// s3.RunMarkerStore implements it on DynamoDB.
func WithRunMarker(m RunMarker) Option {
	return func(o *options) {
		o.runMarker = m
	}
}

func defaultOptions() options {
	return options{
		k:                pipeline.DefaultK,
		shards:           1,
		pageInterval:     10 * time.Second,
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		resultsName:      "topk_results.json",
	}
}
