// Package fetch downloads the remote paginated dataset.
//
// The dataset API hands out short-lived authorization tokens via /register;
// Client caches the token and renews it transparently on expiry. Fetcher
// walks /download-dataset page by page, pacing requests with a rate limiter
// so the service's rate limits are never hit, and stores each raw page in
// the artifact store under the filename the service assigned to it.
//
// All blocking in the system lives here; the ranking core never touches
// the network.
package fetch
