// Package blobstore stores the artifacts both pipelines produce: raw
// dataset pages, cleaned pages, the combined validated dataset, and the
// final topk results.
//
// Artifacts are small named JSON documents, so the interface is whole-value
// (Put/Get) rather than streaming. Backends:
//
//   - LocalStore: files under a root directory
//   - MemoryStore: in-memory, for tests
//   - s3.Store: S3 via aws-sdk-go-v2
//   - minio.Store: MinIO and other S3-compatible object stores
//
// CompressedStore wraps any backend with transparent zstd or lz4
// compression using a self-describing block header.
package blobstore
