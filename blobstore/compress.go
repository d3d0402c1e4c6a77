package blobstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

// Artifact header layout: [Type uint8][UncompressedSize uint32][Data...].
// Type CompressionNone means Data is the raw artifact.
const compressHeaderSize = 5

// ErrCorruptArtifact is returned when a compressed artifact fails to decode.
var ErrCorruptArtifact = errors.New("corrupt compressed artifact")

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// CompressedStore wraps a Store and transparently compresses artifacts.
// The header is self-describing, so a store written with one algorithm can
// be read back regardless of the wrapper's configured type.
type CompressedStore struct {
	inner Store
	ctype CompressionType
}

// NewCompressedStore wraps inner with the given compression algorithm.
func NewCompressedStore(inner Store, ctype CompressionType) *CompressedStore {
	return &CompressedStore{inner: inner, ctype: ctype}
}

// Put compresses and writes an artifact. If compression does not help
// (ratio above 0.9), the artifact is stored uncompressed.
func (s *CompressedStore) Put(ctx context.Context, name string, data []byte) error {
	encoded, err := compressArtifact(data, s.ctype)
	if err != nil {
		return fmt.Errorf("blobstore: compress %s: %w", name, err)
	}
	return s.inner.Put(ctx, name, encoded)
}

// Get reads and decompresses an artifact.
func (s *CompressedStore) Get(ctx context.Context, name string) ([]byte, error) {
	encoded, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := decompressArtifact(encoded)
	if err != nil {
		return nil, fmt.Errorf("blobstore: decompress %s: %w", name, err)
	}
	return data, nil
}

// List returns artifact names with the given prefix in ascending order.
func (s *CompressedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Delete removes an artifact.
func (s *CompressedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

func compressArtifact(data []byte, ctype CompressionType) ([]byte, error) {
	if ctype == CompressionNone || len(data) == 0 {
		return encodeArtifact(CompressionNone, data, data), nil
	}

	var compressed []byte
	var err error

	switch ctype {
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZSTD:
		compressed = compressZSTD(data)
	default:
		return nil, fmt.Errorf("unknown compression type %d", ctype)
	}
	if err != nil {
		return nil, err
	}

	// Store uncompressed when compression doesn't help.
	if len(compressed)*10 > len(data)*9 {
		return encodeArtifact(CompressionNone, data, data), nil
	}
	return encodeArtifact(ctype, data, compressed), nil
}

func encodeArtifact(ctype CompressionType, raw, payload []byte) []byte {
	out := make([]byte, compressHeaderSize+len(payload))
	out[0] = byte(ctype)
	binary.LittleEndian.PutUint32(out[1:5], uint32(len(raw)))
	copy(out[compressHeaderSize:], payload)
	return out
}

func decompressArtifact(encoded []byte) ([]byte, error) {
	if len(encoded) < compressHeaderSize {
		return nil, ErrCorruptArtifact
	}
	ctype := CompressionType(encoded[0])
	rawSize := binary.LittleEndian.Uint32(encoded[1:5])
	payload := encoded[compressHeaderSize:]

	switch ctype {
	case CompressionNone:
		if uint32(len(payload)) != rawSize {
			return nil, ErrCorruptArtifact
		}
		return payload, nil
	case CompressionLZ4:
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil || uint32(n) != rawSize {
			return nil, ErrCorruptArtifact
		}
		return raw, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		raw, err := dec.DecodeAll(payload, make([]byte, 0, rawSize))
		if err != nil || uint32(len(raw)) != rawSize {
			return nil, ErrCorruptArtifact
		}
		return raw, nil
	default:
		return nil, ErrCorruptArtifact
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, buf)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible; caller falls back to uncompressed storage.
		return data, nil
	}
	return buf[:n], nil
}

func compressZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)
	return enc.EncodeAll(data, nil)
}
