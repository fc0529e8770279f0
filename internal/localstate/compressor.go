package localstate

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"processingd/internal/localstate/interfaces"
)

// ZstdCompression packs the encoded local slice (groups, keywords,
// processing settings and preferences) before it reaches disk.
type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Compress never fails; the error is kept for CompressorInterface.
func (z *ZstdCompression) Compress(state []byte) ([]byte, error) {
	return z.encoder.EncodeAll(state, make([]byte, 0, len(state)/2)), nil
}

// Decompress rejects anything that is not a zstd frame, so a hand-edited or
// truncated state file surfaces as a restore error instead of a partial load.
func (z *ZstdCompression) Decompress(packed []byte) ([]byte, error) {
	state, err := z.decoder.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("unpack local state: %w", err)
	}
	return state, nil
}

// NewZstdCompressor is used by the file manager for every persist and
// restore. Persists are serialized by the scheduler, so one decoder goroutine
// is enough.
func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("local state encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("local state decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}
