package interfaces

// CompressorInterface packs the encoded local slice for the state file.
type CompressorInterface interface {
	Compress(state []byte) ([]byte, error)
	Decompress(packed []byte) ([]byte, error)
}
