package embedding

import (
	"context"
	"crypto/md5"
	"fmt"
	"strconv"
)

// OfflineHash derives embeddings from the md5 digest of the text.
// The vectors carry no semantic meaning, but identical texts always
// map to identical vectors, which keeps ranking stable when no remote
// provider is configured.
type OfflineHash struct {
	dim int
}

func NewOfflineHash(dim int) *OfflineHash {
	if dim <= 0 {
		dim = 1536
	}
	return &OfflineHash{dim: dim}
}

func (o *OfflineHash) Dimension() int {
	return o.dim
}

// Embed maps each dimension to a 4-hex-digit window of the digest,
// cycling through the 32-character hex string.
func (o *OfflineHash) Embed(_ context.Context, text string) []float32 {
	digest := fmt.Sprintf("%x", md5.Sum([]byte(text)))
	vec := make([]float32, o.dim)
	for i := 0; i < o.dim; i++ {
		start := (i * 4) % len(digest)
		end := start + 4
		if end > len(digest) {
			continue
		}
		v, err := strconv.ParseUint(digest[start:end], 16, 32)
		if err != nil {
			continue
		}
		vec[i] = float32(v) / 100000.0
	}
	return vec
}
