package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineHash_Deterministic(t *testing.T) {
	p := NewOfflineHash(1536)
	ctx := context.Background()

	a := p.Embed(ctx, "solar energy storage")
	b := p.Embed(ctx, "solar energy storage")
	assert.Equal(t, a, b)
}

func TestOfflineHash_Dimension(t *testing.T) {
	p := NewOfflineHash(1536)
	assert.Equal(t, 1536, p.Dimension())
	require.Len(t, p.Embed(context.Background(), "text"), 1536)
}

func TestOfflineHash_DefaultDimension(t *testing.T) {
	p := NewOfflineHash(0)
	assert.Equal(t, 1536, p.Dimension())
}

func TestOfflineHash_DistinctTextsDiffer(t *testing.T) {
	p := NewOfflineHash(1536)
	ctx := context.Background()

	a := p.Embed(ctx, "solar energy")
	b := p.Embed(ctx, "wind energy")
	assert.NotEqual(t, a, b)
}

func TestOfflineHash_EmptyText(t *testing.T) {
	p := NewOfflineHash(1536)
	vec := p.Embed(context.Background(), "")
	require.Len(t, vec, 1536)
}

func TestOfflineHash_ValueRange(t *testing.T) {
	p := NewOfflineHash(1536)
	vec := p.Embed(context.Background(), "bounded values")
	for _, v := range vec {
		assert.GreaterOrEqual(t, v, float32(0))
		// Four hex digits top out at 0xffff.
		assert.LessOrEqual(t, v, float32(65535)/100000.0)
	}
}

func TestOfflineHash_CyclesDigestWindows(t *testing.T) {
	p := NewOfflineHash(1536)
	vec := p.Embed(context.Background(), "window cycling")
	// The 32-char digest yields 8 distinct 4-char windows, so values
	// repeat with period 8.
	for i := 8; i < len(vec); i++ {
		assert.Equal(t, vec[i-8], vec[i])
	}
}
