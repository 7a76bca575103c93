package stumpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCordFactor(t *testing.T) {
	tests := []struct {
		species string
		want    float64
	}{
		{"Loblolly Pine", 2.67},
		{"spruce/fir", 2.67},
		{"Red Oak", 2.90},
		{"Hickory", 2.90},
		{"Yellow Poplar", 2.70},
		{"Sweetgum", 2.70},
		{"Mixed Hardwood", 2.80},
		{"Ash", 2.80},
		{"unlisted species", 2.80},
	}

	for _, tc := range tests {
		t.Run(tc.species, func(t *testing.T) {
			assert.InDelta(t, tc.want, CordFactor(tc.species), 0.001)
		})
	}
}

func TestMBFFactor(t *testing.T) {
	assert.InDelta(t, 7.0, MBFFactor("Shortleaf Pine"), 0.001)
	assert.InDelta(t, 8.5, MBFFactor("White Oak"), 0.001)
	assert.InDelta(t, 8.5, MBFFactor("mixed hardwood"), 0.001)
}

func TestConversionFactor(t *testing.T) {
	t.Run("per-ton needs no conversion", func(t *testing.T) {
		f, ok := ConversionFactor("$/ton", "pine")
		require.True(t, ok)
		assert.Equal(t, 1.0, f)
	})

	t.Run("cord routes through species", func(t *testing.T) {
		f, ok := ConversionFactor("$/cord", "oak")
		require.True(t, ok)
		assert.InDelta(t, 2.90, f, 0.001)
	})

	t.Run("index has no conversion", func(t *testing.T) {
		_, ok := ConversionFactor("index", "pine")
		assert.False(t, ok)
	})
}

func TestPerTon(t *testing.T) {
	t.Run("mbf pine", func(t *testing.T) {
		// $350/MBF at 7.0 tons/MBF is $50/ton.
		got, ok := PerTon(Float(350), "$/MBF", "loblolly pine")
		require.True(t, ok)
		assert.InDelta(t, 50.0, got, 0.001)
	})

	t.Run("cord hardwood", func(t *testing.T) {
		got, ok := PerTon(Float(29), "$/cord", "red oak")
		require.True(t, ok)
		assert.InDelta(t, 10.0, got, 0.001)
	})

	t.Run("already per ton", func(t *testing.T) {
		got, ok := PerTon(Float(12.5), "$/ton", "pine")
		require.True(t, ok)
		assert.Equal(t, 12.5, got)
	})

	t.Run("index never converts", func(t *testing.T) {
		_, ok := PerTon(Float(104), "index", "aspen")
		assert.False(t, ok)
	})

	t.Run("nil price", func(t *testing.T) {
		_, ok := PerTon(nil, "$/ton", "pine")
		assert.False(t, ok)
	})

	t.Run("zero price yields no value", func(t *testing.T) {
		_, ok := PerTon(Float(0), "$/cord", "pine")
		assert.False(t, ok)
	})

	t.Run("negative price yields no value", func(t *testing.T) {
		_, ok := PerTon(Float(-15), "$/MBF", "oak")
		assert.False(t, ok)
	})
}
