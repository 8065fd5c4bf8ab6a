package board

import (
	"math/rand/v2"
	"sync/atomic"
)

// PaletteFunc chooses a color token for a new column.
type PaletteFunc func(palette []string) string

// RandomPick draws uniformly from the palette using r.
// A nil r uses the package-level generator.
func RandomPick(r *rand.Rand) PaletteFunc {
	return func(palette []string) string {
		if len(palette) == 0 {
			return ""
		}
		if r == nil {
			return palette[rand.IntN(len(palette))] //nolint:gosec // cosmetic choice
		}
		return palette[r.IntN(len(palette))]
	}
}

// FixedPick always returns palette[i mod len].
func FixedPick(i int) PaletteFunc {
	return func(palette []string) string {
		if len(palette) == 0 {
			return ""
		}
		return palette[i%len(palette)]
	}
}

// CyclePick walks the palette in order, wrapping around.
func CyclePick() PaletteFunc {
	var n atomic.Int64
	return func(palette []string) string {
		if len(palette) == 0 {
			return ""
		}
		i := n.Add(1) - 1
		return palette[int(i%int64(len(palette)))]
	}
}
