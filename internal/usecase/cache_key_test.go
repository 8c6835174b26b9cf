package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic for identical parameters", func(t *testing.T) {
		a := cacheKey("posto", -23.5505, -46.6333, 5, "gasolina")
		b := cacheKey("posto", -23.5505, -46.6333, 5, "gasolina")
		assert.Equal(t, a, b)
	})

	t.Run("md5 hex format", func(t *testing.T) {
		key := cacheKey("posto", -23.5505, -46.6333, 5, "")
		assert.Len(t, key, 32)
		assert.Regexp(t, "^[0-9a-f]{32}$", key)
	})

	t.Run("every parameter contributes to the key", func(t *testing.T) {
		base := cacheKey("posto", -23.5505, -46.6333, 5, "gasolina")

		assert.NotEqual(t, base, cacheKey("hotel", -23.5505, -46.6333, 5, "gasolina"))
		assert.NotEqual(t, base, cacheKey("posto", -23.5506, -46.6333, 5, "gasolina"))
		assert.NotEqual(t, base, cacheKey("posto", -23.5505, -46.6334, 5, "gasolina"))
		assert.NotEqual(t, base, cacheKey("posto", -23.5505, -46.6333, 10, "gasolina"))
		assert.NotEqual(t, base, cacheKey("posto", -23.5505, -46.6333, 5, ""))
	})

	t.Run("whole coordinates do not collide with decimals", func(t *testing.T) {
		// -23 и -23.0 должны давать один ключ, а не разные
		assert.Equal(t,
			cacheKey("posto", -23, -46, 5, ""),
			cacheKey("posto", -23.0, -46.0, 5, ""),
		)
	})
}
