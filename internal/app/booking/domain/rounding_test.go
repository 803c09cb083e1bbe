package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRounding(t *testing.T) {
	t.Run("two decimals half away from zero", func(t *testing.T) {
		assert.Equal(t, 190.80, Round2(190.800000001))
		assert.Equal(t, 1.13, Round2(1.125))
		assert.Equal(t, -1.13, Round2(-1.125))
		assert.Equal(t, 0.0, Round2(0))
	})

	t.Run("four decimals", func(t *testing.T) {
		assert.Equal(t, 180.0, Round4(180.00000001))
		assert.Equal(t, 0.1235, Round4(0.12345))
		assert.Equal(t, -0.1235, Round4(-0.12345))
	})
}
