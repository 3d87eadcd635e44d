package sequence

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	t.Run("First ID when no predecessor exists", func(t *testing.T) {
		assert.Equal(t, "OD000001", Next(PrefixOrder, "", DefaultWidth))
		assert.Equal(t, "AP000001", Next(PrefixAppointment, "", DefaultWidth))
	})

	t.Run("Increments numeric suffix", func(t *testing.T) {
		assert.Equal(t, "OD000002", Next(PrefixOrder, "OD000001", DefaultWidth))
		assert.Equal(t, "ODT000100", Next(PrefixOrderDetail, "ODT000099", DefaultWidth))
	})

	t.Run("Strictly increasing contiguous run", func(t *testing.T) {
		current := ""
		var prev string
		for i := 1; i <= 50; i++ {
			next := Next(PrefixAppointment, current, DefaultWidth)
			assert.Equal(t, fmt.Sprintf("AP%06d", i), next)
			if prev != "" {
				assert.Greater(t, next, prev)
			}
			prev = next
			current = next
		}
	})

	t.Run("Width overflow keeps counting", func(t *testing.T) {
		// 超出宽度后不再补零，但序号继续单调递增
		assert.Equal(t, "OD1000000", Next(PrefixOrder, "OD999999", DefaultWidth))
	})

	t.Run("Malformed suffix falls back to 1", func(t *testing.T) {
		assert.Equal(t, "OD000001", Next(PrefixOrder, "ODXXXXXX", DefaultWidth))
		assert.Equal(t, "DR000001", Next(PrefixDoctor, "garbage", DefaultWidth))
	})

	t.Run("Default width applied when zero", func(t *testing.T) {
		assert.Equal(t, "SV000003", Next(PrefixService, "SV000002", 0))
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "DT000007", Format(PrefixAppointmentTest, 7, DefaultWidth))
	assert.Equal(t, "US0042", Format(PrefixUser, 42, 4))
}
