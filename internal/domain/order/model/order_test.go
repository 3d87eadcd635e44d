package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusProcessing, true},
		{StatusPaid, StatusCompleted, true},
		{StatusProcessing, StatusCompleted, true},

		{StatusPending, StatusCompleted, false}, // 不允许跳过支付
		{StatusPaid, StatusCancelled, false},    // 已支付不允许取消
		{StatusCompleted, StatusPaid, false},    // 不允许回退
		{StatusCancelled, StatusPaid, false},
		{StatusCompleted, StatusPending, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("paid")
	assert.True(t, ok)
	assert.Equal(t, StatusPaid, status)

	// 历史数字别名
	status, ok = ParseStatus("0")
	assert.True(t, ok)
	assert.Equal(t, StatusPending, status)

	status, ok = ParseStatus("1")
	assert.True(t, ok)
	assert.Equal(t, StatusPaid, status)

	_, ok = ParseStatus("refunded")
	assert.False(t, ok)
}
