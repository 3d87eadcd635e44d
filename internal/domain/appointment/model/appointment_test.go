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
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},

		{StatusPending, StatusCompleted, false}, // 未确认不能直接完成
		{StatusCompleted, StatusPending, false},
		{StatusRejected, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, status)

	// 历史数字别名
	status, ok = ParseStatus("0")
	assert.True(t, ok)
	assert.Equal(t, StatusPending, status)

	status, ok = ParseStatus("1")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, status)

	_, ok = ParseStatus("approved")
	assert.False(t, ok)
}
