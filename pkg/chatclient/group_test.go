package chatclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByDay(t *testing.T) {
	now := time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)
	messages := []Message{
		{ID: "1", Content: "old", CreatedAt: now.AddDate(0, 0, -5)},
		{ID: "2", Content: "yesterday-1", CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "3", Content: "yesterday-2", CreatedAt: now.AddDate(0, 0, -1).Add(time.Hour)},
		{ID: "4", Content: "today", CreatedAt: now.Add(-time.Hour)},
	}

	groups := GroupByDay(messages, now)
	require.Len(t, groups, 3)

	assert.Equal(t, "10 March 2026", groups[0].Label)
	assert.Len(t, groups[0].Messages, 1)

	assert.Equal(t, "Yesterday", groups[1].Label)
	require.Len(t, groups[1].Messages, 2)
	// 组内顺序沿用日志顺序
	assert.Equal(t, "2", groups[1].Messages[0].ID)
	assert.Equal(t, "3", groups[1].Messages[1].ID)

	assert.Equal(t, "Today", groups[2].Label)
	assert.Equal(t, "4", groups[2].Messages[0].ID)
}

func TestGroupByDay_Empty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil, time.Now()))
}

func TestGroupByDay_Pure(t *testing.T) {
	now := time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)
	messages := []Message{
		{ID: "1", CreatedAt: now},
		{ID: "2", CreatedAt: now.AddDate(0, 0, -1)},
	}

	first := GroupByDay(messages, now)
	second := GroupByDay(messages, now)
	assert.Equal(t, first, second)
	// 输入不被修改
	assert.Equal(t, "1", messages[0].ID)
	assert.Equal(t, "2", messages[1].ID)
}

func TestDayLabel_TimezoneAware(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2026, 3, 15, 1, 0, 0, 0, loc)
	// UTC 的 14 日 18 点在 UTC+8 是 15 日凌晨，应归入 Today。
	msg := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", dayLabel(msg, now))
}
