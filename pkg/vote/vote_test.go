package vote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name      string
		current   State
		dir       Direction
		wantState State
		wantDelta int
	}{
		{"none 点赞", None, DirUp, Up, +1},
		{"up 再点赞取消", Up, DirUp, None, -1},
		{"down 改赞跨两格", Down, DirUp, Up, +2},
		{"none 点踩", None, DirDown, Down, -1},
		{"down 再点踩取消", Down, DirDown, None, +1},
		{"up 改踩跨两格", Up, DirDown, Down, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotState, gotDelta := Toggle(tt.current, tt.dir)
			assert.Equal(t, tt.wantState, gotState)
			assert.Equal(t, tt.wantDelta, gotDelta)
		})
	}
}

// 同方向连点两次应回到起点，计数净变化为零。
func TestToggle_Reversible(t *testing.T) {
	for _, dir := range []Direction{DirUp, DirDown} {
		s1, d1 := Toggle(None, dir)
		s2, d2 := Toggle(s1, dir)
		assert.Equal(t, None, s2)
		assert.Equal(t, 0, d1+d2)
	}
}

func TestToggle_CountWalk(t *testing.T) {
	// 计数 5、状态 down 的回复被点击 up 后计数应为 7。
	count, state := 5, Down
	newState, delta := Toggle(state, DirUp)
	assert.Equal(t, Up, newState)
	assert.Equal(t, 7, count+delta)
}

func TestToggleLike(t *testing.T) {
	liked, delta := ToggleLike(false)
	assert.True(t, liked)
	assert.Equal(t, +1, delta)

	liked, delta = ToggleLike(true)
	assert.False(t, liked)
	assert.Equal(t, -1, delta)
}

func TestEvent(t *testing.T) {
	assert.Equal(t, "like", Event(Up))
	assert.Equal(t, "dislike", Event(Down))
	assert.Equal(t, "neutral", Event(None))
}

func TestApply_Confirmed(t *testing.T) {
	var persistedState State
	var persistedDelta int
	res := Apply(5, Down, DirUp, func(newState State, delta int) error {
		persistedState = newState
		persistedDelta = delta
		return nil
	})

	require.True(t, res.Confirmed)
	require.NoError(t, res.Err)
	assert.Equal(t, 7, res.Count)
	assert.Equal(t, Up, res.State)
	assert.Equal(t, Up, persistedState)
	assert.Equal(t, +2, persistedDelta)
}

func TestApply_RollbackOnPersistFailure(t *testing.T) {
	persistErr := errors.New("persist failed")
	res := Apply(5, None, DirUp, func(State, int) error {
		return persistErr
	})

	require.False(t, res.Confirmed)
	assert.ErrorIs(t, res.Err, persistErr)
	// 失败时返回原值，调用方据此回滚 UI 与本地记录。
	assert.Equal(t, 5, res.Count)
	assert.Equal(t, None, res.State)
}

func TestLikedSet(t *testing.T) {
	s := NewLikedSet("a", "b")
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, 2, s.Len())

	s.Set("c", Up)
	assert.True(t, s.Contains("c"))

	// 仅 up 状态会被记录，down/none 都意味着移除。
	s.Set("a", Down)
	assert.False(t, s.Contains("a"))
	s.Set("b", None)
	assert.False(t, s.Contains("b"))

	snap := s.Snapshot()
	s.Set("d", Up)
	assert.Equal(t, 2, s.Len())
	s.Restore(snap)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains("c"))
	assert.False(t, s.Contains("d"))
}
