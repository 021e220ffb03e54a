// Package vote 实现点赞/投票计数的状态迁移与乐观更新。
//
// 回复的赞踩共用一个带符号计数：同方向再次点击取消投票，
// 反方向点击则一步跨越两个刻度（例如 down→up 为 +2）。
package vote

// State 表示当前访客对某个目标的投票状态。
type State string

const (
	None State = "none"
	Up   State = "up"
	Down State = "down"
)

// Direction 表示一次点击的方向。
type Direction string

const (
	DirUp   Direction = "up"
	DirDown Direction = "down"
)

// Toggle 根据当前状态和点击方向返回新状态与计数增量。
// 增量取值为 -2、-1、+1、+2 之一。
func Toggle(current State, dir Direction) (State, int) {
	if dir == DirUp {
		switch current {
		case Up:
			return None, -1 // 取消赞
		case Down:
			return Up, +2 // 踩改赞
		default:
			return Up, +1
		}
	}
	switch current {
	case Down:
		return None, +1 // 取消踩
	case Up:
		return Down, -2 // 赞改踩
	default:
		return Down, -1
	}
}

// ToggleLike 处理讨论帖只有赞/取消赞的简单场景。
func ToggleLike(liked bool) (bool, int) {
	if liked {
		return false, -1
	}
	return true, +1
}

// Event 把投票状态映射为服务端接受的事件名。
func Event(s State) string {
	switch s {
	case Up:
		return "like"
	case Down:
		return "dislike"
	default:
		return "neutral"
	}
}

// Result 是一次乐观更新的显式结果：要么确认新状态，
// 要么携带回滚后的旧状态，调用方只需一个分支即可处理失败。
type Result struct {
	Confirmed bool
	Count     int
	State     State
	Err       error
}

// Apply 对计数执行乐观更新：先本地应用增量，再调用 persist 与服务端对账。
// persist 失败时返回的 Result 携带回滚后的原值，UI 与本地记录保持一致。
func Apply(count int, current State, dir Direction, persist func(newState State, delta int) error) Result {
	newState, delta := Toggle(current, dir)
	if err := persist(newState, delta); err != nil {
		return Result{Confirmed: false, Count: count, State: current, Err: err}
	}
	return Result{Confirmed: true, Count: count + delta, State: newState}
}
