package vote

// LikedSet 记录当前访客点过赞的目标 ID，对应浏览器 localStorage 的
// likedThreads / likedReplies 列表。纯客户端状态，服务端没有对应账本。
type LikedSet struct {
	ids map[string]struct{}
}

// NewLikedSet 从已有 ID 列表恢复一个集合。
func NewLikedSet(ids ...string) *LikedSet {
	s := &LikedSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Contains 判断目标是否已被点赞。
func (s *LikedSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Set 根据新状态写入或移除目标；仅 up 状态会被记录。
func (s *LikedSet) Set(id string, state State) {
	if state == Up {
		s.ids[id] = struct{}{}
		return
	}
	delete(s.ids, id)
}

// Snapshot 导出当前 ID 列表，用于失败回滚或落盘。
func (s *LikedSet) Snapshot() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// Restore 用快照整体覆盖集合内容。
func (s *LikedSet) Restore(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Len 返回集合大小。
func (s *LikedSet) Len() int { return len(s.ids) }
