package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"mgit-community-go/internal/model"
	"mgit-community-go/internal/repository"
	"mgit-community-go/pkg/apperr"
	"mgit-community-go/pkg/log"
)

// DiscussionView 是讨论帖的读取视图：扁平回复之外附带重建好的回复树。
type DiscussionView struct {
	model.Discussion
	ReplyTree []*model.ReplyNode `json:"replyTree"`
}

// DiscussionService 接口定义了讨论区的全部业务操作。
type DiscussionService interface {
	CreateDiscussion(title, content, category, guestName string) (*model.Discussion, error)
	GetDiscussion(id string) (*DiscussionView, error)
	LikeDiscussion(id, event string) (*DiscussionView, error)
	CreateReply(discussionID, content, guestName string, parentReplyID *string) (*DiscussionView, error)
	LikeReply(id, event string) (*model.Reply, error)
	ListByCategory(category, sortBy, timeRange string) ([]model.Discussion, error)
	RecentDiscussions() ([]model.Discussion, error)
	CategoryStats() (map[string]repository.CategoryStat, error)
	TouchDiscussion(id string) (*DiscussionView, error)
}

type discussionService struct {
	discussionRepo repository.DiscussionRepository
	replyRepo      repository.ReplyRepository
	searchService  SearchService
}

// NewDiscussionService 创建一个新的 DiscussionService 实例。
// searchService 可以为 nil，此时跳过搜索索引。
func NewDiscussionService(discussionRepo repository.DiscussionRepository, replyRepo repository.ReplyRepository, searchService SearchService) DiscussionService {
	return &discussionService{
		discussionRepo: discussionRepo,
		replyRepo:      replyRepo,
		searchService:  searchService,
	}
}

// CreateDiscussion 创建一个新的讨论帖并写入搜索索引。
func (s *discussionService) CreateDiscussion(title, content, category, guestName string) (*model.Discussion, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, apperr.New(apperr.ValidationFailed, "标题和内容不能为空")
	}
	if !model.ValidCategory(category) {
		return nil, apperr.New(apperr.ValidationFailed, "未知的讨论分类")
	}
	if strings.TrimSpace(guestName) == "" {
		guestName = "Anonymous"
	}

	discussion := &model.Discussion{
		Title:     title,
		Content:   content,
		Category:  category,
		GuestName: guestName,
		Replies:   []model.Reply{},
	}
	if err := s.discussionRepo.Create(discussion); err != nil {
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "创建讨论失败", err)
	}

	// 索引失败不阻塞创建
	if s.searchService != nil {
		if err := s.searchService.IndexDiscussion(discussion); err != nil {
			log.Warnf("讨论索引失败: id=%s, err=%v", discussion.ID, err)
		}
	}
	return discussion, nil
}

// GetDiscussion 读取讨论帖详情：加载全部回复、重建回复树并累加浏览量。
func (s *discussionService) GetDiscussion(id string) (*DiscussionView, error) {
	view, err := s.loadView(id)
	if err != nil {
		return nil, err
	}
	if err := s.discussionRepo.IncrementViews(id); err != nil {
		// 浏览量只影响排序，读取路径不因它失败
		log.Warnf("浏览量更新失败: id=%s, err=%v", id, err)
	}
	return view, nil
}

// LikeDiscussion 处理讨论帖的点赞/取消点赞事件。
// 没有服务端投票账本，计数无条件加减，允许为负。
func (s *discussionService) LikeDiscussion(id, event string) (*DiscussionView, error) {
	var delta int
	switch event {
	case "like":
		delta = 1
	case "unlike":
		delta = -1
	default:
		return nil, apperr.New(apperr.ValidationFailed, "未知的点赞事件")
	}

	if err := s.discussionRepo.AddLikes(id, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "讨论不存在")
		}
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "更新点赞失败", err)
	}
	return s.loadView(id)
}

// CreateReply 在讨论帖下创建一条回复并返回刷新后的完整讨论。
// 指定父回复时要求其存在且属于同一讨论，杜绝跨讨论挂载。
func (s *discussionService) CreateReply(discussionID, content, guestName string, parentReplyID *string) (*DiscussionView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.New(apperr.ValidationFailed, "回复内容不能为空")
	}
	if strings.TrimSpace(guestName) == "" {
		guestName = "Anonymous"
	}

	if _, err := s.discussionRepo.FindByID(discussionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "讨论不存在")
		}
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "读取讨论失败", err)
	}

	if parentReplyID != nil && *parentReplyID != "" {
		parent, err := s.replyRepo.FindByID(*parentReplyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.New(apperr.ValidationFailed, "父回复不存在")
			}
			return nil, apperr.Wrap(apperr.PersistenceUnavailable, "读取父回复失败", err)
		}
		if parent.DiscussionID != discussionID {
			return nil, apperr.New(apperr.ValidationFailed, "父回复不属于该讨论")
		}
	} else {
		parentReplyID = nil
	}

	reply := &model.Reply{
		DiscussionID:  discussionID,
		ParentReplyID: parentReplyID,
		Content:       content,
		GuestName:     guestName,
	}
	if err := s.replyRepo.Create(reply); err != nil {
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "创建回复失败", err)
	}

	// 并发访客可能同时回帖，返回整帖快照而不做增量修补
	return s.loadView(discussionID)
}

// LikeReply 处理回复的赞/踩/中性事件。中性事件不改计数，只返回当前记录。
func (s *discussionService) LikeReply(id, event string) (*model.Reply, error) {
	var delta int
	switch event {
	case "like":
		delta = 1
	case "dislike":
		delta = -1
	case "neutral":
		delta = 0
	default:
		return nil, apperr.New(apperr.ValidationFailed, "未知的点赞事件")
	}

	if delta != 0 {
		if err := s.replyRepo.AddLikes(id, delta); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.New(apperr.NotFound, "回复不存在")
			}
			return nil, apperr.Wrap(apperr.PersistenceUnavailable, "更新点赞失败", err)
		}
	}

	reply, err := s.replyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "回复不存在")
		}
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "读取回复失败", err)
	}
	return reply, nil
}

// ListByCategory 按分类、排序方式与时间范围列出讨论帖，至多 10 条。
func (s *discussionService) ListByCategory(category, sortBy, timeRange string) ([]model.Discussion, error) {
	if !model.ValidCategory(category) {
		return nil, apperr.New(apperr.ValidationFailed, "未知的讨论分类")
	}

	var since *time.Time
	now := time.Now()
	switch timeRange {
	case "", "all-time":
		// 不过滤
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		since = &start
	case "this-week":
		start := now.AddDate(0, 0, -7)
		since = &start
	case "this-month":
		start := now.AddDate(0, -1, 0)
		since = &start
	default:
		return nil, apperr.New(apperr.ValidationFailed, "未知的时间范围")
	}

	switch sortBy {
	case "", "latest", "popular", "unanswered":
	default:
		return nil, apperr.New(apperr.ValidationFailed, "未知的排序方式")
	}

	discussions, err := s.discussionRepo.FindByCategory(category, sortBy, since, 10)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "读取讨论列表失败", err)
	}
	return discussions, nil
}

// RecentDiscussions 返回首页展示的 6 条讨论帖。
func (s *discussionService) RecentDiscussions() ([]model.Discussion, error) {
	discussions, err := s.discussionRepo.FindRecent(6)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "读取讨论列表失败", err)
	}
	return discussions, nil
}

// CategoryStats 返回各分类的主题数与回复数。
func (s *discussionService) CategoryStats() (map[string]repository.CategoryStat, error) {
	stats, err := s.discussionRepo.CategoryStats()
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "读取分类统计失败", err)
	}
	return stats, nil
}

// TouchDiscussion 只刷新更新时间并返回讨论详情，内容不变。
func (s *discussionService) TouchDiscussion(id string) (*DiscussionView, error) {
	if err := s.discussionRepo.Touch(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "讨论不存在")
		}
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "更新时间失败", err)
	}
	return s.loadView(id)
}

// loadView 读取讨论帖并在其扁平回复上重建回复树。
func (s *discussionService) loadView(id string) (*DiscussionView, error) {
	discussion, err := s.discussionRepo.FindByIDWithReplies(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "讨论不存在")
		}
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "读取讨论失败", err)
	}
	return &DiscussionView{
		Discussion: *discussion,
		ReplyTree:  BuildReplyTree(discussion.Replies),
	}, nil
}

// BuildReplyTree 把扁平的回复记录重建为森林。
//
// 纯函数：不修改输入，重复调用得到结构相同的结果。根与兄弟的顺序
// 都沿用输入切片的顺序；父回复不在集合内的记录按根处理，不丢弃。
func BuildReplyTree(replies []model.Reply) []*model.ReplyNode {
	nodes := make(map[string]*model.ReplyNode, len(replies))
	for i := range replies {
		nodes[replies[i].ID] = &model.ReplyNode{
			Reply:        replies[i],
			ChildReplies: []*model.ReplyNode{},
		}
	}

	roots := make([]*model.ReplyNode, 0, len(replies))
	for i := range replies {
		node := nodes[replies[i].ID]
		if pid := replies[i].ParentReplyID; pid != nil && *pid != "" {
			if parent, ok := nodes[*pid]; ok {
				parent.ChildReplies = append(parent.ChildReplies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
