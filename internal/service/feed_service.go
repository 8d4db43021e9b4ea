package service

import (
	"Echowall/internal/api/config"
	"Echowall/internal/api/dto"
	"Echowall/internal/gateway"
	"Echowall/internal/model"
	"Echowall/internal/pkg/consts"
	"Echowall/internal/pkg/util"
	"Echowall/internal/store"
	"context"
	log "log/slog"
	"sync"

	"github.com/jinzhu/copier"
)

// loadState 每个资源的显式加载状态，充当协作式互斥：
// 同一资源上一次请求未落定前，再次触发会被静默忽略。
type loadState int8

const (
	stateIdle loadState = iota
	stateInFlight
)

// FeedState 分页控制器对外的状态快照
type FeedState struct {
	Sort     string
	Page     int
	PageSize int
	Total    int
	Loading  bool
	Finished bool
	Count    int
}

// FeedSession 单个主题评论流的客户端状态机：
// 顶层分页、每条一级评论的回复展开、点赞/发布/删除的乐观更新与回滚。
// 切换主题或排序会重建 Store 并递增 epoch，旧请求的完成回调据此丢弃。
type FeedSession struct {
	mu sync.Mutex
	gw gateway.CommentGateway

	bizType string
	bizID   string

	st            *store.CommentStore
	sort          string
	page          int
	pageSize      int
	replyPageSize int
	total         int
	finished      bool

	topState   loadState
	replyState map[uint64]loadState
	likeState  map[uint64]loadState
	delState   map[uint64]loadState

	epoch uint64
}

func NewFeedSession(gw gateway.CommentGateway, bizType, bizID string) *FeedSession {
	pageSize := consts.DefaultPageSize
	replyPageSize := consts.DefaultReplyPageSize
	if config.Cfg != nil {
		if config.Cfg.Feed.PageSize > 0 {
			pageSize = config.Cfg.Feed.PageSize
		}
		if config.Cfg.Feed.ReplyPageSize > 0 {
			replyPageSize = config.Cfg.Feed.ReplyPageSize
		}
	}

	s := &FeedSession{
		gw:            gw,
		bizType:       bizType,
		bizID:         bizID,
		pageSize:      pageSize,
		replyPageSize: replyPageSize,
	}
	s.resetLocked(consts.SortLatest)
	return s
}

// Reset 切换排序并重置分页，清空已加载评论
func (s *FeedSession) Reset(sort string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sort == "" {
		sort = consts.SortLatest
	}
	s.resetLocked(sort)
}

// SwitchSubject 切换评论主题，沿用当前排序
func (s *FeedSession) SwitchSubject(bizType, bizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bizType = bizType
	s.bizID = bizID
	s.resetLocked(s.sort)
}

func (s *FeedSession) resetLocked(sort string) {
	s.epoch++
	s.st = store.NewCommentStore()
	s.sort = sort
	s.page = 1
	s.total = 0
	s.finished = false
	s.topState = stateIdle
	s.replyState = make(map[uint64]loadState)
	s.likeState = make(map[uint64]loadState)
	s.delState = make(map[uint64]loadState)
}

// LoadNext 加载下一页一级评论。
// 请求在途或已加载完毕时静默忽略；失败时页码不前进，可直接重试。
func (s *FeedSession) LoadNext(ctx context.Context) error {
	s.mu.Lock()
	if s.topState == stateInFlight || s.finished {
		s.mu.Unlock()
		return nil
	}
	s.topState = stateInFlight
	epoch := s.epoch
	q := &dto.FeedQueryDTO{
		BizType:  s.bizType,
		BizID:    s.bizID,
		Page:     s.page,
		PageSize: s.pageSize,
		Sort:     s.sort,
	}
	s.mu.Unlock()

	page, err := s.gw.ListComments(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	s.topState = stateIdle
	if err != nil {
		log.ErrorContext(ctx, "加载评论列表失败",
			"biz_type", q.BizType, "biz_id", q.BizID, "page", q.Page, "err", err)
		return ErrRequestFailed
	}

	s.ingestPageLocked(page)
	s.page++
	return nil
}

func (s *FeedSession) ingestPageLocked(page *dto.FeedPageDTO) {
	for _, item := range page.List {
		top := convertComment(item)
		s.st.InsertTop([]*model.Comment{top})
		if len(item.Replies) > 0 {
			replies := make([]*model.Comment, 0, len(item.Replies))
			for _, r := range item.Replies {
				replies = append(replies, convertComment(r))
			}
			_ = s.st.InsertReplies(top.CommentID, replies)
		}
	}
	s.total = page.Total
	s.finished = s.st.TopLevelCount() >= page.Total
}

// ExpandReplies 加载指定一级评论预览之外的更多回复，
// 偏移量取该评论当前已加载回复数，每条评论的展开互不影响。
func (s *FeedSession) ExpandReplies(ctx context.Context, rootID uint64) error {
	s.mu.Lock()
	if s.replyState[rootID] == stateInFlight {
		s.mu.Unlock()
		return nil
	}
	root, ok := s.st.Get(rootID)
	if !ok || !root.IsTopLevel() {
		s.mu.Unlock()
		return ErrCommentNotFound
	}
	offset := s.st.RepliesLoaded(rootID)
	if root.ReplyCount <= offset {
		s.mu.Unlock()
		return nil
	}
	s.replyState[rootID] = stateInFlight
	epoch := s.epoch
	limit := s.replyPageSize
	s.mu.Unlock()

	page, err := s.gw.ListReplies(ctx, rootID, offset, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	s.replyState[rootID] = stateIdle
	if err != nil {
		log.ErrorContext(ctx, "加载更多回复失败", "root_id", rootID, "offset", offset, "err", err)
		return ErrRequestFailed
	}

	replies := make([]*model.Comment, 0, len(page.List))
	for _, r := range page.List {
		replies = append(replies, convertComment(r))
	}
	_ = s.st.InsertReplies(rootID, replies)

	// 以服务端权威值刷新回复总数
	if c, ok := s.st.Get(rootID); ok {
		c.ReplyCount = page.ReplyCount
	}
	return nil
}

// ToggleLike 点赞/取消点赞：先乐观更新本地状态再发请求，
// 失败时精确恢复捕获的快照而非重新计算，避免并发计数漂移。
func (s *FeedSession) ToggleLike(ctx context.Context, commentID uint64) error {
	s.mu.Lock()
	if s.likeState[commentID] == stateInFlight {
		s.mu.Unlock()
		return nil
	}
	c, ok := s.st.Get(commentID)
	if !ok {
		s.mu.Unlock()
		return ErrCommentNotFound
	}
	next := store.LikeState{IsLiked: !c.IsLiked, LikeCount: c.LikeCount - 1}
	if next.IsLiked {
		next.LikeCount = c.LikeCount + 1
	}
	prev, _ := s.st.SetLikeState(commentID, next)
	s.likeState[commentID] = stateInFlight
	epoch := s.epoch
	s.mu.Unlock()

	err := s.gw.ToggleLike(ctx, commentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		delete(s.likeState, commentID)
	}
	if err == nil {
		return nil
	}

	log.ErrorContext(ctx, "点赞请求失败，回滚本地状态", "comment_id", commentID, "err", err)
	if s.epoch == epoch {
		if _, ok := s.st.Get(commentID); ok {
			_, _ = s.st.SetLikeState(commentID, prev)
		}
	}
	return ErrRequestFailed
}

// PostComment 发布评论或回复。replyTo 为 0 表示发一级评论；
// 回复回复时 root_id 追溯到一级评论，parent_id 指向被回复的那条。
// 发布不做乐观插入，仅在成功后并入本地状态。
func (s *FeedSession) PostComment(ctx context.Context, content string, replyTo uint64) (*model.Comment, error) {
	s.mu.Lock()
	createReq := &dto.CommentCreateDTO{
		BizType: s.bizType,
		BizID:   s.bizID,
		Content: content,
	}
	if replyTo != 0 {
		target, ok := s.st.Get(replyTo)
		if !ok {
			s.mu.Unlock()
			return nil, ErrCommentNotFound
		}
		root, err := s.st.FindRoot(replyTo)
		if err != nil {
			s.mu.Unlock()
			return nil, ErrCommentNotFound
		}
		createReq.ParentID = target.CommentID
		createReq.RootID = root.CommentID
		createReq.ReplyUserID = target.User.UserID
	}
	epoch := s.epoch
	s.mu.Unlock()

	// 校验先于任何网络调用，Store 不被触碰
	if err := util.ValidateDTO(createReq); err != nil {
		return nil, ErrContentInvalid
	}

	created, err := s.gw.CreateComment(ctx, createReq)
	if err != nil {
		log.ErrorContext(ctx, "发布评论失败",
			"biz_type", createReq.BizType, "biz_id", createReq.BizID,
			"parent_id", createReq.ParentID, "err", err)
		return nil, ErrRequestFailed
	}

	c := convertComment(created)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return c, nil
	}
	if c.IsTopLevel() {
		s.st.InsertTop([]*model.Comment{c})
		s.total++
	} else if err := s.st.InsertReplies(c.RootID, []*model.Comment{c}); err == nil {
		s.st.AddReplyCount(c.RootID, 1)
	}
	return c, nil
}

// DeleteComment 删除评论：先乐观移除并捕获子树快照，失败时原位恢复
func (s *FeedSession) DeleteComment(ctx context.Context, commentID uint64) error {
	s.mu.Lock()
	if s.delState[commentID] == stateInFlight {
		s.mu.Unlock()
		return nil
	}
	c, ok := s.st.Get(commentID)
	if !ok {
		s.mu.Unlock()
		return ErrCommentNotFound
	}
	rootID := c.RootID
	topLevel := c.IsTopLevel()
	snap, err := s.st.Remove(commentID)
	if err != nil {
		s.mu.Unlock()
		return ErrCommentNotFound
	}
	if topLevel {
		s.total--
	} else {
		s.st.AddReplyCount(rootID, -1)
	}
	s.delState[commentID] = stateInFlight
	epoch := s.epoch
	s.mu.Unlock()

	err = s.gw.DeleteComment(ctx, commentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		delete(s.delState, commentID)
	}
	if err == nil {
		return nil
	}

	log.ErrorContext(ctx, "删除评论失败，恢复本地状态", "comment_id", commentID, "err", err)
	if s.epoch == epoch {
		s.st.Restore(snap)
		if topLevel {
			s.total++
		} else {
			s.st.AddReplyCount(rootID, 1)
		}
	}
	return ErrRequestFailed
}

// ReconcileCounts 以服务端权威值对账回复数与点赞数。
// 乐观增量不可长期累计信任，由定时任务周期性调用。
func (s *FeedSession) ReconcileCounts(ctx context.Context) error {
	s.mu.Lock()
	count := s.st.TopLevelCount()
	if count == 0 {
		s.mu.Unlock()
		return nil
	}
	q := &dto.FeedQueryDTO{
		BizType:  s.bizType,
		BizID:    s.bizID,
		Page:     1,
		PageSize: count,
		Sort:     s.sort,
	}
	epoch := s.epoch
	s.mu.Unlock()

	page, err := s.gw.ListComments(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	if err != nil {
		return ErrRequestFailed
	}

	for _, item := range page.List {
		c, ok := s.st.Get(item.CommentID)
		if !ok {
			continue
		}
		c.ReplyCount = item.ReplyCount
		c.IsTop = item.IsTop
		// 点赞请求在途时跳过计数合并，避免覆盖乐观状态
		if s.likeState[item.CommentID] != stateInFlight {
			c.LikeCount = item.LikeCount
			c.IsLiked = item.IsLiked
		}
	}
	s.total = page.Total
	s.finished = s.st.TopLevelCount() >= page.Total
	return nil
}

// Threads 当前渲染视图
func (s *FeedSession) Threads() []*model.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Threads()
}

// State 当前分页状态快照
func (s *FeedSession) State() FeedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FeedState{
		Sort:     s.sort,
		Page:     s.page,
		PageSize: s.pageSize,
		Total:    s.total,
		Loading:  s.topState == stateInFlight,
		Finished: s.finished,
		Count:    s.st.TopLevelCount(),
	}
}

// Subject 当前主题
func (s *FeedSession) Subject() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bizType, s.bizID
}

func convertComment(item *dto.CommentDTO) *model.Comment {
	c := &model.Comment{}
	_ = copier.Copy(c, item)
	return c
}
