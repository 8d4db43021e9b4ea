package store

import (
	"errors"

	"Echowall/internal/model"
)

// ErrNotFound 操作目标不在当前已加载集合中
var ErrNotFound = errors.New("评论不在当前已加载集合中")

// CommentStore 单个主题（biz_type + biz_id）的评论内存态。
// 采用 id -> 评论 的主表加 root_id -> 回复 ID 顺序表的索引结构，
// 不使用指针链式树，回滚与重建只需操作索引。
// 所有操作均为同步纯内存操作，线程安全由持有方保证。
type CommentStore struct {
	comments map[uint64]*model.Comment
	order    []uint64            // 一级评论的到达顺序
	replies  map[uint64][]uint64 // root_id -> 已加载回复的顺序
}

// LikeState 点赞相关的可回滚状态对
type LikeState struct {
	IsLiked   bool
	LikeCount int
}

// RemovedSubtree 删除操作捕获的快照，失败回滚时按原位置恢复
type RemovedSubtree struct {
	Comment *model.Comment
	Replies []*model.Comment
	Index   int
}

func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments: make(map[uint64]*model.Comment),
		replies:  make(map[uint64][]uint64),
	}
}

// InsertTop 按到达顺序追加一级评论。
// 线上格式允许一级评论的 root_id 为 0，这里统一归一化为自身 ID。
func (s *CommentStore) InsertTop(comments []*model.Comment) {
	for _, c := range comments {
		if c == nil {
			continue
		}
		c.ParentID = 0
		c.RootID = c.CommentID
		if _, exists := s.comments[c.CommentID]; exists {
			continue
		}
		s.comments[c.CommentID] = c
		s.order = append(s.order, c.CommentID)
		if _, ok := s.replies[c.CommentID]; !ok {
			s.replies[c.CommentID] = nil
		}
	}
}

// InsertReplies 向指定一级评论追加已加载回复
func (s *CommentStore) InsertReplies(rootID uint64, replies []*model.Comment) error {
	root, ok := s.comments[rootID]
	if !ok || !root.IsTopLevel() {
		return ErrNotFound
	}
	for _, r := range replies {
		if r == nil {
			continue
		}
		r.RootID = rootID
		if r.ParentID == 0 {
			r.ParentID = rootID
		}
		if _, exists := s.comments[r.CommentID]; exists {
			continue
		}
		s.comments[r.CommentID] = r
		s.replies[rootID] = append(s.replies[rootID], r.CommentID)
	}
	return nil
}

// Get 按 ID 查找已加载评论
func (s *CommentStore) Get(commentID uint64) (*model.Comment, bool) {
	c, ok := s.comments[commentID]
	return c, ok
}

// FindRoot 解析评论所属的一级评论，一级评论返回自身
func (s *CommentStore) FindRoot(commentID uint64) (*model.Comment, error) {
	c, ok := s.comments[commentID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.IsTopLevel() {
		return c, nil
	}
	root, ok := s.comments[c.RootID]
	if !ok {
		return nil, ErrNotFound
	}
	return root, nil
}

// Remove 删除评论；一级评论连同已加载回复一并删除。
// 返回的快照包含被删内容及原位置，用于失败回滚。
func (s *CommentStore) Remove(commentID uint64) (*RemovedSubtree, error) {
	c, ok := s.comments[commentID]
	if !ok {
		return nil, ErrNotFound
	}

	if c.IsTopLevel() {
		snap := &RemovedSubtree{Comment: c, Index: indexOf(s.order, commentID)}
		for _, rid := range s.replies[commentID] {
			if r, ok := s.comments[rid]; ok {
				snap.Replies = append(snap.Replies, r)
				delete(s.comments, rid)
			}
		}
		delete(s.replies, commentID)
		delete(s.comments, commentID)
		s.order = removeAt(s.order, snap.Index)
		return snap, nil
	}

	idx := indexOf(s.replies[c.RootID], commentID)
	snap := &RemovedSubtree{Comment: c, Index: idx}
	s.replies[c.RootID] = removeAt(s.replies[c.RootID], idx)
	delete(s.comments, commentID)
	return snap, nil
}

// Restore 将 Remove 捕获的快照恢复到原位置。
// 若回滚时目标上下文已被重建（如切换排序后），上层应放弃恢复。
func (s *CommentStore) Restore(snap *RemovedSubtree) {
	if snap == nil || snap.Comment == nil {
		return
	}
	c := snap.Comment
	if c.IsTopLevel() {
		if _, exists := s.comments[c.CommentID]; exists {
			return
		}
		s.comments[c.CommentID] = c
		s.order = insertAt(s.order, snap.Index, c.CommentID)
		for _, r := range snap.Replies {
			s.comments[r.CommentID] = r
			s.replies[c.CommentID] = append(s.replies[c.CommentID], r.CommentID)
		}
		return
	}
	if _, ok := s.comments[c.RootID]; !ok {
		return
	}
	s.comments[c.CommentID] = c
	s.replies[c.RootID] = insertAt(s.replies[c.RootID], snap.Index, c.CommentID)
}

// SetLikeState 覆盖点赞状态对并返回先前值，供失败时精确回滚
func (s *CommentStore) SetLikeState(commentID uint64, next LikeState) (LikeState, bool) {
	c, ok := s.comments[commentID]
	if !ok {
		return LikeState{}, false
	}
	prev := LikeState{IsLiked: c.IsLiked, LikeCount: c.LikeCount}
	c.IsLiked = next.IsLiked
	c.LikeCount = next.LikeCount
	if c.LikeCount < 0 {
		c.LikeCount = 0
	}
	return prev, true
}

// AddReplyCount 调整一级评论的回复总数，下限为已加载条数与 0
func (s *CommentStore) AddReplyCount(rootID uint64, delta int) {
	c, ok := s.comments[rootID]
	if !ok {
		return
	}
	c.ReplyCount += delta
	if c.ReplyCount < 0 {
		c.ReplyCount = 0
	}
}

// TopLevelCount 当前已加载的一级评论数
func (s *CommentStore) TopLevelCount() int {
	return len(s.order)
}

// RepliesLoaded 指定一级评论下已加载的回复数
func (s *CommentStore) RepliesLoaded(rootID uint64) int {
	return len(s.replies[rootID])
}

// Threads 按加载顺序输出渲染视图
func (s *CommentStore) Threads() []*model.Thread {
	threads := make([]*model.Thread, 0, len(s.order))
	for _, id := range s.order {
		c, ok := s.comments[id]
		if !ok {
			continue
		}
		t := &model.Thread{Comment: c}
		for _, rid := range s.replies[id] {
			if r, ok := s.comments[rid]; ok {
				t.Replies = append(t.Replies, r)
			}
		}
		t.HasMoreReplies = c.ReplyCount > len(t.Replies)
		threads = append(threads, t)
	}
	return threads
}

func indexOf(ids []uint64, id uint64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeAt(ids []uint64, idx int) []uint64 {
	if idx < 0 || idx >= len(ids) {
		return ids
	}
	return append(ids[:idx], ids[idx+1:]...)
}

func insertAt(ids []uint64, idx int, id uint64) []uint64 {
	if idx < 0 || idx > len(ids) {
		return append(ids, id)
	}
	ids = append(ids, 0)
	copy(ids[idx+1:], ids[idx:])
	ids[idx] = id
	return ids
}
